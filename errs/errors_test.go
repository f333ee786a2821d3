package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapping(t *testing.T) {
	cause := errors.New("disk full")

	err := Serialization("flush failed", cause)
	require.ErrorIs(t, err, ErrSerializationFailure)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "flush failed")

	err = Deserialization("short read", nil)
	require.ErrorIs(t, err, ErrDeserializationFailure)
}

func TestFieldErrors(t *testing.T) {
	require.ErrorIs(t, FieldRemoved("x"), ErrFieldRemoved)
	require.ErrorIs(t, FieldMissingDefault("x"), ErrFieldMissingDefault)
	require.ErrorIs(t, NonOptionalSerializedAsNone("x"), ErrNonOptionalSerializedAsNone)
	require.Contains(t, FieldRemoved("x").Error(), "x")
}

func TestStructuralErrors(t *testing.T) {
	require.ErrorIs(t, InvalidConstructorName("Beer", "Drink"), ErrInvalidConstructorName)
	require.ErrorIs(t, InvalidConstructorID(9, "Drink"), ErrInvalidConstructorID)
	require.ErrorIs(t, UnknownFieldReference("ghost"), ErrUnknownFieldReference)
	require.ErrorIs(t, UnknownEvolutionStep(-7), ErrUnknownEvolutionStep)
	require.ErrorIs(t, NonExistingChunk(3), ErrNonExistingChunk)
}
