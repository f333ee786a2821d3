// Package errs defines the closed error taxonomy of the sevo serialization core.
//
// Every failure surfaced by the library wraps one of the sentinel errors in this
// package, so callers can classify failures with errors.Is without parsing
// messages:
//
//	data, err := sevo.Marshal(pointCodec, p)
//	if errors.Is(err, errs.ErrSerializationFailure) {
//	    // I/O or compression error during write
//	}
//
// All errors are terminal: once a codec produces an error, no further bytes are
// written or consumed and no partial value is returned.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrSerializationFailure indicates an I/O or compression error during write.
	ErrSerializationFailure = errors.New("serialization failure")

	// ErrDeserializationFailure indicates an I/O, decompression or malformed
	// primitive error during read.
	ErrDeserializationFailure = errors.New("deserialization failure")

	// ErrFieldRemoved indicates the stream's writer had removed a field that
	// the reader still declares as non-optional.
	ErrFieldRemoved = errors.New("field was removed in the serialized version")

	// ErrFieldMissingDefault indicates the reader expects a field not present in
	// the stream and no default value was declared for it.
	ErrFieldMissingDefault = errors.New("field without default value is missing")

	// ErrNonOptionalSerializedAsNone indicates the stream marks a field optional
	// and stored None, but the reader's static type is non-optional.
	ErrNonOptionalSerializedAsNone = errors.New("non-optional field was serialized as None")

	// ErrInvalidConstructorName indicates the writer was asked to encode a
	// constructor that is not registered in the union.
	ErrInvalidConstructorName = errors.New("invalid constructor name")

	// ErrInvalidConstructorID indicates the reader saw a constructor id outside
	// its constructor map.
	ErrInvalidConstructorID = errors.New("invalid constructor id")

	// ErrUnknownFieldReference indicates an evolution step references a field
	// name that is neither indexed nor recorded as removed.
	ErrUnknownFieldReference = errors.New("unknown field reference in evolution step")

	// ErrUnknownEvolutionStep indicates a header step code outside the known
	// encoding space.
	ErrUnknownEvolutionStep = errors.New("unknown serialized evolution step")

	// ErrNonExistingChunk indicates the reader asked for a chunk id beyond the
	// stored version.
	ErrNonExistingChunk = errors.New("deserializing non-existing chunk")
)

// Serialization wraps cause as a serialization failure.
func Serialization(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrSerializationFailure, msg)
	}

	return fmt.Errorf("%w: %s: %w", ErrSerializationFailure, msg, cause)
}

// Deserialization wraps cause as a deserialization failure.
func Deserialization(msg string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%w: %s", ErrDeserializationFailure, msg)
	}

	return fmt.Errorf("%w: %s: %w", ErrDeserializationFailure, msg, cause)
}

// FieldRemoved reports a non-optional field removed by the stream's writer.
func FieldRemoved(name string) error {
	return fmt.Errorf("%w: %s", ErrFieldRemoved, name)
}

// FieldMissingDefault reports a missing field with no declared default.
func FieldMissingDefault(name string) error {
	return fmt.Errorf("%w: %s", ErrFieldMissingDefault, name)
}

// NonOptionalSerializedAsNone reports a None stored for a non-optional field.
func NonOptionalSerializedAsNone(name string) error {
	return fmt.Errorf("%w: %s", ErrNonOptionalSerializedAsNone, name)
}

// InvalidConstructorName reports an unregistered constructor on write.
func InvalidConstructorName(name, typeDesc string) error {
	return fmt.Errorf("%w: %s in %s", ErrInvalidConstructorName, name, typeDesc)
}

// InvalidConstructorID reports an unknown constructor id on read.
func InvalidConstructorID(id int32, typeDesc string) error {
	return fmt.Errorf("%w: %d in %s", ErrInvalidConstructorID, id, typeDesc)
}

// UnknownFieldReference reports an evolution step naming an unknown field.
func UnknownFieldReference(name string) error {
	return fmt.Errorf("%w: %s", ErrUnknownFieldReference, name)
}

// UnknownEvolutionStep reports an unrecognized header step code.
func UnknownEvolutionStep(code int32) error {
	return fmt.Errorf("%w: code %d", ErrUnknownEvolutionStep, code)
}

// NonExistingChunk reports a chunk id beyond the stored version.
func NonExistingChunk(chunk int) error {
	return fmt.Errorf("%w: chunk %d", ErrNonExistingChunk, chunk)
}
