package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type animal interface {
	sound() string
}

type dog struct {
	Name string
}

type cat struct {
	Lives int32
}

func (d *dog) sound() string { return "woof" }
func (c *cat) sound() string { return "meow" }

func dogCodec(t *testing.T) Codec[*dog] {
	t.Helper()

	c, err := Record("Dog",
		[]FieldSpec[*dog]{
			Field("name", String(), func(d *dog) string { return d.Name }),
		},
		func(values []any) (*dog, error) {
			return &dog{Name: values[0].(string)}, nil
		},
	)
	require.NoError(t, err)

	return c
}

func catCodec(t *testing.T) Codec[*cat] {
	t.Helper()

	c, err := Record("Cat",
		[]FieldSpec[*cat]{
			Field("lives", Int32(), func(c *cat) int32 { return c.Lives }),
		},
		func(values []any) (*cat, error) {
			return &cat{Lives: values[0].(int32)}, nil
		},
	)
	require.NoError(t, err)

	return c
}

func TestRegistry_RegistrationOrderIDs(t *testing.T) {
	r := NewRegistry()

	dogID, err := Register(r, dogCodec(t))
	require.NoError(t, err)
	require.Equal(t, int32(1), dogID)

	catID, err := Register(r, catCodec(t))
	require.NoError(t, err)
	require.Equal(t, int32(2), catID)
}

func TestRegistry_ExplicitIDs(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, RegisterWithID(r, 40, dogCodec(t)))
	require.Error(t, RegisterWithID(r, 40, catCodec(t)))
	require.Error(t, RegisterWithID(r, 0, catCodec(t)))
	require.Error(t, RegisterWithID(r, -3, catCodec(t)))

	// Same type may not be registered twice.
	require.Error(t, RegisterWithID(r, 41, dogCodec(t)))
}

func TestNameID_Stable(t *testing.T) {
	id := NameID("com.example.Dog")
	require.Positive(t, id)
	require.Equal(t, id, NameID("com.example.Dog"))
	require.NotEqual(t, id, NameID("com.example.Cat"))
}

func TestPolymorphicReferences(t *testing.T) {
	r := NewRegistry()
	_, err := Register(r, dogCodec(t))
	require.NoError(t, err)
	_, err = Register(r, catCodec(t))
	require.NoError(t, err)

	rex := &dog{Name: "rex"}
	whiskers := &cat{Lives: 9}

	out := NewBufferOutput()
	defer out.Release()
	ctx := NewSerializationContext(out, WithRegistry(r))

	require.NoError(t, ctx.StoreRefOrObject(rex))
	require.NoError(t, ctx.StoreRefOrObject(whiskers))
	require.NoError(t, ctx.StoreRefOrObject(rex)) // back-reference

	rctx := NewDeserializationContext(NewBytesInput(out.Bytes()), WithRegistry(r))

	first, err := rctx.ReadRefOrObject(true)
	require.NoError(t, err)
	require.Equal(t, "woof", first.(animal).sound())
	require.Equal(t, "rex", first.(*dog).Name)

	second, err := rctx.ReadRefOrObject(true)
	require.NoError(t, err)
	require.Equal(t, int32(9), second.(*cat).Lives)

	third, err := rctx.ReadRefOrObject(true)
	require.NoError(t, err)
	require.Same(t, first, third)
}

func TestPolymorphicReferences_UnregisteredType(t *testing.T) {
	r := NewRegistry()

	out := NewBufferOutput()
	defer out.Release()
	ctx := NewSerializationContext(out, WithRegistry(r))

	err := ctx.StoreRefOrObject(&dog{Name: "stray"})
	require.Error(t, err)
}

func TestPolymorphicReferences_NoRegistry(t *testing.T) {
	out := NewBufferOutput()
	defer out.Release()
	ctx := NewSerializationContext(out)

	err := ctx.StoreRefOrObject(&dog{Name: "stray"})
	require.Error(t, err)
}
