package codec

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// Registry maps stable small positive integer ids to codecs, keyed for
// dispatch by the runtime type of the value. It is consulted only by the
// polymorphic reference protocol (StoreRefOrObject / ReadRefOrObject); static
// codecs never need one.
//
// Ids are part of the on-wire format for polymorphic references and must
// remain stable across deployments: register types in a fixed order, or pin
// ids explicitly with RegisterWithID / NameID.
//
// A Registry is read-only after construction and safe for concurrent use.
type Registry struct {
	byID   map[int32]Erased
	byType map[reflect.Type]registration
	nextID int32
}

type registration struct {
	id    int32
	codec Erased
}

// NewRegistry creates an empty type registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:   make(map[int32]Erased),
		byType: make(map[reflect.Type]registration),
	}
}

// Register adds c under the next id in registration order (1, 2, ...).
func Register[T any](r *Registry, c Codec[T]) (int32, error) {
	r.nextID++
	for _, taken := r.byID[r.nextID]; taken; _, taken = r.byID[r.nextID] {
		r.nextID++
	}

	return r.nextID, RegisterWithID(r, r.nextID, c)
}

// RegisterWithID adds c under an explicit id. Ids must be positive and
// unique; a type may be registered only once.
func RegisterWithID[T any](r *Registry, id int32, c Codec[T]) error {
	if id <= 0 {
		return fmt.Errorf("type id must be positive, got %d", id)
	}
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("type id %d is already registered", id)
	}

	erased := Erase(c)
	t := erased.valueType()
	if _, exists := r.byType[t]; exists {
		return fmt.Errorf("type %s is already registered", t)
	}

	r.byID[id] = erased
	r.byType[t] = registration{id: id, codec: erased}

	return nil
}

// NameID derives a stable positive id from a type name by hashing it with
// xxHash64. Useful when registration order cannot be fixed across
// deployments; the name becomes the stability contract instead.
func NameID(name string) int32 {
	id := int32(xxhash.Sum64String(name) & 0x7FFFFFFF)
	if id == 0 {
		id = 1
	}

	return id
}

// lookupByValue finds the registration for the runtime type of value.
func (r *Registry) lookupByValue(value any) (int32, Erased, bool) {
	reg, ok := r.byType[reflect.TypeOf(value)]
	if !ok {
		return 0, nil, false
	}

	return reg.id, reg.codec, true
}

// lookupByID finds the codec registered under id.
func (r *Registry) lookupByID(id int32) (Erased, bool) {
	c, ok := r.byID[id]
	return c, ok
}
