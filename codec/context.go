package codec

import (
	"fmt"

	"github.com/evrium/sevo/errs"
	"github.com/evrium/sevo/internal/options"
)

// SerializationContext threads the write surface, the per-stream state and
// the optional type registry through nested codec invocations. A context is
// owned by one in-flight call.
type SerializationContext struct {
	out      Output
	state    *State
	registry *Registry
}

// ContextOption configures a serialization or deserialization context.
type ContextOption = options.Option[*contextConfig]

type contextConfig struct {
	registry *Registry
}

// WithRegistry attaches a type registry, enabling the polymorphic reference
// protocol (StoreRefOrObject / ReadRefOrObject).
func WithRegistry(r *Registry) ContextOption {
	return options.NoError(func(cfg *contextConfig) {
		cfg.registry = r
	})
}

// NewSerializationContext creates a context writing to out.
func NewSerializationContext(out Output, opts ...ContextOption) *SerializationContext {
	cfg := &contextConfig{}
	_ = options.Apply(cfg, opts...)

	return &SerializationContext{
		out:      out,
		state:    NewState(),
		registry: cfg.registry,
	}
}

// Output returns the currently active write surface. Record codecs swap it
// while routing fields into per-generation chunks.
func (ctx *SerializationContext) Output() Output {
	return ctx.out
}

// swapOutput replaces the active output and returns the previous one.
func (ctx *SerializationContext) swapOutput(out Output) Output {
	prev := ctx.out
	ctx.out = out

	return prev
}

// State returns the per-stream interning and reference state.
func (ctx *SerializationContext) State() *State {
	return ctx.state
}

// Registry returns the attached type registry, or nil.
func (ctx *SerializationContext) Registry() *Registry {
	return ctx.registry
}

// StoreString writes s with per-stream interning: the first occurrence of a
// distinct string writes its UTF-8 bytes after a positive zigzag varint
// length; later occurrences write the negative string id as the length
// field. The empty string writes length 0 and is assigned no id.
func (ctx *SerializationContext) StoreString(s string) error {
	if len(s) == 0 {
		return ctx.out.WriteVarInt(0, false)
	}

	if id, ok := ctx.state.idByString[s]; ok {
		return ctx.out.WriteVarInt(-id, false)
	}

	ctx.state.internString(s)
	if err := ctx.out.WriteVarInt(int32(len(s)), false); err != nil {
		return err
	}

	return ctx.out.WriteBytes([]byte(s))
}

// DeserializationContext mirrors SerializationContext for reads.
type DeserializationContext struct {
	in       Input
	state    *State
	registry *Registry

	// constructorName memoizes the union constructor resolved for the record
	// currently being read, so nested chunk reads don't re-read it.
	constructorName string
}

// NewDeserializationContext creates a context reading from in.
func NewDeserializationContext(in Input, opts ...ContextOption) *DeserializationContext {
	cfg := &contextConfig{}
	_ = options.Apply(cfg, opts...)

	return &DeserializationContext{
		in:       in,
		state:    NewState(),
		registry: cfg.registry,
	}
}

// Input returns the currently active read surface. Record codecs swap it
// while pulling fields out of per-generation chunks.
func (ctx *DeserializationContext) Input() Input {
	return ctx.in
}

// swapInput replaces the active input and returns the previous one.
func (ctx *DeserializationContext) swapInput(in Input) Input {
	prev := ctx.in
	ctx.in = in

	return prev
}

// State returns the per-stream interning and reference state.
func (ctx *DeserializationContext) State() *State {
	return ctx.state
}

// Registry returns the attached type registry, or nil.
func (ctx *DeserializationContext) Registry() *Registry {
	return ctx.registry
}

// ReadString reads a string written by StoreString, resolving back-references
// against the stream's interning table and registering first occurrences.
func (ctx *DeserializationContext) ReadString() (string, error) {
	n, err := ctx.in.ReadVarInt(false)
	if err != nil {
		return "", err
	}

	switch {
	case n == 0:
		return "", nil
	case n < 0:
		s, ok := ctx.state.stringForID(-n)
		if !ok {
			return "", errs.Deserialization(fmt.Sprintf("invalid string back-reference %d", -n), nil)
		}

		return s, nil
	default:
		p, err := ctx.in.ReadBytes(int(n))
		if err != nil {
			return "", err
		}

		s := string(p)
		ctx.state.internString(s)

		return s, nil
	}
}
