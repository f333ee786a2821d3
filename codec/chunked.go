package codec

import (
	"fmt"

	"github.com/evrium/sevo/errs"
)

// FieldPosition locates a field within a chunked record. It is serialized as
// a single byte: chunk 0 positions encode as the non-positive negated
// position, later chunks encode as the positive chunk id (their in-chunk
// position is not representable and collapses to 0). The byte 0x80 is
// reserved for references to removed fields.
type FieldPosition struct {
	Chunk    uint8
	Position uint8
}

// removedFieldPosition marks a field that was removed from the schema.
var removedFieldPosition = FieldPosition{Chunk: 128, Position: 0}

// IsRemoved reports whether the position is the removed-field marker.
func (p FieldPosition) IsRemoved() bool {
	return p.Chunk == 128
}

// normalize collapses positions in chunks above 0 the way the wire encoding
// does, so write-side and read-side positions compare equal.
func (p FieldPosition) normalize() FieldPosition {
	if p.Chunk > 0 && !p.IsRemoved() {
		return FieldPosition{Chunk: p.Chunk}
	}

	return p
}

// encode packs the position into its single-byte wire form.
func (p FieldPosition) encode() int8 {
	switch {
	case p.IsRemoved():
		return -128
	case p.Chunk == 0:
		return -int8(p.Position)
	default:
		return int8(p.Chunk)
	}
}

// decodeFieldPosition unpacks a position byte.
func decodeFieldPosition(b int8) FieldPosition {
	switch {
	case b == -128:
		return removedFieldPosition
	case b <= 0:
		return FieldPosition{Chunk: 0, Position: uint8(-b)}
	default:
		return FieldPosition{Chunk: uint8(b), Position: 0}
	}
}

// chunkedOutput routes the fields of one record write into per-generation
// chunk buffers and emits the version byte, the evolution header and the
// chunk bodies. At version 0 it degenerates to simple mode: the version
// byte followed by the fields written directly to the primary output.
type chunkedOutput struct {
	meta    *evolutionMetadata
	primary Output
	chunks  []*BufferOutput
	simple  bool

	lastIndexPerChunk map[uint8]uint8
	fieldIndices      map[string]FieldPosition
}

func newChunkedOutput(ctx *SerializationContext, meta *evolutionMetadata) (*chunkedOutput, error) {
	co := &chunkedOutput{
		meta:              meta,
		primary:           ctx.Output(),
		simple:            meta.version == 0,
		lastIndexPerChunk: make(map[uint8]uint8),
		fieldIndices:      make(map[string]FieldPosition),
	}

	if co.simple {
		// Simple mode has no header: the version byte leads the payload.
		return co, co.primary.WriteInt8(0)
	}

	co.chunks = make([]*BufferOutput, int(meta.version)+1)
	for i := range co.chunks {
		co.chunks[i] = newChunkOutput()
	}

	return co, nil
}

// release returns all chunk buffers to the pool. Safe to call on every exit
// path, including after failures.
func (co *chunkedOutput) release() {
	for _, chunk := range co.chunks {
		if chunk != nil {
			chunk.releaseChunk()
		}
	}
	co.chunks = nil
}

// outputFor returns the write surface for the given generation.
func (co *chunkedOutput) outputFor(chunk uint8) (Output, error) {
	if co.simple {
		return co.primary, nil
	}
	if int(chunk) >= len(co.chunks) {
		return nil, errs.NonExistingChunk(int(chunk))
	}

	return co.chunks[chunk], nil
}

// recordFieldIndex allocates the next position in the given chunk for a
// field and records it for header emission.
func (co *chunkedOutput) recordFieldIndex(name string, chunk uint8) FieldPosition {
	pos := co.lastIndexPerChunk[chunk]
	co.lastIndexPerChunk[chunk] = pos + 1

	fp := FieldPosition{Chunk: chunk, Position: pos}
	co.fieldIndices[name] = fp

	return fp
}

// finish emits the version byte, the evolution header and the buffered
// chunks onto the primary output. Header strings are written to the primary
// output directly and do not pass through the stream's interning table.
func (co *chunkedOutput) finish() error {
	if co.simple {
		return nil
	}

	if err := co.primary.WriteInt8(int8(co.meta.version)); err != nil {
		return err
	}

	for i, step := range co.meta.steps {
		if err := co.writeHeaderStep(i, step); err != nil {
			return err
		}
	}

	for _, chunk := range co.chunks {
		if err := co.primary.WriteBytes(chunk.Bytes()); err != nil {
			return err
		}
	}

	return nil
}

func (co *chunkedOutput) writeHeaderStep(index int, step EvolutionStep) error {
	switch s := step.(type) {
	case InitialVersion:
		return co.primary.WriteVarInt(int32(co.chunks[index].Len()), false)
	case FieldAdded:
		return co.primary.WriteVarInt(int32(co.chunks[index].Len()), false)
	case FieldMadeOptional:
		fp, ok := co.fieldIndices[s.Name]
		if !ok {
			if _, removed := co.meta.removedFields[s.Name]; removed {
				fp = removedFieldPosition
			} else {
				return errs.UnknownFieldReference(s.Name)
			}
		}

		if err := co.primary.WriteVarInt(-1, false); err != nil {
			return err
		}

		return co.primary.WriteInt8(fp.encode())
	case FieldRemoved:
		if err := co.primary.WriteVarInt(-2, false); err != nil {
			return err
		}

		return writeHeaderString(co.primary, s.Name)
	default:
		return co.primary.WriteVarInt(0, false)
	}
}

// Header field names bypass the stream's interning table: the header is
// written after the chunk bodies are buffered but read before them, so
// interned ids would be assigned in different orders on the two sides.
func writeHeaderString(out Output, s string) error {
	if err := out.WriteVarInt(int32(len(s)), false); err != nil {
		return err
	}

	return out.WriteBytes([]byte(s))
}

func readHeaderString(in Input) (string, error) {
	n, err := in.ReadVarInt(false)
	if err != nil {
		return "", err
	}
	if n < 0 {
		return "", errs.Deserialization(fmt.Sprintf("invalid header string length %d", n), nil)
	}

	p, err := in.ReadBytes(int(n))
	if err != nil {
		return "", err
	}

	return string(p), nil
}

// chunkedInput is the read-side mirror: it consumes the version byte, the
// evolution header and the chunk bodies, and serves per-generation readers.
type chunkedInput struct {
	storedVersion uint8
	primary       Input
	chunks        []Input
	simple        bool

	// madeOptionalAt maps a field position to the index of the
	// FieldMadeOptional step the stream's writer had applied there.
	madeOptionalAt map[FieldPosition]uint8

	// removedFields holds the names the stream's writer had removed.
	removedFields map[string]struct{}

	lastIndexPerChunk map[uint8]uint8
}

func newChunkedInput(ctx *DeserializationContext) (*chunkedInput, error) {
	version, err := ctx.Input().ReadInt8()
	if err != nil {
		return nil, err
	}
	if version < 0 {
		return nil, errs.Deserialization(fmt.Sprintf("invalid record version %d", version), nil)
	}

	ci := &chunkedInput{
		storedVersion:     uint8(version),
		primary:           ctx.Input(),
		simple:            version == 0,
		madeOptionalAt:    make(map[FieldPosition]uint8),
		removedFields:     make(map[string]struct{}),
		lastIndexPerChunk: make(map[uint8]uint8),
	}

	if ci.simple {
		return ci, nil
	}

	slots := int(version) + 1
	sizes := make([]int32, slots)
	for i := 0; i < slots; i++ {
		code, err := ctx.Input().ReadVarInt(false)
		if err != nil {
			return nil, err
		}

		switch {
		case code > 0:
			sizes[i] = code
		case code == 0:
			// Unknown step: zero-byte chunk placeholder.
		case code == -1:
			positionByte, err := ctx.Input().ReadInt8()
			if err != nil {
				return nil, err
			}
			ci.madeOptionalAt[decodeFieldPosition(positionByte)] = uint8(i)
		case code == -2:
			name, err := readHeaderString(ctx.Input())
			if err != nil {
				return nil, err
			}
			ci.removedFields[name] = struct{}{}
		default:
			return nil, errs.UnknownEvolutionStep(code)
		}
	}

	ci.chunks = make([]Input, slots)
	for i := 0; i < slots; i++ {
		body, err := ctx.Input().ReadBytes(int(sizes[i]))
		if err != nil {
			return nil, err
		}
		ci.chunks[i] = NewBytesInput(body)
	}

	return ci, nil
}

// inputFor returns the read surface for the given generation.
func (ci *chunkedInput) inputFor(chunk uint8) (Input, error) {
	if ci.simple {
		return ci.primary, nil
	}
	if int(chunk) >= len(ci.chunks) {
		return nil, errs.NonExistingChunk(int(chunk))
	}

	return ci.chunks[chunk], nil
}

// allocIndex mirrors the writer's position accounting for one declared
// field, normalized to the wire's collapsed representation.
func (ci *chunkedInput) allocIndex(chunk uint8) FieldPosition {
	pos := ci.lastIndexPerChunk[chunk]
	ci.lastIndexPerChunk[chunk] = pos + 1

	return FieldPosition{Chunk: chunk, Position: pos}.normalize()
}

// streamMadeOptionalAt reports whether the stream's writer had applied
// FieldMadeOptional at the given position.
func (ci *chunkedInput) streamMadeOptionalAt(fp FieldPosition) bool {
	_, ok := ci.madeOptionalAt[fp.normalize()]
	return ok
}

// streamRemoved reports whether the stream's writer had removed the field.
func (ci *chunkedInput) streamRemoved(name string) bool {
	_, ok := ci.removedFields[name]
	return ok
}
