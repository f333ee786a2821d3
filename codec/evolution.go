package codec

import "fmt"

// EvolutionStep describes one schema change of a record or union type. The
// ordered step list, starting with InitialVersion, is the type's evolution
// history; its length minus one is the current version and must fit in a
// signed byte.
type EvolutionStep interface {
	evolutionStep()
}

// InitialVersion is the mandatory first evolution step.
type InitialVersion struct{}

// FieldAdded marks a field introduced at this step. Streams written before
// this step decode with the field filled from Default. The step index
// becomes the field's generation: the chunk its bytes live in.
type FieldAdded struct {
	Name    string
	Default any
}

// FieldMadeOptional marks an existing field whose static type changed from H
// to Option[H] at this step. Streams written before it decode by wrapping
// the raw value in a defined option.
type FieldMadeOptional struct {
	Name string
}

// FieldRemoved marks a field dropped at this step. Streams still carrying it
// decode with the value discarded; readers whose static type kept the field
// as non-optional fail.
type FieldRemoved struct {
	Name string
}

// UnknownEvolution is a placeholder step consuming a version slot without
// changing the layout.
type UnknownEvolution struct{}

func (InitialVersion) evolutionStep()    {}
func (FieldAdded) evolutionStep()        {}
func (FieldMadeOptional) evolutionStep() {}
func (FieldRemoved) evolutionStep()      {}
func (UnknownEvolution) evolutionStep()  {}

// maxVersion bounds the evolution history: the version byte is a signed
// 8-bit value.
const maxVersion = 127

// evolutionMetadata holds the tables derived once per codec from its
// evolution step list.
type evolutionMetadata struct {
	steps   []EvolutionStep
	version uint8

	fieldGeneration map[string]uint8
	fieldDefaults   map[string]any
	madeOptionalAt  map[string]uint8
	removedFields   map[string]struct{}
}

// deriveEvolutionMetadata validates the step list and precomputes the
// generation, default, optionality and removal tables. An empty list is
// treated as a single InitialVersion.
func deriveEvolutionMetadata(steps []EvolutionStep) (*evolutionMetadata, error) {
	if len(steps) == 0 {
		steps = []EvolutionStep{InitialVersion{}}
	}
	if _, ok := steps[0].(InitialVersion); !ok {
		return nil, fmt.Errorf("evolution history must start with InitialVersion, got %T", steps[0])
	}
	if len(steps)-1 > maxVersion {
		return nil, fmt.Errorf("evolution history has %d steps, version exceeds %d", len(steps), maxVersion)
	}

	meta := &evolutionMetadata{
		steps:           steps,
		version:         uint8(len(steps) - 1),
		fieldGeneration: make(map[string]uint8),
		fieldDefaults:   make(map[string]any),
		madeOptionalAt:  make(map[string]uint8),
		removedFields:   make(map[string]struct{}),
	}

	for i, step := range steps {
		switch s := step.(type) {
		case FieldAdded:
			meta.fieldGeneration[s.Name] = uint8(i)
			if s.Default != nil {
				meta.fieldDefaults[s.Name] = s.Default
			}
		case FieldMadeOptional:
			meta.madeOptionalAt[s.Name] = uint8(i)
		case FieldRemoved:
			meta.removedFields[s.Name] = struct{}{}
		}
	}

	return meta, nil
}

// generationOf returns the chunk a field's bytes live in: the index of its
// FieldAdded step, or 0 for fields present since the initial version.
func (m *evolutionMetadata) generationOf(name string) uint8 {
	return m.fieldGeneration[name]
}
