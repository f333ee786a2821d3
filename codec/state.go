package codec

// State holds the per-stream interning and reference maps shared by all
// codecs in one serialization or deserialization call.
//
// Strings are interned by content: the first occurrence of a distinct string
// is written in full and assigned id 1, 2, ... in order; later occurrences
// write a back-reference to the id. Objects are tracked by identity (the
// pointer, not the pointed-to value): the same pointer encountered twice
// produces a back-reference, two distinct pointers to equal values are
// serialized twice.
//
// A State is owned by a single in-flight call and must not be shared across
// goroutines.
type State struct {
	stringByID map[int32]string
	idByString map[string]int32

	objectByID map[int32]any
	idByObject map[any]int32

	lastStringID int32
	lastObjectID int32
}

// NewState creates an empty per-stream state.
func NewState() *State {
	return &State{
		stringByID: make(map[int32]string),
		idByString: make(map[string]int32),
		objectByID: make(map[int32]any),
		idByObject: make(map[any]int32),
	}
}

// internString returns the id already assigned to s, or assigns the next one.
// The second result reports whether the string was new.
func (s *State) internString(str string) (int32, bool) {
	if id, ok := s.idByString[str]; ok {
		return id, false
	}

	s.lastStringID++
	s.idByString[str] = s.lastStringID
	s.stringByID[s.lastStringID] = str

	return s.lastStringID, true
}

// stringForID resolves a previously interned string id.
func (s *State) stringForID(id int32) (string, bool) {
	str, ok := s.stringByID[id]
	return str, ok
}

// objectID returns the id under which obj was stored, if any.
func (s *State) objectID(obj any) (int32, bool) {
	id, ok := s.idByObject[obj]
	return id, ok
}

// storeObject assigns the next object id to obj.
func (s *State) storeObject(obj any) int32 {
	s.lastObjectID++
	s.idByObject[obj] = s.lastObjectID
	s.objectByID[s.lastObjectID] = obj

	return s.lastObjectID
}

// objectForID resolves a previously stored object id.
func (s *State) objectForID(id int32) (any, bool) {
	obj, ok := s.objectByID[id]
	return obj, ok
}
