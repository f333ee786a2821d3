package types

// Either holds exactly one of two values: a Left of type L or a Right of
// type R. The zero value is a Left holding L's zero value.
type Either[L, R any] struct {
	left    L
	right   R
	isRight bool
}

// Left creates an Either holding a left value.
func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{left: v}
}

// Right creates an Either holding a right value.
func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{right: v, isRight: true}
}

// IsRight reports whether the Either holds a right value.
func (e Either[L, R]) IsRight() bool {
	return e.isRight
}

// LeftValue returns the left value and whether it is the held side.
func (e Either[L, R]) LeftValue() (L, bool) {
	return e.left, !e.isRight
}

// RightValue returns the right value and whether it is the held side.
func (e Either[L, R]) RightValue() (R, bool) {
	return e.right, e.isRight
}

// Validated holds either a validation error of type E (Invalid) or a value
// of type A (Valid). It shares Either's wire shape: tag 0 is Invalid, tag 1
// is Valid.
type Validated[E, A any] struct {
	err     E
	value   A
	isValid bool
}

// Invalid creates a Validated holding a validation error.
func Invalid[E, A any](err E) Validated[E, A] {
	return Validated[E, A]{err: err}
}

// Valid creates a Validated holding a value.
func Valid[E, A any](v A) Validated[E, A] {
	return Validated[E, A]{value: v, isValid: true}
}

// IsValid reports whether the Validated holds a value.
func (v Validated[E, A]) IsValid() bool {
	return v.isValid
}

// ErrorValue returns the validation error and whether it is the held side.
func (v Validated[E, A]) ErrorValue() (E, bool) {
	return v.err, !v.isValid
}

// Value returns the value and whether it is the held side.
func (v Validated[E, A]) Value() (A, bool) {
	return v.value, v.isValid
}
