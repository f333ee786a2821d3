// Package types defines the value-level vocabulary serialized by the codec
// package: optional values, disjunctions, persisted failures, tuples and
// non-empty collection types.
//
// The types carry no serialization logic themselves; the codec package pairs
// each of them with a wire codec. They are plain data and safe to copy.
package types
