package export

import (
	"slices"
	"unicode/utf16"
)

// Value is the closed set of JSON-representable values the exporter
// emits. Traces are built from these rather than raw interfaces so the
// canonical encoder can reject anything it cannot render deterministically.
type Value interface {
	value()
}

// Str is a JSON string value.
type Str string

// Int is a JSON integer value. Durations and times are always integers.
type Int int64

// Float is a JSON number with a fractional part. NaN and infinities are
// rejected at encoding time.
type Float float64

// Bool is a JSON boolean value.
type Bool bool

// Arr is an ordered JSON array.
type Arr []Value

// Obj is a JSON object. Use SortedKeys for deterministic iteration.
type Obj map[string]Value

func (Str) value()   {}
func (Int) value()   {}
func (Float) value() {}
func (Bool) value()  {}
func (Arr) value()   {}
func (Obj) value()   {}

// SortedKeys returns keys in RFC 8785 canonical order: UTF-16 code units,
// not UTF-8 bytes. The two orders differ for strings containing
// supplementary-plane characters, so plain sort.Strings is not enough.
func (obj Obj) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
