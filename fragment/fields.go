package fragment

import (
	"slices"
)

// Fields is an ordered mapping of header field codes to extracted values.
// Codes keep the order in which they were first recorded.
type Fields struct {
	order  []string
	values map[string][]string
}

// Set records values under code. Fields are append-only: code which is
// already recorded is refused with *FieldRecordedError. Values slice is
// copied.
func (f *Fields) Set(code string, values []string) error {
	if f.Has(code) {
		return &FieldRecordedError{Code: code}
	}
	if f.values == nil {
		f.values = make(map[string][]string)
	}
	f.order = append(f.order, code)
	f.values[code] = slices.Clone(values)
	return nil
}

// Has reports whether code was recorded.
func (f *Fields) Has(code string) bool {
	_, ok := f.values[code]
	return ok
}

// Get returns copy of values recorded under code.
func (f *Fields) Get(code string) []string {
	return slices.Clone(f.values[code])
}

// First returns first value recorded under code or empty string.
func (f *Fields) First(code string) string {
	if v := f.values[code]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// Codes returns recorded codes in recording order.
func (f *Fields) Codes() []string {
	return slices.Clone(f.order)
}

// Len returns number of recorded codes.
func (f *Fields) Len() int {
	return len(f.order)
}

// Map returns a copy of all fields as a plain map.
func (f *Fields) Map() map[string][]string {
	m := make(map[string][]string, len(f.values))
	for k, v := range f.values {
		m[k] = slices.Clone(v)
	}
	return m
}
