package types

import (
	"cmp"
	"encoding/json"
	"slices"
)

// SelectionKind decides what an empty selection means for a facet.
type SelectionKind uint8

const (
	// KindUnrestricted matches every value.
	KindUnrestricted SelectionKind = iota
	// KindAnyOf matches the listed values. It never holds an empty set, an
	// empty AnyOf collapses to KindUnrestricted.
	KindAnyOf
	// KindRequired matches the listed values and nothing when empty.
	KindRequired
)

func (k SelectionKind) String() string {
	switch k {
	case KindAnyOf:
		return "any-of"
	case KindRequired:
		return "required"
	}
	return "unrestricted"
}

// Selection is the value of one multi-select facet. Values are kept sorted
// and deduplicated so two selections holding the same set compare equal.
type Selection[V cmp.Ordered] struct {
	kind   SelectionKind
	values []V
}

func Unrestricted[V cmp.Ordered]() Selection[V] {
	return Selection[V]{kind: KindUnrestricted}
}

// AnyOf builds an empty-means-all selection.
func AnyOf[V cmp.Ordered](values ...V) Selection[V] {
	v := normalize(values)
	if len(v) == 0 {
		return Selection[V]{kind: KindUnrestricted}
	}
	return Selection[V]{kind: KindAnyOf, values: v}
}

// Required builds an empty-means-none selection.
func Required[V cmp.Ordered](values ...V) Selection[V] {
	return Selection[V]{kind: KindRequired, values: normalize(values)}
}

func normalize[V cmp.Ordered](values []V) []V {
	if len(values) == 0 {
		return nil
	}
	ret := slices.Clone(values)
	slices.Sort(ret)
	return slices.Compact(ret)
}

func (s Selection[V]) Kind() SelectionKind {
	return s.kind
}

func (s Selection[V]) Values() []V {
	return slices.Clone(s.values)
}

func (s Selection[V]) Len() int {
	return len(s.values)
}

func (s Selection[V]) IsEmpty() bool {
	return len(s.values) == 0
}

func (s Selection[V]) Contains(v V) bool {
	_, found := slices.BinarySearch(s.values, v)
	return found
}

func (s Selection[V]) ContainsFunc(fn func(V) bool) bool {
	return slices.ContainsFunc(s.values, fn)
}

// Restricts reports whether the selection can reject a value.
func (s Selection[V]) Restricts() bool {
	return s.kind != KindUnrestricted
}

// Allows is the facet gate for a single value.
func (s Selection[V]) Allows(v V) bool {
	if s.kind == KindUnrestricted {
		return true
	}
	return s.Contains(v)
}

// Equal compares kind and value set.
func (s Selection[V]) Equal(o Selection[V]) bool {
	return s.kind == o.kind && slices.Equal(s.values, o.values)
}

// SameValues compares the value set with an arbitrary list, ignoring order
// and duplicates.
func (s Selection[V]) SameValues(values []V) bool {
	return slices.Equal(s.values, normalize(values))
}

// Missing returns the selected values that are not part of universe.
func (s Selection[V]) Missing(universe []V) []V {
	var ret []V
	for _, v := range s.values {
		if !slices.Contains(universe, v) {
			ret = append(ret, v)
		}
	}
	return ret
}

func (s Selection[V]) MarshalJSON() ([]byte, error) {
	if s.values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.values)
}
