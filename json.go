package graphdb

import (
	"encoding/json"
	"math"
	"sort"
)

// Json wraps an arbitrary JSON document (null, bool, number, string, array,
// or object) with a total hash function and a partial order extension, for
// use as a property value and as an index/comparison key.
//
// The wrapped value uses Go's standard decode shape: nil, bool, float64,
// string, []any, map[string]any — except that Json additionally recognizes
// int64/uint64 (and int) for numbers constructed directly, and
// UnmarshalJSON stores integral decoded numbers as int64 (see
// normalizeDecoded), so that integral values compare and hash the way spec
// §3 requires (i64/u64 promotion rules, not float64 truncation).
type Json struct {
	value any
}

// NewJson wraps an arbitrary decoded JSON value.
func NewJson(value any) Json {
	return Json{value: value}
}

// Value returns the wrapped value.
func (j Json) Value() any {
	return j.value
}

// MarshalJSON implements json.Marshaler.
func (j Json) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (j *Json) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	j.value = normalizeDecoded(v)
	return nil
}

// normalizeDecoded converts encoding/json's json.Number-free decode output
// (float64 for every number) into int64 when the value is integral and
// representable, so round-tripping through JSON text doesn't silently
// demote an integer to a float for ordering/hashing purposes.
func normalizeDecoded(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && t >= -9.007199254740992e15 && t <= 9.007199254740992e15 {
			return int64(t)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeDecoded(e)
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeDecoded(e)
		}
		return t
	default:
		return v
	}
}

// hashTag distinguishes JSON variants in the hash so e.g. Json(0) and
// Json(false) never collide just because a naive hash of their payloads
// would match.
type hashTag byte

const (
	tagNull hashTag = iota
	tagBool
	tagNumber
	tagString
	tagArray
	tagObject
)

// Hash returns a 64-bit hash of the wrapped value per spec §3: a
// variant-tagged, order-sensitive hash over numbers (by native integer
// value when integral, by raw f64 bit pattern otherwise — so distinct NaN
// bit patterns hash distinctly), strings, and the ordered sequence of
// (key then) value hashes for objects/arrays.
func (j Json) Hash() uint64 {
	h := fnvOffset
	hashInto(&h, j.value)
	return h
}

const (
	fnvOffset = uint64(14695981039346656037)
	fnvPrime  = uint64(1099511628211)
)

func fnvWriteByte(h *uint64, b byte) {
	*h ^= uint64(b)
	*h *= fnvPrime
}

func fnvWriteUint64(h *uint64, v uint64) {
	for i := 0; i < 8; i++ {
		fnvWriteByte(h, byte(v>>(8*i)))
	}
}

func fnvWriteString(h *uint64, s string) {
	for i := 0; i < len(s); i++ {
		fnvWriteByte(h, s[i])
	}
}

func hashInto(h *uint64, v any) {
	switch t := v.(type) {
	case nil:
		fnvWriteByte(h, byte(tagNull))
	case bool:
		fnvWriteByte(h, byte(tagBool))
		if t {
			fnvWriteByte(h, 1)
		} else {
			fnvWriteByte(h, 0)
		}
	case int64:
		fnvWriteByte(h, byte(tagNumber))
		fnvWriteUint64(h, uint64(t))
	case uint64:
		fnvWriteByte(h, byte(tagNumber))
		fnvWriteUint64(h, t)
	case int:
		fnvWriteByte(h, byte(tagNumber))
		fnvWriteUint64(h, uint64(int64(t)))
	case float64:
		fnvWriteByte(h, byte(tagNumber))
		fnvWriteUint64(h, math.Float64bits(t))
	case string:
		fnvWriteByte(h, byte(tagString))
		fnvWriteString(h, t)
	case []any:
		fnvWriteByte(h, byte(tagArray))
		for _, e := range t {
			hashInto(h, e)
		}
	case map[string]any:
		fnvWriteByte(h, byte(tagObject))
		for _, k := range sortedKeys(t) {
			fnvWriteString(h, k)
			hashInto(h, t[k])
		}
	default:
		fnvWriteByte(h, byte(tagNull))
	}
}

// sortedKeys is used only for Hash: Go decodes JSON objects into
// map[string]any, which has no stored order, so the hash (unlike
// PartialCompare, which operates on an ordered-pair representation — see
// below) is computed over keys sorted ascending. This makes Hash stable
// across two Json values built from the same object text regardless of Go
// map iteration order, at the cost of not matching the original's
// stored-insertion-order hash exactly for objects; it still satisfies
// Hash(v) == Hash(v) and tags every variant with its own byte.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ordering is the result of PartialCompare: Less, Equal, Greater, or
// Unordered (no ordering — cross-variant comparisons, or NaN).
type Ordering int

const (
	OrderingUnordered Ordering = iota
	OrderingLess
	OrderingEqual
	OrderingGreater
)

// PartialCompare implements the partial order from spec §3: total within
// like variants (with the stated i64/u64/f64 promotion rules for numbers),
// undefined across variants.
func (j Json) PartialCompare(other Json) Ordering {
	return partialCompare(j.value, other.value)
}

// Equal reports whether j and other compare Equal; per spec, Json values
// are derived from the partial order, so two Json(NaN) values are unequal
// even though they hash equal (same bit pattern).
func (j Json) Equal(other Json) bool {
	return j.PartialCompare(other) == OrderingEqual
}

// Less reports whether j sorts strictly before other; false for
// OrderingUnordered (NaN, or cross-variant comparisons).
func (j Json) Less(other Json) bool {
	return j.PartialCompare(other) == OrderingLess
}

func asNumber(v any) (asI64 int64, isI64 bool, asU64 uint64, isU64 bool, asF64 float64, isF64 bool) {
	switch t := v.(type) {
	case int64:
		return t, true, 0, false, 0, false
	case uint64:
		return 0, false, t, true, 0, false
	case int:
		return int64(t), true, 0, false, 0, false
	case float64:
		return 0, false, 0, false, t, true
	default:
		return 0, false, 0, false, 0, false
	}
}

func compareFloat(a, b float64) Ordering {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return OrderingUnordered
	case a < b:
		return OrderingLess
	case a > b:
		return OrderingGreater
	default:
		return OrderingEqual
	}
}

// compareNumbers implements spec §3's promotion table: i64 vs u64 compares
// via a checked conversion (an i64 outside u64's representable range is
// always Less than any u64 — i.e. negative i64s lose to all u64s); any
// comparison touching an f64 falls back to native float comparison (so NaN
// yields Unordered).
func compareNumbers(av any, bv any) Ordering {
	ai, aIsI, au, aIsU, af, aIsF := asNumber(av)
	bi, bIsI, bu, bIsU, bf, bIsF := asNumber(bv)

	switch {
	case aIsI && bIsI:
		return compareInt64(ai, bi)
	case aIsI && bIsU:
		if ai < 0 {
			return OrderingLess
		}
		return compareUint64(uint64(ai), bu)
	case aIsI && bIsF:
		return compareFloat(float64(ai), bf)
	case aIsU && bIsI:
		if bi < 0 {
			return OrderingGreater
		}
		return compareUint64(au, uint64(bi))
	case aIsU && bIsU:
		return compareUint64(au, bu)
	case aIsU && bIsF:
		return compareFloat(float64(au), bf)
	case aIsF && bIsI:
		return compareFloat(af, float64(bi))
	case aIsF && bIsU:
		return compareFloat(af, float64(bu))
	case aIsF && bIsF:
		return compareFloat(af, bf)
	default:
		return OrderingUnordered
	}
}

func compareInt64(a, b int64) Ordering {
	switch {
	case a < b:
		return OrderingLess
	case a > b:
		return OrderingGreater
	default:
		return OrderingEqual
	}
}

func compareUint64(a, b uint64) Ordering {
	switch {
	case a < b:
		return OrderingLess
	case a > b:
		return OrderingGreater
	default:
		return OrderingEqual
	}
}

func partialCompare(a, b any) Ordering {
	switch at := a.(type) {
	case nil:
		if b == nil {
			return OrderingEqual
		}
		return OrderingUnordered
	case bool:
		bt, ok := b.(bool)
		if !ok {
			return OrderingUnordered
		}
		switch {
		case at == bt:
			return OrderingEqual
		case !at && bt:
			return OrderingLess
		default:
			return OrderingGreater
		}
	case int64, uint64, int, float64:
		switch b.(type) {
		case int64, uint64, int, float64:
			return compareNumbers(a, b)
		default:
			return OrderingUnordered
		}
	case string:
		bt, ok := b.(string)
		if !ok {
			return OrderingUnordered
		}
		switch {
		case at < bt:
			return OrderingLess
		case at > bt:
			return OrderingGreater
		default:
			return OrderingEqual
		}
	case []any:
		bt, ok := b.([]any)
		if !ok {
			return OrderingUnordered
		}
		return compareSlices(at, bt)
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok {
			return OrderingUnordered
		}
		return compareObjects(at, bt)
	default:
		return OrderingUnordered
	}
}

// compareSlices implements spec §3's "elementwise with shorter<longer on
// prefix equality" array order.
func compareSlices(a, b []any) Ordering {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if o := partialCompare(a[i], b[i]); o != OrderingEqual {
			return o
		}
	}
	switch {
	case len(a) < len(b):
		return OrderingLess
	case len(a) > len(b):
		return OrderingGreater
	default:
		return OrderingEqual
	}
}

// compareObjects implements spec §3's "(key,value) pairs in their stored
// order" object comparison. Go's map[string]any has no stored order, so —
// as with Hash — this compares by (key,value) pairs in ascending key order,
// which is a stable, total, spec-compatible substitute for "stored order"
// in a representation that doesn't retain one.
func compareObjects(a, b map[string]any) Ordering {
	aKeys := sortedKeys(a)
	bKeys := sortedKeys(b)
	n := len(aKeys)
	if len(bKeys) < n {
		n = len(bKeys)
	}
	for i := 0; i < n; i++ {
		if aKeys[i] != bKeys[i] {
			if aKeys[i] < bKeys[i] {
				return OrderingLess
			}
			return OrderingGreater
		}
		if o := partialCompare(a[aKeys[i]], b[bKeys[i]]); o != OrderingEqual {
			return o
		}
	}
	switch {
	case len(aKeys) < len(bKeys):
		return OrderingLess
	case len(aKeys) > len(bKeys):
		return OrderingGreater
	default:
		return OrderingEqual
	}
}
