package graphdb

// Identifier is a validated short name used for vertex/edge types and
// property keys: 1 to 255 bytes, drawn from [A-Za-z0-9_-].
//
// Identifiers are immutable value types and compare/order byte-exactly, so
// two Identifiers built from the same string are always equal and two
// Identifiers never collide across differently-cased spellings (unlike the
// teacher's Neo4j-compatible label normalization — this spec keeps case
// significant).
type Identifier struct {
	value string
}

// MaxIdentifierLength is the longest string NewIdentifier will accept.
const MaxIdentifierLength = 255

// NewIdentifier validates s and wraps it in an Identifier. It fails with
// ErrInvalidValue if s is empty, longer than MaxIdentifierLength, or
// contains a byte outside [A-Za-z0-9_-].
func NewIdentifier(s string) (Identifier, error) {
	if len(s) == 0 || len(s) > MaxIdentifierLength {
		return Identifier{}, newError(ErrorKindInvalidValue, "identifier length must be 1..=255, got %d", len(s))
	}
	for i := 0; i < len(s); i++ {
		if !isIdentifierByte(s[i]) {
			return Identifier{}, newError(ErrorKindInvalidValue, "identifier %q contains invalid byte %q", s, s[i])
		}
	}
	return Identifier{value: s}, nil
}

// MustIdentifier is NewIdentifier for callers that already know the input
// is valid (test fixtures, constant type names); it panics otherwise.
func MustIdentifier(s string) Identifier {
	id, err := NewIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

func isIdentifierByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '_' || b == '-':
		return true
	default:
		return false
	}
}

// String returns the underlying name.
func (id Identifier) String() string {
	return id.value
}

// IsZero reports whether id is the zero value (never produced by
// NewIdentifier, useful for "no type filter" sentinels).
func (id Identifier) IsZero() bool {
	return id.value == ""
}

// Equal reports byte-exact equality.
func (id Identifier) Equal(other Identifier) bool {
	return id.value == other.value
}

// Less reports byte-exact (lexicographic) ordering.
func (id Identifier) Less(other Identifier) bool {
	return id.value < other.value
}
