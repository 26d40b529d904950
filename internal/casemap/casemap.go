// Package casemap folds nicknames and channel names under the case-mapping
// rules an IRC server advertises with CASEMAPPING.
package casemap

import (
	"strings"

	"golang.org/x/text/secure/precis"
)

// CaseMapping is a named folding rule.
type CaseMapping int

const (
	// ASCII folds only A-Z.
	ASCII CaseMapping = iota
	// RFC1459 folds A-Z and additionally maps {}|^ to []\~.
	RFC1459
	// RFC1459Strict is RFC1459 without the ^ to ~ mapping.
	RFC1459Strict
	// RFC8265 folds with the PRECIS UsernameCaseMapped profile.
	RFC8265
)

// Default is the mapping assumed until the server negotiates one.
const Default = RFC1459

var names = map[CaseMapping]string{
	ASCII:         "ascii",
	RFC1459:       "rfc1459",
	RFC1459Strict: "rfc1459-strict",
	RFC8265:       "rfc8265",
}

var aliases = map[string]CaseMapping{
	"ascii":          ASCII,
	"rfc1459":        RFC1459,
	"rfc1459-strict": RFC1459Strict,
	"strict-rfc1459": RFC1459Strict,
	"rfc8265":        RFC8265,
	"rfc7613":        RFC8265,
}

// Parse returns the mapping advertised under name, matched case-insensitively.
func Parse(name string) (CaseMapping, bool) {
	cm, ok := aliases[strings.ToLower(name)]
	return cm, ok
}

func (cm CaseMapping) String() string {
	if name, ok := names[cm]; ok {
		return name
	}
	return "unknown"
}

// FoldByte maps a single byte to its canonical form. RFC8265 is not a
// byte-level mapping and folds bytes as ASCII.
func (cm CaseMapping) FoldByte(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	switch cm {
	case RFC1459:
		switch ch {
		case '{':
			return '['
		case '}':
			return ']'
		case '|':
			return '\\'
		case '^':
			return '~'
		}
	case RFC1459Strict:
		switch ch {
		case '{':
			return '['
		case '}':
			return ']'
		case '|':
			return '\\'
		}
	}
	return ch
}

// Fold returns the canonical form of s. Two identifiers are the same under cm
// iff their folded forms are equal.
func (cm CaseMapping) Fold(s string) string {
	if cm == RFC8265 {
		if folded, err := foldPrecis(s); err == nil {
			return folded
		}
		// not a valid PRECIS identifier; servers fall back to ASCII rules
		return transform(s, ASCII.FoldByte)
	}
	return transform(s, cm.FoldByte)
}

// Equal reports whether a and b fold to the same identifier.
func (cm CaseMapping) Equal(a, b string) bool {
	return cm.Fold(a) == cm.Fold(b)
}

// transform only allocates once a byte actually changes.
func transform(s string, fold func(byte) byte) string {
	var buf []byte
	for i := 0; i < len(s); i++ {
		x := fold(s[i])
		if buf != nil {
			buf[i] = x
		} else if x != s[i] {
			buf = make([]byte, len(s))
			copy(buf, s[:i])
			buf[i] = x
		}
	}
	if buf != nil {
		return string(buf)
	}
	return s
}

// PRECIS casefolding is not idempotent in a single pass; repeat until stable.
func foldPrecis(s string) (string, error) {
	prev := s
	for i := 0; i < 4; i++ {
		next, err := precis.UsernameCaseMapped.CompareKey(prev)
		if err != nil {
			return "", err
		}
		if next == prev {
			return next, nil
		}
		prev = next
	}
	return prev, nil
}
