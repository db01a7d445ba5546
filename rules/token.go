package rules

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"
)

// missingMarker is how spreadsheet exports spell an empty cell.
const missingMarker = "nan"

// Token is a normalized payee or description key.
//
// The zero value is Empty: no payee or no description. Text tokens keep the
// text as authored and a case-folded copy used for matching.
type Token struct {
	text   string
	folded string
}

// Empty is the catch-all sentinel.
var Empty Token

// NewToken normalizes raw cell or query text. Blank text and the "nan"
// marker, in any case, collapse into Empty. This holds for queries too, so
// transactions exported with "nan" cells match like blank ones and a payee
// literally named "nan" is treated as unknown.
func NewToken(s string) Token {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, missingMarker) {
		return Empty
	}
	return Token{text: s, folded: cases.Fold().String(s)}
}

// IsEmpty reports whether t is the catch-all sentinel.
func (t Token) IsEmpty() bool {
	return t.text == ""
}

// Text returns the token text as authored, or "" for Empty.
func (t Token) Text() string {
	return t.text
}

func (t Token) String() string {
	if t.IsEmpty() {
		return "<empty>"
	}
	return t.text
}

// MarshalJSON encodes Empty as null.
func (t Token) MarshalJSON() ([]byte, error) {
	if t.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(t.text)
}

// matches reports whether key is a candidate for the query t.
// Empty only ever matches Empty.
func (t Token) matches(key Token, strict bool) bool {
	if t.IsEmpty() || key.IsEmpty() {
		return t.IsEmpty() && key.IsEmpty()
	}
	if strict {
		return key.folded == t.folded
	}
	return strings.Contains(key.folded, t.folded)
}
