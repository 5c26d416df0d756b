package model

import (
	"bytes"
	"encoding/json"
)

// Token is a string value that may be absent.
// The zero Token is absent, so two unmatched fields compare equal with ==.
type Token struct {
	value   string
	present bool
}

// Some returns a present Token holding v.
func Some(v string) Token { return Token{value: v, present: true} }

// None returns an absent Token.
func None() Token { return Token{} }

// Get returns the value and whether it is present.
func (t Token) Get() (string, bool) { return t.value, t.present }

// Present reports whether the token holds a value.
func (t Token) Present() bool { return t.present }

// Or returns the value, or fallback when absent.
func (t Token) Or(fallback string) string {
	if !t.present {
		return fallback
	}
	return t.value
}

// String renders absent tokens as "-".
func (t Token) String() string { return t.Or("-") }

// MarshalJSON encodes absent tokens as null.
func (t Token) MarshalJSON() ([]byte, error) {
	if !t.present {
		return []byte("null"), nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON decodes null as an absent token and a string as a present one.
func (t *Token) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = None()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = Some(s)
	return nil
}

// MarshalYAML encodes absent tokens as a YAML null.
func (t Token) MarshalYAML() (interface{}, error) {
	if !t.present {
		return nil, nil
	}
	return t.value, nil
}
