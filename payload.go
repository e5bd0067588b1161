package dualog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Payload is a log message together with the strategy that renders it to
// text. The set of strategies is closed: Text, JSON and Value.
// Rendering never fails; a strategy that cannot render its value falls back
// to the default representation and, as a last resort, to the type name.
type Payload interface {
	text() string
}

// Text returns a payload written verbatim.
func Text(s string) Payload { return textPayload(s) }

// JSON returns a payload rendered as compact JSON.
func JSON(v any) Payload { return jsonPayload{v: v} }

// Value returns a payload rendered with its default text representation.
func Value(v any) Payload { return valuePayload{v: v} }

type textPayload string

func (p textPayload) text() string { return string(p) }

type jsonPayload struct{ v any }

func (p jsonPayload) text() (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fallbackText(p.v)
		}
	}()
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p.v); err != nil {
		return fallbackText(p.v)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

type valuePayload struct{ v any }

func (p valuePayload) text() (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("%T", p.v)
		}
	}()
	return fmt.Sprint(p.v)
}

// fallbackText is the readable representation used when JSON rendering fails.
func fallbackText(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("%T", v)
		}
	}()
	return fmt.Sprintf("%+v", v)
}

// payloadOf selects a strategy from the declared shape of msg: strings and
// byte slices are text, errors and Stringers use their own text, containers
// and records are JSON, and everything else uses its default representation.
func payloadOf(msg any) Payload {
	switch v := msg.(type) {
	case Payload:
		return v
	case nil:
		return jsonPayload{}
	case string:
		return textPayload(v)
	case []byte:
		return textPayload(v)
	case error, fmt.Stringer:
		return valuePayload{v: v}
	case json.Marshaler:
		return jsonPayload{v: v}
	}
	if structured(reflect.TypeOf(msg)) {
		return jsonPayload{v: msg}
	}
	return valuePayload{v: msg}
}

func structured(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	}
	return false
}
