// internal/models/argument.go
package models

import (
	"encoding/json"
	"fmt"
)

// ArgumentKind is the closed set of argument types a schema may declare.
type ArgumentKind string

const (
	KindDatetime ArgumentKind = "DATETIME"
	KindText     ArgumentKind = "TEXT"
	KindTextarea ArgumentKind = "TEXTAREA"
	KindInteger  ArgumentKind = "INTEGER"
	KindFloat    ArgumentKind = "FLOAT"
	KindBoolean  ArgumentKind = "BOOLEAN"
)

// ArgumentKinds lists every kind in declaration order.
var ArgumentKinds = []ArgumentKind{
	KindDatetime, KindText, KindTextarea, KindInteger, KindFloat, KindBoolean,
}

// Valid reports whether k is one of the declared kinds.
func (k ArgumentKind) Valid() bool {
	for _, known := range ArgumentKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ArgumentSpec describes one positional argument of a notification type.
type ArgumentSpec struct {
	Kind        ArgumentKind `json:"type"`
	Label       string       `json:"label"`
	Description string       `json:"desc"`
}

// NotificationTypeSchema is the server-declared shape of a notification type.
// Argument order is the positional binding used for coercion and submission.
type NotificationTypeSchema struct {
	TypeID    string         `json:"type"`
	Arguments []ArgumentSpec `json:"arguments"`
}

// Kinds returns the positional kinds of s.
func (s NotificationTypeSchema) Kinds() []ArgumentKind {
	kinds := make([]ArgumentKind, len(s.Arguments))
	for i, a := range s.Arguments {
		kinds[i] = a.Kind
	}
	return kinds
}

// RawValue is an untyped form value: a string, a bool, or nil when absent.
type RawValue interface{}

// TypedArgumentValue is the canonical wire value for one argument. Kind
// selects which field is meaningful.
type TypedArgumentValue struct {
	Kind    ArgumentKind
	Instant string
	Text    string
	Integer int64
	Float   float64
	Flag    bool
}

func InstantValue(utc string) TypedArgumentValue {
	return TypedArgumentValue{Kind: KindDatetime, Instant: utc}
}

func TextValue(kind ArgumentKind, s string) TypedArgumentValue {
	return TypedArgumentValue{Kind: kind, Text: s}
}

func IntegerValue(i int64) TypedArgumentValue {
	return TypedArgumentValue{Kind: KindInteger, Integer: i}
}

func FloatValue(f float64) TypedArgumentValue {
	return TypedArgumentValue{Kind: KindFloat, Float: f}
}

func FlagValue(b bool) TypedArgumentValue {
	return TypedArgumentValue{Kind: KindBoolean, Flag: b}
}

// Value returns the bare Go value sent on the wire.
func (v TypedArgumentValue) Value() interface{} {
	switch v.Kind {
	case KindDatetime:
		return v.Instant
	case KindText, KindTextarea:
		return v.Text
	case KindInteger:
		return v.Integer
	case KindFloat:
		return v.Float
	case KindBoolean:
		return v.Flag
	default:
		return nil
	}
}

// MarshalJSON encodes the value as a bare JSON string, number or boolean.
func (v TypedArgumentValue) MarshalJSON() ([]byte, error) {
	if !v.Kind.Valid() {
		return nil, fmt.Errorf("marshal argument: unknown kind %q", v.Kind)
	}
	return json.Marshal(v.Value())
}

func (v TypedArgumentValue) String() string {
	return fmt.Sprintf("%s(%v)", v.Kind, v.Value())
}
