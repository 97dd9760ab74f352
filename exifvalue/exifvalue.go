// Package exifvalue models raw EXIF tag values and converts them into
// physical quantities without ever failing on malformed input.
package exifvalue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a raw tag value as read from an image. Exactly one of the
// concrete types below implements it.
type Value interface {
	value()
}

type Numeric float64

type Text string

type Bytes []byte

type Rational struct {
	Num int64
	Den int64
}

type Sequence []Value

func (Numeric) value()  {}
func (Text) value()     {}
func (Bytes) value()    {}
func (Rational) value() {}
func (Sequence) value() {}

func (n Numeric) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (s Sequence) String() string {
	parts := make([]string, 0, len(s))
	for _, v := range s {
		parts = append(parts, Describe(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Float converts v to a float64. It is total: every variant yields either
// a finite number or ok=false with a diagnostic, never a panic and never
// an infinity.
func Float(v Value) (float64, string, bool) {
	switch t := v.(type) {
	case nil:
		return 0, "no value", false
	case Rational:
		if t.Den == 0 {
			return 0, fmt.Sprintf("division by zero in fraction %d/%d", t.Num, t.Den), false
		}
		f := float64(t.Num) / float64(t.Den)
		return f, fmt.Sprintf("fraction %d/%d = %v", t.Num, t.Den, f), true
	case Numeric:
		f := float64(t)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Sprintf("non-finite numeric %v", f), false
		}
		return f, fmt.Sprintf("direct numeric %v", f), true
	case Text:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(t)), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Sprintf("non-numeric string %q", string(t)), false
		}
		return f, fmt.Sprintf("parsed string %q", string(t)), true
	case Bytes:
		return 0, fmt.Sprintf("byte data (%d bytes), not numeric", len(t)), false
	case Sequence:
		switch len(t) {
		case 0:
			return 0, "empty sequence", false
		case 1:
			return Float(t[0])
		default:
			return 0, fmt.Sprintf("sequence of %d values", len(t)), false
		}
	}
	return 0, "unsupported value", false
}

// First unwraps a non-empty Sequence to its first element. Any other
// value is returned unchanged.
func First(v Value) Value {
	if s, ok := v.(Sequence); ok && len(s) > 0 {
		return s[0]
	}
	return v
}

// Describe renders v for tag listings. Byte blobs and long sequences
// collapse to a placeholder instead of dumping their contents.
func Describe(v Value) string {
	switch t := v.(type) {
	case nil:
		return "<none>"
	case Bytes:
		return fmt.Sprintf("<bytes: %d bytes>", len(t))
	case Text:
		return truncate(string(t))
	case Sequence:
		s := t.String()
		if len(s) > 80 {
			return fmt.Sprintf("<sequence: %d items>", len(t))
		}
		return s
	case fmt.Stringer:
		return truncate(t.String())
	}
	return truncate(fmt.Sprintf("%v", v))
}

func truncate(s string) string {
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
