package types

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind tags the runtime shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBool
	KindSequence
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindSequence:
		return "sequence"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a tagged scalar or sequence carried by a criterion.
// The tag is chosen once, when the value enters the builder.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    bool
	seq  []Value
}

// Null returns the SQL NULL value.
func Null() Value { return Value{kind: KindNull} }

// Int returns an integer value.
func Int(i int64) Value { return Value{kind: KindInteger, i: i} }

// Float returns a floating point value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// Text returns a text value. Text is never treated as a number, even when it looks like one.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Seq returns a sequence value used for membership tests.
func Seq(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: KindSequence, seq: cp}
}

// ValueOf infers a Value from a Go value.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	case bool:
		return Bool(x)
	case time.Time:
		return Int(x.Unix())
	case *time.Time:
		if x == nil {
			return Null()
		}
		return Int(x.Unix())
	case fmt.Stringer:
		return Text(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = ValueOf(rv.Index(i).Interface())
		}
		return Value{kind: KindSequence, seq: items}
	case reflect.Pointer:
		if rv.IsNil() {
			return Null()
		}
		return ValueOf(rv.Elem().Interface())
	}
	return Text(fmt.Sprint(v))
}

// Kind returns the value's tag.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool { return v.kind == KindNull }

// IsNumeric reports whether the value is an Integer or a Float.
func (v Value) IsNumeric() bool { return v.kind == KindInteger || v.kind == KindFloat }

// IsSequence reports whether the value is a sequence.
func (v Value) IsSequence() bool { return v.kind == KindSequence }

// Integer returns the integer payload.
func (v Value) Integer() int64 { return v.i }

// FloatValue returns the float payload.
func (v Value) FloatValue() float64 { return v.f }

// TextValue returns the text payload.
func (v Value) TextValue() string { return v.s }

// BoolValue returns the boolean payload.
func (v Value) BoolValue() bool { return v.b }

// Items returns a copy of the sequence members.
func (v Value) Items() []Value {
	out := make([]Value, len(v.seq))
	copy(out, v.seq)
	return out
}

// NumericText reports whether a Text value parses as a number.
func (v Value) NumericText() bool {
	if v.kind != KindText {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
	return err == nil
}

// Inlinable reports whether the value can be written into SQL text as a
// literal: an Integer, or a finite Float.
func (v Value) Inlinable() bool {
	switch v.kind {
	case KindInteger:
		return true
	case KindFloat:
		return !math.IsInf(v.f, 0) && !math.IsNaN(v.f)
	default:
		return false
	}
}

// AllInlinable reports whether every sequence member is inlinable.
func (v Value) AllInlinable() bool {
	if v.kind != KindSequence {
		return false
	}
	for _, item := range v.seq {
		if !item.Inlinable() {
			return false
		}
	}
	return true
}

// Literal formats a numeric value for direct embedding in SQL text.
func (v Value) Literal() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return ""
	}
}

// Native returns the value in the form handed to a database driver.
func (v Value) Native() any {
	switch v.kind {
	case KindInteger:
		return v.i
	case KindFloat:
		return v.f
	case KindText:
		return v.s
	case KindBool:
		return v.b
	case KindSequence:
		out := make([]any, len(v.seq))
		for i, item := range v.seq {
			out[i] = item.Native()
		}
		return out
	default:
		return nil
	}
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInteger, KindFloat:
		return v.Literal()
	case KindText:
		return strconv.Quote(v.s)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, item := range v.seq {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "?"
	}
}
