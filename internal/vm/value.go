package vm

import (
	"fmt"
	"math"
)

// ValueType identifies which variant of Value is populated.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
	ValObj
)

// Value is a small tagged union: bool, nil, float64, or a heap-object
// handle. Bool/Number/Nil never allocate; Obj holds a pointer into the
// VM's intrusive object list.
type Value struct {
	Type ValueType
	num  uint64 // bool (0/1) or float64 bits, depending on Type
	Obj  Object
}

func NilValue() Value   { return Value{Type: ValNil} }
func TrueValue() Value  { return Value{Type: ValBool, num: 1} }
func FalseValue() Value { return Value{Type: ValBool, num: 0} }

func BoolValue(b bool) Value {
	if b {
		return TrueValue()
	}
	return FalseValue()
}

func NumberValue(v float64) Value {
	return Value{Type: ValNumber, num: math.Float64bits(v)}
}

func ObjValue(o Object) Value {
	return Value{Type: ValObj, Obj: o}
}

func (v Value) IsNil() bool    { return v.Type == ValNil }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsObj() bool    { return v.Type == ValObj }

func (v Value) AsBool() bool      { return v.num == 1 }
func (v Value) AsNumber() float64 { return math.Float64frombits(v.num) }

// IsString reports whether v holds a *ObjString.
func (v Value) IsString() bool {
	if v.Type != ValObj {
		return false
	}
	_, ok := v.Obj.(*ObjString)
	return ok
}

func (v Value) AsString() *ObjString {
	return v.Obj.(*ObjString)
}

// IsFalsey implements the truthiness law: falsey iff nil or boolean false.
func (v Value) IsFalsey() bool {
	return v.IsNil() || (v.IsBool() && !v.AsBool())
}

// Equals implements Value equality: differing tags are never equal;
// objects compare by identity, which interning makes sufficient for
// string byte-content equality too.
func (v Value) Equals(other Value) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.num == other.num
	case ValNumber:
		return v.AsNumber() == other.AsNumber()
	case ValObj:
		return v.Obj == other.Obj
	default:
		return false
	}
}

// String formats v the way PRINT does: nil, true/false, %g numbers, raw
// string bytes.
func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		if v.AsBool() {
			return "true"
		}
		return "false"
	case ValNumber:
		return fmt.Sprintf("%g", v.AsNumber())
	case ValObj:
		if v.Obj == nil {
			return "nil"
		}
		return v.Obj.String()
	default:
		return "<?>"
	}
}
