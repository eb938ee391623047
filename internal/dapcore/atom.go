package dapcore

import (
	"fmt"
	"io"
)

// Atom is a scalar DAP variable: a single typed value with no dimensions.
type Atom struct {
	base
	attrHolder
	typ   Type
	value any
}

// NewAtom builds a scalar variable named name holding value, described as
// typ. value must be a Go scalar consistent with typ (checked lazily at
// encode time, not at construction, since callers may build large trees
// before ever encoding one).
func NewAtom(name string, typ Type, value any) *Atom {
	return &Atom{base: base{name: name}, typ: typ, value: value}
}

func (a *Atom) Kind() Kind  { return KindAtom }
func (a *Atom) Type() Type  { return a.typ }
func (a *Atom) Value() any  { return a.value }

func (a *Atom) EmitDDS(w io.Writer, depth int) error {
	label, ok := a.typ.DDSLabel()
	if !ok {
		return newError(UnsupportedType, "atom %q has unknown type %v", a.name, a.typ)
	}
	_, err := fmt.Fprintf(w, "%s%s %s;\n", indentString(depth), label, sanitizeName(a.name))
	return err
}

func (a *Atom) EmitDAS(w io.Writer, depth int) error {
	return a.emitAttrBlock(w, a.name, depth)
}

// EmitData writes this atom's scalar DODS data section.
func (a *Atom) EmitData(enc *Encoder) error {
	return enc.EncodeScalar(a.typ, a.value)
}
