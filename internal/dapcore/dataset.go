package dapcore

import (
	"fmt"
	"io"
)

// Dataset is the root of a DAP object model tree. It has no parent: it is
// the only Node kind DataPath and Indent treat as the walk's terminal
// point rather than as a regular ancestor.
type Dataset struct {
	base
	attrHolder
	children []Node
}

// NewDataset builds an empty Dataset root named name.
func NewDataset(name string) *Dataset {
	return &Dataset{base: base{name: name}}
}

func (d *Dataset) Kind() Kind { return KindDataset }

// AddChild appends child to the dataset and wires its parent link.
func (d *Dataset) AddChild(child Node) {
	if ps, ok := child.(parentSetter); ok {
		ps.setParent(d)
	}
	d.children = append(d.children, child)
}

// Children returns the dataset's direct children in declaration order.
func (d *Dataset) Children() []Node { return d.children }

func (d *Dataset) EmitDDS(w io.Writer, depth int) error {
	if _, err := fmt.Fprintf(w, "%sDataset {\n", indentString(depth)); err != nil {
		return err
	}
	for _, c := range d.children {
		if err := c.EmitDDS(w, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s} %s;\n", indentString(depth), sanitizeName(d.name))
	return err
}

// EmitDAS writes the whole DAS response: the dataset's own attributes (if
// any) plus every descendant's attribute block, wrapped in the
// "Attributes { ... }" label DAS responses always use regardless of the
// dataset's own name.
func (d *Dataset) EmitDAS(w io.Writer, depth int) error {
	return emitContainerDAS(w, "Attributes", depth, d.attrs, d.children)
}

// Walk visits every descendant of the dataset in depth-first declaration
// order (Structure and Sequence contents are recursed into; a Grid's
// Array/Maps are not separately visited here since they are addressed
// through the Grid node itself, and any map Array that is also a
// top-level dataset child is already visited as such). visit returning
// false stops the walk early.
func (d *Dataset) Walk(visit func(Node) bool) {
	walkChildren(d.children, visit)
}

func walkChildren(children []Node, visit func(Node) bool) bool {
	for _, c := range children {
		if !visit(c) {
			return false
		}
		switch n := c.(type) {
		case *Structure:
			if !walkChildren(n.children, visit) {
				return false
			}
		case *Sequence:
			if !walkChildren(n.children, visit) {
				return false
			}
		}
	}
	return true
}
