package dapcore

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// Attribute is one typed name/value(s) pair attached to a Dataset,
// Structure, Atom, Array, Grid, or Sequence node. DAS text lists one
// Attribute per line inside its owning node's named block, e.g.
// `String units "second";`.
type Attribute struct {
	name   string
	typ    Type
	values []string // already wire-formatted (quoted for String/URL)
}

// NewAttribute builds a string-valued Attribute, quoting each value as DAS
// text requires.
func NewAttribute(name string, typ Type, values ...string) *Attribute {
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = formatAttrValue(typ, v)
	}
	return &Attribute{name: name, typ: typ, values: formatted}
}

func formatAttrValue(typ Type, v string) string {
	if typ.IsVariableLength() {
		return strconv.Quote(v)
	}
	return v
}

// Name returns the attribute's name.
func (a *Attribute) Name() string { return a.name }

// Type returns the attribute's DAP atomic type.
func (a *Attribute) Type() Type { return a.typ }

// Values returns the attribute's already-formatted values.
func (a *Attribute) Values() []string { return a.values }

// emitDAS writes one DAS line for this attribute at the given depth.
func (a *Attribute) emitDAS(w io.Writer, depth int) error {
	label, ok := a.typ.DDSLabel()
	if !ok {
		return newError(UnsupportedType, "attribute %q has unknown type %v", a.name, a.typ)
	}
	_, err := fmt.Fprintf(w, "%s%s %s %s;\n", indentString(depth), label, sanitizeName(a.name), joinValues(a.values))
	return err
}

func joinValues(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}

// attrHolder is embedded by every node kind that can carry Attributes
// (every kind except Attribute itself).
type attrHolder struct {
	attrs []*Attribute
}

// AddAttribute attaches attr to this node.
func (h *attrHolder) AddAttribute(attr *Attribute) {
	h.attrs = append(h.attrs, attr)
}

// Attributes returns this node's directly attached attributes.
func (h *attrHolder) Attributes() []*Attribute {
	return h.attrs
}

// emitAttrBlock writes `name {\n<attr lines>}\n` at depth, unconditionally:
// spec.md's DAPObject.das yields head and tail whenever the node itself is
// reached, with no check on whether its body is non-empty. Use
// emitContainerDAS instead for node kinds that also have DAS-emitting
// children to nest inside the same block.
func (h *attrHolder) emitAttrBlock(w io.Writer, name string, depth int) error {
	return emitContainerDAS(w, name, depth, h.attrs, nil)
}

// emitContainerDAS writes `name {\n<attrs><children>}\n` at depth,
// nesting both this node's own attributes and any DAS output its children
// produce inside one block. The head and tail are written unconditionally,
// even when attrs is empty and no child produces output, matching the
// original DAPObject.das algorithm's unconditional head+tail.
func emitContainerDAS(w io.Writer, name string, depth int, attrs []*Attribute, children []Node) error {
	var inner bytes.Buffer
	for _, attr := range attrs {
		if err := attr.emitDAS(&inner, depth+1); err != nil {
			return err
		}
	}
	for _, c := range children {
		if err := c.EmitDAS(&inner, depth+1); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%s%s {\n", indentString(depth), sanitizeName(name)); err != nil {
		return err
	}
	if _, err := w.Write(inner.Bytes()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%s}\n", indentString(depth))
	return err
}
