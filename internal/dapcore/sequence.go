package dapcore

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DAP sequence data markers: a 4-byte START_OF_INSTANCE precedes every
// row's values, and a 4-byte END_OF_SEQUENCE follows the last row.
const (
	seqStartOfInstance uint32 = 0x5a000000
	seqEndOfSequence   uint32 = 0xa5000000
)

// SequenceSchema describes the fields of every instance (row) a Sequence
// holds, in field order. Fields are represented as Atom nodes (name +
// type, value unused) so they reuse Atom's DDS/DAS emission unchanged.
type SequenceSchema struct {
	fields []*Atom
}

// NewSequenceSchema builds a SequenceSchema from its fields in order.
func NewSequenceSchema(fields ...*Atom) *SequenceSchema {
	return &SequenceSchema{fields: fields}
}

func (s *SequenceSchema) Kind() Kind    { return KindSequenceSchema }
func (s *SequenceSchema) Fields() []*Atom { return s.fields }

// SequenceInstance is one row of a Sequence: values in schema field order.
// It carries no Node identity of its own (it has no DDS/DAS
// representation); it only exists as data passed to Sequence.AddInstance.
type SequenceInstance struct {
	values []any
}

// NewSequenceInstance builds a row from values, in schema field order.
func NewSequenceInstance(values ...any) *SequenceInstance {
	return &SequenceInstance{values: values}
}

func (si *SequenceInstance) Kind() Kind    { return KindSequenceInstance }
func (si *SequenceInstance) Values() []any { return si.values }

// Sequence is an ordered collection of rows sharing one SequenceSchema.
// Row acceptance is permissive by default: AddInstance only rejects a row
// when a validator has been installed via SetValidator. This leaves a
// reserved seam for real schema-conformance checking without requiring
// every caller to pay for it.
type Sequence struct {
	base
	attrHolder
	schema    *SequenceSchema
	children  []Node
	instances []*SequenceInstance
	validate  func(*SequenceInstance) error
}

// NewSequence builds an empty Sequence named name with the given schema.
func NewSequence(name string, schema *SequenceSchema) *Sequence {
	seq := &Sequence{base: base{name: name}, schema: schema}
	for _, f := range schema.fields {
		f.setParent(seq)
		seq.children = append(seq.children, f)
	}
	return seq
}

func (s *Sequence) Kind() Kind               { return KindSequence }
func (s *Sequence) Schema() *SequenceSchema  { return s.schema }
func (s *Sequence) Instances() []*SequenceInstance { return s.instances }

// SetValidator installs a row-acceptance check. Pass nil to restore the
// permissive default (every row accepted).
func (s *Sequence) SetValidator(fn func(*SequenceInstance) error) {
	s.validate = fn
}

// AddInstance appends inst to the sequence, running the installed
// validator (if any) first.
func (s *Sequence) AddInstance(inst *SequenceInstance) error {
	if s.validate != nil {
		if err := s.validate(inst); err != nil {
			return wrapError(SchemaViolation, err, "sequence %q rejected instance", s.name)
		}
	}
	s.instances = append(s.instances, inst)
	return nil
}

func (s *Sequence) EmitDDS(w io.Writer, depth int) error {
	if _, err := fmt.Fprintf(w, "%sSequence {\n", indentString(depth)); err != nil {
		return err
	}
	for _, f := range s.schema.fields {
		if err := f.EmitDDS(w, depth+1); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s} %s;\n", indentString(depth), sanitizeName(s.name))
	return err
}

func (s *Sequence) EmitDAS(w io.Writer, depth int) error {
	return emitContainerDAS(w, s.name, depth, s.attrs, s.children)
}

// EmitData writes the Sequence's DODS data section: each instance preceded
// by a start-of-instance marker and its values in schema field order,
// followed by a single end-of-sequence marker.
func (s *Sequence) EmitData(enc *Encoder) error {
	for _, inst := range s.instances {
		if err := writeMarker(enc, seqStartOfInstance); err != nil {
			return err
		}
		if len(inst.values) != len(s.schema.fields) {
			return newError(SchemaViolation, "sequence %q instance has %d values but schema has %d fields", s.name, len(inst.values), len(s.schema.fields))
		}
		for i, f := range s.schema.fields {
			if err := enc.EncodeScalar(f.Type(), inst.values[i]); err != nil {
				return err
			}
		}
	}
	return writeMarker(enc, seqEndOfSequence)
}

func writeMarker(enc *Encoder, marker uint32) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, marker)
	return enc.EncodeRaw(b)
}
