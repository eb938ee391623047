package dapcore

import (
	"io"
	"strings"
)

// Kind identifies the concrete shape of a Node. The set is closed: this
// package models the DAP object model as a closed tagged variant rather
// than an open class hierarchy, so callers can exhaustively switch on Kind
// instead of relying on type assertions scattered through the tree walk.
type Kind int

const (
	KindDataset Kind = iota
	KindStructure
	KindAttribute
	KindAtom
	KindArray
	KindGrid
	KindSequence
	KindSequenceInstance
	KindSequenceSchema
)

func (k Kind) String() string {
	switch k {
	case KindDataset:
		return "Dataset"
	case KindStructure:
		return "Structure"
	case KindAttribute:
		return "Attribute"
	case KindAtom:
		return "Atom"
	case KindArray:
		return "Array"
	case KindGrid:
		return "Grid"
	case KindSequence:
		return "Sequence"
	case KindSequenceInstance:
		return "SequenceInstance"
	case KindSequenceSchema:
		return "SequenceSchema"
	default:
		return "Unknown"
	}
}

// Node is the common shape of every member of the DAP object model tree.
// Emission (DDS/DAS/DODS text and binary) is implemented per concrete Kind
// in the corresponding file (dataset.go, structure.go, atom.go, ...); Node
// itself only carries the identity and tree-navigation surface shared by
// all of them.
type Node interface {
	Name() string
	Kind() Kind
	Parent() Node

	// EmitDDS writes this node's DDS declaration, recursing into any
	// children, at the given nesting depth.
	EmitDDS(w io.Writer, depth int) error
	// EmitDAS writes this node's DAS attribute block at the given nesting
	// depth. The block's head and tail are written even when the node
	// carries no attributes and no descendant produces output.
	EmitDAS(w io.Writer, depth int) error
}

// parentSetter is implemented by every concrete Node so that container
// types (Dataset, Structure, Sequence) can wire the parent link when a child
// is attached, without making setParent part of the public Node surface.
type parentSetter interface {
	setParent(Node)
}

// base is embedded by every concrete Node. It holds identity and the
// parent link; DataPath and Indent are computed from it via the free
// functions below rather than as methods, since base has no way to refer
// back to the concrete type wrapping it.
type base struct {
	name   string
	parent Node
}

func (b *base) Name() string     { return b.name }
func (b *base) Parent() Node     { return b.parent }
func (b *base) setParent(p Node) { b.parent = p }

// Indent returns n's nesting depth below the Dataset root (the root
// itself is depth 0), used to drive DDS/DAS text indentation.
func Indent(n Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		depth++
	}
	return depth
}

// DataPath returns the dot-joined chain of names from directly under the
// Dataset root down to and including n. The Dataset root's own name is
// never part of a data path.
func DataPath(n Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Kind() != KindDataset; cur = cur.Parent() {
		parts = append(parts, cur.Name())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// indentString returns depth*4 spaces, matching the reference encoder's
// DDS/DAS text indentation width.
func indentString(depth int) string {
	return strings.Repeat("    ", depth)
}

// sanitizeName replaces spaces in a node name with underscores, since DDS
// text identifiers cannot contain whitespace.
func sanitizeName(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// SanitizeName exposes sanitizeName's identifier rule to response-assembly
// code outside this package that composes its own DDS/DAS headers around
// per-node Emit output (pkg/dap's constrained Dataset driver).
func SanitizeName(name string) string {
	return sanitizeName(name)
}
