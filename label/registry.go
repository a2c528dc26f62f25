// Package label implements the two-way mapping between symbolic labels and
// instruction indices that the assembler driver resolves across its two
// passes.
package label

import "github.com/lookbusy1344/arm-toy/diag"

// Registry holds declarations (label -> instruction index) and references
// (instruction index -> label) gathered during the assembler's first pass,
// plus the running instruction pointer the driver uses to know the index
// of the line currently being collected.
type Registry struct {
	declarations map[string]int
	references   map[int]string
	ip           int
}

// New returns an empty Registry with its instruction pointer at 0.
func New() *Registry {
	return &Registry{
		declarations: make(map[string]int),
		references:   make(map[int]string),
	}
}

// IP returns the current instruction pointer.
func (r *Registry) IP() int { return r.ip }

// Advance increments the instruction pointer; the driver calls this once
// per line that produces an instruction word (never for a bare-label
// line).
func (r *Registry) Advance() { r.ip++ }

// Declare binds label to idx. Redeclaring an already-declared label is a
// fatal LabelError.
func (r *Registry) Declare(label string, idx int) *diag.Error {
	if _, exists := r.declarations[label]; exists {
		return diag.New(diag.Position{}, diag.LabelError, "label %q redeclared", label)
	}
	r.declarations[label] = idx
	return nil
}

// Reference records that the instruction at idx branches to label. Each
// index carries at most one reference.
func (r *Registry) Reference(idx int, label string) {
	r.references[idx] = label
}

// Resolve returns the instruction index declared for the label referenced
// at idx. An unresolved (undeclared) label is a fatal LabelError.
func (r *Registry) Resolve(idx int) (int, *diag.Error) {
	label, ok := r.references[idx]
	if !ok {
		return 0, diag.New(diag.Position{}, diag.LabelError, "no branch reference recorded at instruction %d", idx)
	}
	target, ok := r.declarations[label]
	if !ok {
		return 0, diag.New(diag.Position{}, diag.LabelError, "undeclared label %q", label)
	}
	return target, nil
}
