package tech

import (
	"github.com/siliconmark/logocell/pkg/errors"
)

// Stack resolves the metal stack, bottom to top. An empty request selects
// every metal layer of the document.
func (t *Tech) Stack(names []string) ([]string, error) {
	if len(names) == 0 {
		return t.Metals(), nil
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		l, ok := t.layers[name]
		if !ok {
			return nil, errors.New(errors.ErrCodeMissingConstraint, "stack layer %q not in constraint document", name)
		}
		if l.Kind != KindMetal {
			return nil, errors.New(errors.ErrCodeInvalidInput, "stack layer %q is a %s layer, not metal", name, l.Kind)
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "stack layer %q listed twice", name)
		}
		seen[name] = true
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

// ViasFor returns the via layer for each adjacent pair of stack, bottom to
// top. Documents without via layers yield no vias; otherwise every pair must
// have one.
func (t *Tech) ViasFor(stack []string) ([]Layer, error) {
	if !t.HasVias() || len(stack) < 2 {
		return nil, nil
	}
	out := make([]Layer, 0, len(stack)-1)
	for i := 0; i+1 < len(stack); i++ {
		v, ok := t.ViaBetween(stack[i], stack[i+1])
		if !ok {
			return nil, errors.New(errors.ErrCodeMissingConstraint, "no via layer joins %s and %s", stack[i], stack[i+1])
		}
		out = append(out, v)
	}
	return out, nil
}
