package chart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLengthMismatch reports figure and id sequences of different lengths.
	ErrLengthMismatch = errors.New("chart: figures and ids length mismatch")
	// ErrMissingTarget reports a mount target with no container in the document.
	ErrMissingTarget = errors.New("chart: mount target not found")
	// ErrBackendRender wraps whatever the charting backend rejected.
	ErrBackendRender = errors.New("chart: backend render failed")
	// ErrDuplicateTarget reports a mount target listed more than once in a batch.
	ErrDuplicateTarget = errors.New("chart: duplicate mount target")
	// ErrEmptyTarget reports a blank mount target.
	ErrEmptyTarget = errors.New("chart: mount target is empty")
	// ErrInvalidDescriptor reports a descriptor that cannot be handed to a backend.
	ErrInvalidDescriptor = errors.New("chart: invalid descriptor")
	// ErrNotRendered reports an operation on a target with no live chart.
	ErrNotRendered = errors.New("chart: nothing rendered at mount target")
)

// RenderError carries the failure kind together with the mount target and
// batch position it applies to. Both Kind and Err participate in errors.Is.
type RenderError struct {
	Kind   error
	Target string
	// Index is the batch position, or -1 when the failure is not positional.
	Index int
	Err   error
}

func (e *RenderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	kind := e.Kind
	if kind == nil {
		kind = ErrBackendRender
	}

	var b strings.Builder
	b.WriteString(kind.Error())
	if e.Target != "" {
		fmt.Fprintf(&b, " %q", e.Target)
	}
	if e.Index >= 0 {
		fmt.Fprintf(&b, " (index %d)", e.Index)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the kind sentinel and the underlying cause.
func (e *RenderError) Unwrap() []error {
	if e == nil {
		return nil
	}
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// LengthMismatch builds the error returned when the figure and id sequences
// cannot be zipped.
func LengthMismatch(figures, ids int) *RenderError {
	return &RenderError{
		Kind:  ErrLengthMismatch,
		Index: -1,
		Err:   fmt.Errorf("%d figures, %d ids", figures, ids),
	}
}

// MissingTarget builds the error returned when target has no container.
func MissingTarget(target string, index int) *RenderError {
	return &RenderError{Kind: ErrMissingTarget, Target: target, Index: index}
}

// BackendRenderError wraps a backend failure for target.
func BackendRenderError(target string, index int, err error) *RenderError {
	return &RenderError{Kind: ErrBackendRender, Target: target, Index: index, Err: err}
}

// KindOf returns the taxonomy sentinel carried by err, or nil when err does
// not belong to the chart taxonomy.
func KindOf(err error) error {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Kind
	}
	for _, kind := range []error{
		ErrLengthMismatch, ErrMissingTarget, ErrBackendRender, ErrDuplicateTarget,
		ErrEmptyTarget, ErrInvalidDescriptor, ErrNotRendered,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
