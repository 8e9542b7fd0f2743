package chart

import (
	"fmt"
	"strings"
)

// MountTarget identifies a pre-existing container in the host document.
type MountTarget = string

// Pair associates one descriptor with the container it renders into.
type Pair struct {
	Target     MountTarget
	Descriptor Descriptor
}

// Batch is the ordered set of pairs rendered together for one refresh.
// Targets are unique within a batch.
type Batch []Pair

// NewBatch zips targets and descriptors positionally. The sequences must have
// the same length and every target must be non-empty and unique.
func NewBatch(targets []string, descriptors []Descriptor) (Batch, error) {
	if len(targets) != len(descriptors) {
		return nil, LengthMismatch(len(descriptors), len(targets))
	}

	batch := make(Batch, 0, len(targets))
	seen := make(map[string]int, len(targets))
	for i, raw := range targets {
		target := strings.TrimSpace(raw)
		if target == "" {
			return nil, &RenderError{Kind: ErrEmptyTarget, Index: i}
		}
		if first, exists := seen[target]; exists {
			return nil, &RenderError{
				Kind:   ErrDuplicateTarget,
				Target: target,
				Index:  i,
				Err:    fmt.Errorf("first listed at index %d", first),
			}
		}
		seen[target] = i
		batch = append(batch, Pair{Target: target, Descriptor: descriptors[i]})
	}
	return batch, nil
}

// MustBatch panics when NewBatch fails. Useful for fixtures.
func MustBatch(targets []string, descriptors []Descriptor) Batch {
	batch, err := NewBatch(targets, descriptors)
	if err != nil {
		panic(err)
	}
	return batch
}

// Targets returns the mount targets in batch order.
func (b Batch) Targets() []string {
	out := make([]string, len(b))
	for i, pair := range b {
		out[i] = pair.Target
	}
	return out
}

// Descriptors returns the descriptors in batch order.
func (b Batch) Descriptors() []Descriptor {
	out := make([]Descriptor, len(b))
	for i, pair := range b {
		out[i] = pair.Descriptor
	}
	return out
}

// Validate re-checks the batch invariants. Batches built by hand (rather than
// through NewBatch) go through the same checks before rendering.
func (b Batch) Validate() error {
	_, err := NewBatch(b.Targets(), b.Descriptors())
	return err
}
