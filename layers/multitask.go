package layers

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// A Head is a layer a MultiTask layer feeds its input to.
type Head interface {
	Activate(x *tensor.Dense, reset bool) (*tensor.Dense, error)
	Reset()
}

// MultiTask fans one input out to a fixed-order set of head layers, one per
// task, and returns their outputs in head order. It implements
// cadence.MultiOutputLayer and may only be the final layer of a network.
type MultiTask struct {
	Heads []Head
}

// NewMultiTask creates a multi-task layer over the given heads.
func NewMultiTask(heads ...Head) *MultiTask {
	return &MultiTask{Heads: heads}
}

// ActivateAll feeds x to every head and returns one output per head.
func (l *MultiTask) ActivateAll(x *tensor.Dense, reset bool) ([]*tensor.Dense, error) {
	outs := make([]*tensor.Dense, len(l.Heads))
	for i, h := range l.Heads {
		var err error
		if outs[i], err = h.Activate(x, reset); err != nil {
			return nil, errors.WithMessagef(err, "head %d", i)
		}
	}
	return outs, nil
}

// Activate always fails; a multi-task layer has no single output.
func (l *MultiTask) Activate(x *tensor.Dense, reset bool) (*tensor.Dense, error) {
	return nil, errors.New("multi-task layer has no single output")
}

// Reset propagates to every head.
func (l *MultiTask) Reset() {
	for _, h := range l.Heads {
		h.Reset()
	}
}

func (l *MultiTask) String() string {
	return fmt.Sprintf("MultiTask(%d)", len(l.Heads))
}
