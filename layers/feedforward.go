package layers

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf32"
)

// FeedForward is a fully connected layer: out = act(x·W + b). It is
// stateless, so the reset flag and Reset are no-ops.
type FeedForward struct {
	W   *tensor.Dense // weights, shaped (inputs, units)
	B   []float32     // bias, one per unit; nil means no bias
	Act Activation
}

// NewFeedForward creates a fully connected layer from its weights.
func NewFeedForward(w *tensor.Dense, b []float32, act Activation) *FeedForward {
	return &FeedForward{W: w, B: b, Act: act}
}

// Activate transforms the (frames, inputs) matrix x into a (frames, units)
// matrix.
func (l *FeedForward) Activate(x *tensor.Dense, reset bool) (*tensor.Dense, error) {
	out, err := x.MatMul(l.W)
	if err != nil {
		return nil, errors.Wrap(err, "feedforward")
	}
	data := out.Data().([]float32)
	if l.B != nil {
		units := out.Shape()[1]
		for i := 0; i < len(data); i += units {
			vecf32.Add(data[i:i+units], l.B)
		}
	}
	l.Act.Apply(data)
	return out, nil
}

func (l *FeedForward) Reset() {}

func (l *FeedForward) String() string {
	s := l.W.Shape()
	return fmt.Sprintf("FeedForward(%d, %d, %s)", s[0], s[1], l.Act)
}
