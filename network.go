package cadence

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// Network is an ordered composition of layers executed as a pipeline: the
// output of layer i is the input of layer i+1. The topology is fixed at
// construction; the layers' internal state mutates per Process call.
//
// A Network performs no shape validation between adjacent layers. A
// mismatch surfaces as an error from the offending layer on first use.
type Network struct {
	layers []Layer
}

// New creates a Network from the given layers.
func New(layers ...Layer) *Network {
	return &Network{layers: layers}
}

// Layers returns the network's layers in topology order.
func (n *Network) Layers() []Layer { return n.layers }

// Process feeds the input matrix, shaped (frames, features), through every
// layer in sequence and returns the squeezed prediction. Inputs with fewer
// than 2 dimensions are reshaped to a single frame without copying. If
// reset is true, each stateful layer clears its internal state before
// transforming the data.
//
// If the final layer is a MultiOutputLayer, the prediction holds one
// squeezed tensor per output head, in head order.
func (n *Network) Process(data *tensor.Dense, reset bool) (Prediction, error) {
	data = atLeast2D(data)
	last := len(n.layers) - 1
	for i, l := range n.layers {
		if mo, ok := l.(MultiOutputLayer); ok {
			if i != last {
				return Prediction{}, errors.Errorf("layer %d: multi-output layers may only be the final layer", i)
			}
			outs, err := mo.ActivateAll(data, reset)
			if err != nil {
				return Prediction{}, errors.WithMessagef(err, "layer %d", i)
			}
			for j, o := range outs {
				outs[j] = squeeze(o)
			}
			return Prediction{Tasks: outs}, nil
		}

		var err error
		if data, err = l.Activate(data, reset); err != nil {
			return Prediction{}, errors.WithMessagef(err, "layer %d", i)
		}
	}
	return Prediction{Output: squeeze(data)}, nil
}

// Reset restores every layer to its initial state, in topology order. It is
// a no-op on a freshly constructed network.
func (n *Network) Reset() {
	for _, l := range n.layers {
		l.Reset()
	}
}

// atLeast2D views t as a (frames, features) matrix. Vectors and scalars
// become a single frame; the backing data is shared, not copied.
func atLeast2D(t *tensor.Dense) *tensor.Dense {
	switch t.Dims() {
	case 0:
		return tensor.New(tensor.WithShape(1, 1), tensor.WithBacking([]float32{t.Data().(float32)}))
	case 1:
		return tensor.New(tensor.WithShape(1, t.Shape()[0]), tensor.WithBacking(t.Data()))
	}
	return t
}

// squeeze drops all dimensions of size 1, so predictions contain only true
// dimensions. A tensor of a single element squeezes to shape (1).
func squeeze(t *tensor.Dense) *tensor.Dense {
	shape := t.Shape()
	kept := make([]int, 0, len(shape))
	for _, d := range shape {
		if d > 1 {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(shape) {
		return t
	}
	if len(kept) == 0 {
		kept = append(kept, 1)
	}
	t.Reshape(kept...) // total size is unchanged, cannot fail
	return t
}
