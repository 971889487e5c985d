// Package layers provides the layer kinds a cadence.Network is composed of:
// feed forward, recurrent, and multi-task fan-out layers.
package layers

import (
	"encoding/gob"

	"github.com/chewxy/math32"
)

func init() {
	gob.Register(&FeedForward{})
	gob.Register(&Recurrent{})
	gob.Register(&MultiTask{})
}

// Activation is an elementwise transfer function applied to a layer's
// pre-activations.
type Activation uint8

const (
	Linear Activation = iota
	Tanh
	Sigmoid
	ReLU
)

// Apply transforms xs in place.
func (a Activation) Apply(xs []float32) {
	switch a {
	case Linear:
	case Tanh:
		for i, x := range xs {
			xs[i] = math32.Tanh(x)
		}
	case Sigmoid:
		for i, x := range xs {
			xs[i] = 1 / (1 + math32.Exp(-x))
		}
	case ReLU:
		for i, x := range xs {
			if x < 0 {
				xs[i] = 0
			}
		}
	}
}

func (a Activation) String() string {
	switch a {
	case Linear:
		return "linear"
	case Tanh:
		return "tanh"
	case Sigmoid:
		return "sigmoid"
	case ReLU:
		return "relu"
	}
	return "unknown"
}
