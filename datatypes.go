// Package cadence is a feed forward neural network inference engine. It
// composes resettable layers into networks, runs networks over matrices of
// input frames, and combines the predictions of independently trained
// networks into a single ensemble output.
package cadence

import (
	"gorgonia.org/tensor"
)

// Float is the data type all networks in this package operate on.
var Float = tensor.Float32

// A Layer is a single transform stage of a Network. Layers may be stateful
// (recurrent); the reset flag tells a stateful layer to clear its internal
// state before transforming this call's data.
type Layer interface {
	Activate(x *tensor.Dense, reset bool) (*tensor.Dense, error)
	Reset()
}

// A MultiOutputLayer produces several output blocks from one input. It is
// only valid as the final layer of a Network, and makes that network a
// multi-task network.
type MultiOutputLayer interface {
	Layer
	ActivateAll(x *tensor.Dense, reset bool) ([]*tensor.Dense, error)
}

// Prediction is the output of a network on one input matrix. Exactly one of
// the two fields is set: Output for a normal network, Tasks for a multi-task
// network. Tasks preserves the order of the network's output heads.
type Prediction struct {
	Output *tensor.Dense
	Tasks  []*tensor.Dense
}

// IsMultiTask reports whether p came from a multi-task network.
func (p Prediction) IsMultiTask() bool { return p.Tasks != nil }

// A CombineFunc merges the ordered list of per-network predictions of an
// ensemble into one prediction. The list is never mutated.
type CombineFunc func(predictions []Prediction) (Prediction, error)

// A Processor is anything that can turn an input matrix into a prediction.
// Both Network and Ensemble are Processors.
type Processor interface {
	Process(data *tensor.Dense, reset bool) (Prediction, error)
}
