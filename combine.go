package cadence

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// AveragePredictions combines predictions by elementwise arithmetic mean.
// It is the default CombineFunc of an Ensemble.
//
// A list of length 1 is returned as is. Multi-task predictions are averaged
// slot by slot: all first outputs together, all second outputs together and
// so on, preserving slot order. All predictions must have the same form -
// either all single outputs, or all multi-task with the same number of
// tasks - and within a slot all tensors must have the same shape.
func AveragePredictions(predictions []Prediction) (Prediction, error) {
	if len(predictions) == 0 {
		return Prediction{}, errors.New("no predictions to combine")
	}
	// nothing to average
	if len(predictions) == 1 {
		return predictions[0], nil
	}

	if predictions[0].IsMultiTask() {
		arity := len(predictions[0].Tasks)
		for i, p := range predictions {
			if !p.IsMultiTask() {
				return Prediction{}, errors.Errorf("cannot combine: prediction 0 is multi-task but prediction %d is not", i)
			}
			if len(p.Tasks) != arity {
				return Prediction{}, errors.Errorf("cannot combine: prediction 0 has %d tasks but prediction %d has %d", arity, i, len(p.Tasks))
			}
		}
		// average the task slots one by one
		avg := make([]*tensor.Dense, arity)
		slot := make([]*tensor.Dense, len(predictions))
		for k := 0; k < arity; k++ {
			for i, p := range predictions {
				slot[i] = p.Tasks[k]
			}
			var err error
			if avg[k], err = mean(slot); err != nil {
				return Prediction{}, errors.WithMessagef(err, "task %d", k)
			}
		}
		return Prediction{Tasks: avg}, nil
	}

	outputs := make([]*tensor.Dense, len(predictions))
	for i, p := range predictions {
		if p.IsMultiTask() {
			return Prediction{}, errors.Errorf("cannot combine: prediction 0 is not multi-task but prediction %d is", i)
		}
		outputs[i] = p.Output
	}
	out, err := mean(outputs)
	return Prediction{Output: out}, err
}

// mean computes the elementwise arithmetic mean of same-shaped tensors. The
// inputs are left untouched.
func mean(ts []*tensor.Dense) (*tensor.Dense, error) {
	sum := ts[0].Clone().(*tensor.Dense)
	for _, t := range ts[1:] {
		if _, err := sum.Add(t, tensor.UseUnsafe()); err != nil {
			return nil, errors.Wrap(err, "sum predictions")
		}
	}
	retVal, err := sum.DivScalar(float32(len(ts)), true, tensor.UseUnsafe())
	return retVal, errors.Wrap(err, "scale prediction sum")
}
