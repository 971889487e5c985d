package cadence

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/gorgonia/cadence/internal/workpool"
)

// Ensemble is an ordered collection of independently trained networks whose
// predictions on the same input are merged into one result by a CombineFunc.
//
// Every member network must accept the same input shape and produce
// predictions of the same form as its siblings (all single output, or all
// multi-task with equal arity), otherwise combination fails.
type Ensemble struct {
	networks []*Network
	combine  CombineFunc
	workers  int
}

// EnsembleOpt configures an Ensemble.
type EnsembleOpt func(*Ensemble)

// WithCombiner replaces the default averaging combiner. Order-sensitive
// combiners can rely on receiving predictions in network order.
func WithCombiner(fn CombineFunc) EnsembleOpt {
	return func(e *Ensemble) { e.combine = fn }
}

// WithWorkers bounds the number of networks evaluated concurrently. The
// default is one worker per CPU.
func WithWorkers(workers int) EnsembleOpt {
	return func(e *Ensemble) { e.workers = workers }
}

// NewEnsemble creates an Ensemble over the given networks. The networks are
// evaluated in parallel by Process and ProcessEach; a network must not be a
// member of more than one concurrently used ensemble, as its layer state is
// mutated during evaluation.
func NewEnsemble(networks []*Network, opts ...EnsembleOpt) *Ensemble {
	e := &Ensemble{
		networks: networks,
		combine:  AveragePredictions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Networks returns the member networks in ensemble order.
func (e *Ensemble) Networks() []*Network { return e.networks }

// Process runs every member network on the input matrix and returns the
// combined prediction. A failing member aborts the whole call; no partial
// result is returned, but the ensemble stays usable afterwards.
func (e *Ensemble) Process(data *tensor.Dense, reset bool) (Prediction, error) {
	predictions, err := e.ProcessEach(data, reset)
	if err != nil {
		return Prediction{}, err
	}
	return e.combine(predictions)
}

// ProcessEach runs every member network on the input matrix and returns the
// raw predictions in network order, bypassing the combiner.
func (e *Ensemble) ProcessEach(data *tensor.Dense, reset bool) ([]Prediction, error) {
	if len(e.networks) == 0 {
		return nil, errors.New("ensemble has no networks")
	}
	tasks := make([]func() (Prediction, error), len(e.networks))
	for i, nn := range e.networks {
		nn := nn
		tasks[i] = func() (Prediction, error) { return nn.Process(data, reset) }
	}
	return workpool.Map(tasks, e.workers)
}

// Reset restores every member network to its initial state.
func (e *Ensemble) Reset() {
	for _, nn := range e.networks {
		nn.Reset()
	}
}

// LoadEnsemble creates an Ensemble from a list of model files, one network
// per file. The order of the paths determines the order of the networks,
// and with it the order of the predictions handed to the combiner.
func LoadEnsemble(paths []string, opts ...EnsembleOpt) (*Ensemble, error) {
	networks := make([]*Network, len(paths))
	for i, path := range paths {
		nn, err := Load(path)
		if err != nil {
			return nil, errors.WithMessagef(err, "network %d of %d", i, len(paths))
		}
		networks[i] = nn
	}
	return NewEnsemble(networks, opts...), nil
}
