package cadence_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"

	"github.com/gorgonia/cadence"
	"github.com/gorgonia/cadence/layers"
)

func dense(shape tensor.Shape, backing []float32) *tensor.Dense {
	return tensor.New(tensor.WithShape(shape...), tensor.WithBacking(backing))
}

// identity3 is a 3x3 identity weight matrix.
func identity3() *tensor.Dense {
	return dense(tensor.Shape{3, 3}, []float32{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// twoLayerNet builds a small tanh/sigmoid network with fixed weights.
func twoLayerNet() *cadence.Network {
	l1 := layers.NewFeedForward(
		dense(tensor.Shape{1, 4}, []float32{0.5, -1, -0.3, -0.2}),
		[]float32{0.05, 0, 0.8, -0.5},
		layers.Tanh,
	)
	l2 := layers.NewFeedForward(
		dense(tensor.Shape{4, 1}, []float32{-1, 0.9, -0.2, 0.4}),
		[]float32{0.5},
		layers.Sigmoid,
	)
	return cadence.New(l1, l2)
}

func TestNetwork_IdentityLayer(t *testing.T) {
	assert := assert.New(t)
	nn := cadence.New(layers.NewFeedForward(identity3(), nil, layers.Linear))

	// a vector is treated as a single frame and squeezed back
	got, err := nn.Process(dense(tensor.Shape{3}, []float32{0, 0.5, 1}), true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	assert.True(got.Output.Shape().Eq(tensor.Shape{3}), "got shape %v", got.Output.Shape())
	assert.Equal([]float32{0, 0.5, 1}, got.Output.Data())
}

func TestNetwork_Process(t *testing.T) {
	nn := twoLayerNet()
	in := dense(tensor.Shape{7, 1}, []float32{0, 0.5, 1, 0, 1, 2, 0})
	want := []float32{0.53305, 0.36903, 0.265, 0.53305, 0.265, 0.18612, 0.53305}

	got, err := nn.Process(in, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !got.Output.Shape().Eq(tensor.Shape{7}) {
		t.Fatalf("predictions should be squeezed to (7), got %v", got.Output.Shape())
	}
	data := got.Output.Data().([]float32)
	for i, w := range want {
		assert.InDelta(t, w, data[i], 1e-4, "frame %d", i)
	}
}

func TestNetwork_ProcessIdempotent(t *testing.T) {
	nn := cadence.New(
		layers.NewRecurrent(identity3(), identity3(), nil, layers.Tanh),
		layers.NewFeedForward(identity3(), nil, layers.Linear),
	)
	in := dense(tensor.Shape{4, 3}, []float32{
		0, 0.5, 1,
		1, 0, 0.5,
		0.2, 0.2, 0.2,
		1, 1, 1,
	})

	first, err := nn.Process(in, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	second, err := nn.Process(in, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(first.Output.Data(), second.Output.Data()); diff != "" {
		t.Errorf("processing with reset should be idempotent:\n%s", diff)
	}
}

func TestNetwork_ResetThenRun(t *testing.T) {
	wx, wh := identity3(), identity3()
	in := dense(tensor.Shape{4, 3}, []float32{
		0, 0.5, 1,
		1, 0, 0.5,
		0.2, 0.2, 0.2,
		1, 1, 1,
	})

	fresh := cadence.New(layers.NewRecurrent(wx, wh, nil, layers.Tanh))
	want, err := fresh.Process(in, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// dirty the state, then reset; a run without the reset flag must now
	// match the fresh network
	nn := cadence.New(layers.NewRecurrent(wx, wh, nil, layers.Tanh))
	if _, err = nn.Process(in, false); err != nil {
		t.Fatalf("%+v", err)
	}
	if _, err = nn.Process(in, false); err != nil {
		t.Fatalf("%+v", err)
	}
	nn.Reset()
	got, err := nn.Process(in, false)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(want.Output.Data(), got.Output.Data()); diff != "" {
		t.Errorf("reset-then-run should equal run-with-reset:\n%s", diff)
	}
}

func TestNetwork_StatefulContinuation(t *testing.T) {
	wx, wh := identity3(), identity3()
	in := dense(tensor.Shape{2, 3}, []float32{
		0.1, 0.2, 0.3,
		0.3, 0.2, 0.1,
	})

	nn := cadence.New(layers.NewRecurrent(wx, wh, nil, layers.Tanh))
	first, err := nn.Process(in, true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	second, err := nn.Process(in, false)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if diff := cmp.Diff(first.Output.Data(), second.Output.Data()); diff == "" {
		t.Error("a second block without reset should see the carried hidden state")
	}
}

func TestNetwork_MultiTask(t *testing.T) {
	assert := assert.New(t)
	nn := cadence.New(
		layers.NewFeedForward(identity3(), nil, layers.Linear),
		layers.NewMultiTask(
			layers.NewFeedForward(identity3(), nil, layers.Linear),
			layers.NewFeedForward(dense(tensor.Shape{3, 1}, []float32{1, 1, 1}), nil, layers.Linear),
		),
	)

	got, err := nn.Process(dense(tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6}), true)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !got.IsMultiTask() {
		t.Fatal("expected a multi-task prediction")
	}
	assert.Equal(2, len(got.Tasks))
	assert.Equal([]float32{1, 2, 3, 4, 5, 6}, got.Tasks[0].Data())
	assert.Equal([]float32{6, 15}, got.Tasks[1].Data())
	assert.True(got.Tasks[1].Shape().Eq(tensor.Shape{2}), "task outputs should be squeezed, got %v", got.Tasks[1].Shape())
}

func TestNetwork_MultiTaskNotFinal(t *testing.T) {
	nn := cadence.New(
		layers.NewMultiTask(layers.NewFeedForward(identity3(), nil, layers.Linear)),
		layers.NewFeedForward(identity3(), nil, layers.Linear),
	)
	if _, err := nn.Process(dense(tensor.Shape{1, 3}, []float32{1, 2, 3}), true); err == nil {
		t.Error("a multi-output layer before the final position should fail")
	}
}

func TestNetwork_ShapeMismatch(t *testing.T) {
	nn := cadence.New(layers.NewFeedForward(identity3(), nil, layers.Linear))
	if _, err := nn.Process(dense(tensor.Shape{2, 4}, make([]float32, 8)), true); err == nil {
		t.Error("a (2, 4) input into (3, 3) weights should fail")
	}
}
