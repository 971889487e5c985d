package layers

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/vecf32"
)

// Recurrent is a simple recurrent (Elman) layer. Frame by frame it computes
//
//	h[t] = act(x[t]·Wx + h[t-1]·Wh + b)
//
// and outputs the hidden state of every frame. The hidden state persists
// across Activate calls with reset = false, so a long sequence can be fed
// in consecutive blocks.
type Recurrent struct {
	Wx   *tensor.Dense // input weights, shaped (inputs, units)
	Wh   *tensor.Dense // recurrent weights, shaped (units, units)
	B    []float32     // bias, one per unit; nil means no bias
	Init []float32     // initial hidden state; nil means zeros
	Act  Activation

	hidden []float32
}

// NewRecurrent creates a recurrent layer from its weights.
func NewRecurrent(wx, wh *tensor.Dense, b []float32, act Activation) *Recurrent {
	return &Recurrent{Wx: wx, Wh: wh, B: b, Act: act}
}

// Activate transforms the (frames, inputs) matrix x into a (frames, units)
// matrix, carrying the hidden state from frame to frame.
func (l *Recurrent) Activate(x *tensor.Dense, reset bool) (*tensor.Dense, error) {
	in, units := l.Wx.Shape()[0], l.Wx.Shape()[1]
	shape := x.Shape()
	if x.Dims() != 2 || shape[1] != in {
		return nil, errors.Errorf("recurrent: input shape %v does not match weights (%d, %d)", shape, in, units)
	}
	if reset || l.hidden == nil {
		l.resetHidden()
	}

	frames := shape[0]
	out := tensor.New(tensor.WithShape(frames, units), tensor.Of(tensor.Float32))
	outData := out.Data().([]float32)
	xData := x.Data().([]float32)
	wx := l.Wx.Data().([]float32)
	wh := l.Wh.Data().([]float32)

	for t := 0; t < frames; t++ {
		pre := outData[t*units : (t+1)*units]
		if l.B != nil {
			vecf32.Add(pre, l.B)
		}
		for i, xv := range xData[t*in : (t+1)*in] {
			if xv == 0 {
				continue
			}
			for j, w := range wx[i*units : (i+1)*units] {
				pre[j] += xv * w
			}
		}
		for k, hv := range l.hidden {
			if hv == 0 {
				continue
			}
			for j, w := range wh[k*units : (k+1)*units] {
				pre[j] += hv * w
			}
		}
		l.Act.Apply(pre)
		copy(l.hidden, pre)
	}
	return out, nil
}

// Reset clears the hidden state back to its initial value.
func (l *Recurrent) Reset() { l.hidden = nil }

func (l *Recurrent) resetHidden() {
	units := l.Wx.Shape()[1]
	if l.hidden == nil {
		l.hidden = make([]float32, units)
	}
	if l.Init != nil {
		copy(l.hidden, l.Init)
		return
	}
	for i := range l.hidden {
		l.hidden[i] = 0
	}
}

func (l *Recurrent) String() string {
	s := l.Wx.Shape()
	return fmt.Sprintf("Recurrent(%d, %d, %s)", s[0], s[1], l.Act)
}
