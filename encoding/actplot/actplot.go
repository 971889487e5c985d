// Package actplot renders network activations as grayscale images, one GIF
// frame per prediction, with a caption line underneath.
package actplot

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
	"gorgonia.org/tensor"

	"github.com/gorgonia/cadence"
)

const (
	fontsize = 12.0
	cell     = 4 // pixels per activation value
	pad      = 10
)

var face font.Face

func init() {
	regular, err := truetype.Parse(gomono.TTF)
	if err != nil {
		panic(err)
	}
	face = truetype.NewFace(regular, &truetype.Options{
		Size:    fontsize,
		Hinting: font.HintingFull,
	})
}

var grays = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// Encoder accumulates activation frames and writes them out as an animated
// GIF. Activation values are clamped to [0, 1] and mapped to gray levels.
type Encoder struct {
	io.Writer
	font.Drawer

	out *gif.GIF
}

// NewEncoder writes the GIF to w on Flush.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		Writer: w,
		Drawer: font.Drawer{
			Src:  image.Black,
			Face: face,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Encode appends one frame per output of the prediction, captioned with
// caption (plus the task number for multi-task predictions).
func (enc *Encoder) Encode(caption string, p cadence.Prediction) error {
	if p.IsMultiTask() {
		for i, t := range p.Tasks {
			enc.frame(fmt.Sprintf("%s [task %d]", caption, i), t)
		}
		return nil
	}
	enc.frame(caption, p.Output)
	return nil
}

// Flush writes the accumulated GIF to the underlying writer.
func (enc *Encoder) Flush() error { return gif.EncodeAll(enc.Writer, enc.out) }

func (enc *Encoder) frame(caption string, t *tensor.Dense) {
	rows, cols := dims(t)
	data := t.Data().([]float32)

	dy := face.Metrics().Height.Ceil() + face.Metrics().Descent.Ceil()
	w := maxInt(cols*cell, font.MeasureString(face, caption).Ceil()) + 2*pad
	h := rows*cell + dy + 2*pad

	im := image.NewPaletted(image.Rect(0, 0, w, h), grays)
	for i := range im.Pix {
		im.Pix[i] = 0xff // white background
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := math32.Max(0, math32.Min(1, data[r*cols+c]))
			level := uint8((1 - v) * 255) // high activation plots dark
			for y := r * cell; y < (r+1)*cell; y++ {
				for x := c * cell; x < (c+1)*cell; x++ {
					im.SetColorIndex(pad+x, pad+y, level)
				}
			}
		}
	}

	enc.Dst = im
	enc.Dot = fixed.P(pad, pad+rows*cell+face.Metrics().Height.Ceil())
	enc.DrawString(caption)

	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, 100)
}

// dims views a squeezed activation tensor as (frames, outputs); a vector is
// one output per frame.
func dims(t *tensor.Dense) (rows, cols int) {
	shape := t.Shape()
	switch len(shape) {
	case 0:
		return 1, 1
	case 1:
		return shape[0], 1
	}
	return shape[0], shape[1]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
