// Package nn provides the differentiable function approximators used by the
// trainer: a fixed-shape two-hidden-layer MLP with manual backpropagation,
// an Adam optimizer and gradient-norm clipping. The learning algorithm
// consumes it through forward/backward calls only.
package nn

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// MLP is a feed-forward network in -> hidden -> hidden -> out with ReLU on
// the hidden layers and a linear output head. Inputs are row vectors; a
// batch is one row per sample.
type MLP struct {
	w1, b1 *mat.Dense
	w2, b2 *mat.Dense
	w3, b3 *mat.Dense

	in, hidden, out int
}

// Grads holds parameter gradients with the same shapes as the network
// weights.
type Grads struct {
	w1, b1 *mat.Dense
	w2, b2 *mat.Dense
	w3, b3 *mat.Dense
}

// NewMLP initializes weights with He-scaled gaussian noise from the given
// source and zero biases.
func NewMLP(in, hidden, out int, src rand.Source) *MLP {
	rng := rand.New(src)
	return &MLP{
		w1:     randomDense(in, hidden, rng),
		b1:     mat.NewDense(1, hidden, nil),
		w2:     randomDense(hidden, hidden, rng),
		b2:     mat.NewDense(1, hidden, nil),
		w3:     randomDense(hidden, out, rng),
		b3:     mat.NewDense(1, out, nil),
		in:     in,
		hidden: hidden,
		out:    out,
	}
}

func randomDense(rows, cols int, rng *rand.Rand) *mat.Dense {
	scale := math.Sqrt(2.0 / float64(rows))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}
	return mat.NewDense(rows, cols, data)
}

func (m *MLP) InputDim() int  { return m.in }
func (m *MLP) OutputDim() int { return m.out }

// Forward computes the batch output for x (one sample per row).
func (m *MLP) Forward(x *mat.Dense) *mat.Dense {
	_, _, out := m.forward(x)
	return out
}

// ForwardVec is Forward for a single sample.
func (m *MLP) ForwardVec(x []float64) []float64 {
	out := m.Forward(mat.NewDense(1, len(x), x))
	return mat.Row(nil, 0, out)
}

func (m *MLP) forward(x *mat.Dense) (h1, h2, out *mat.Dense) {
	h1 = &mat.Dense{}
	h1.Mul(x, m.w1)
	addRow(h1, m.b1)
	reluInPlace(h1)

	h2 = &mat.Dense{}
	h2.Mul(h1, m.w2)
	addRow(h2, m.b2)
	reluInPlace(h2)

	out = &mat.Dense{}
	out.Mul(h2, m.w3)
	addRow(out, m.b3)
	return h1, h2, out
}

// Backward computes parameter gradients for the batch x given the loss
// gradient with respect to the network output. The forward activations are
// recomputed internally.
func (m *MLP) Backward(x, dOut *mat.Dense) *Grads {
	h1, h2, _ := m.forward(x)

	g := &Grads{}
	g.w3 = &mat.Dense{}
	g.w3.Mul(h2.T(), dOut)
	g.b3 = colSums(dOut)

	dH2 := &mat.Dense{}
	dH2.Mul(dOut, m.w3.T())
	reluMask(dH2, h2)

	g.w2 = &mat.Dense{}
	g.w2.Mul(h1.T(), dH2)
	g.b2 = colSums(dH2)

	dH1 := &mat.Dense{}
	dH1.Mul(dH2, m.w2.T())
	reluMask(dH1, h1)

	g.w1 = &mat.Dense{}
	g.w1.Mul(x.T(), dH1)
	g.b1 = colSums(dH1)
	return g
}

// params and grads in matching order, used by the optimizer and the clipper
func (m *MLP) params() []*mat.Dense {
	return []*mat.Dense{m.w1, m.b1, m.w2, m.b2, m.w3, m.b3}
}

func (g *Grads) list() []*mat.Dense {
	return []*mat.Dense{g.w1, g.b1, g.w2, g.b2, g.w3, g.b3}
}

// Norm is the global L2 norm over all parameter gradients.
func (g *Grads) Norm() float64 {
	sum := 0.0
	for _, d := range g.list() {
		raw := d.RawMatrix().Data
		for _, v := range raw {
			sum += v * v
		}
	}
	return math.Sqrt(sum)
}

// ClipNorm rescales the gradients so their global L2 norm does not exceed
// max.
func (g *Grads) ClipNorm(max float64) {
	norm := g.Norm()
	if norm <= max {
		return
	}
	scale := max / (norm + 1e-6)
	for _, d := range g.list() {
		d.Scale(scale, d)
	}
}

// HasNaN reports whether any gradient entry is NaN or Inf.
func (g *Grads) HasNaN() bool {
	for _, d := range g.list() {
		raw := d.RawMatrix().Data
		for _, v := range raw {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
	}
	return false
}

// addRow adds the 1xN row vector b to every row of x
func addRow(x, b *mat.Dense) {
	rows, cols := x.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x.Set(i, j, x.At(i, j)+b.At(0, j))
		}
	}
}

func reluInPlace(x *mat.Dense) {
	raw := x.RawMatrix().Data
	for i, v := range raw {
		if v < 0 {
			raw[i] = 0
		}
	}
}

// reluMask zeroes entries of dx where the corresponding activation was not
// positive
func reluMask(dx, activation *mat.Dense) {
	rows, cols := dx.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if activation.At(i, j) <= 0 {
				dx.Set(i, j, 0)
			}
		}
	}
}

func colSums(x *mat.Dense) *mat.Dense {
	rows, cols := x.Dims()
	sums := mat.NewDense(1, cols, nil)
	for j := 0; j < cols; j++ {
		s := 0.0
		for i := 0; i < rows; i++ {
			s += x.At(i, j)
		}
		sums.Set(0, j, s)
	}
	return sums
}
