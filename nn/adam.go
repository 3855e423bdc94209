package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Adam keeps first/second moment estimates per parameter matrix. One Adam
// instance is bound to one network.
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64

	step int
	m    []*mat.Dense
	v    []*mat.Dense
}

func NewAdam(lr float64) *Adam {
	return &Adam{
		lr:    lr,
		beta1: 0.9,
		beta2: 0.999,
		eps:   1e-8,
	}
}

// Step applies one Adam update to the network parameters in place.
func (a *Adam) Step(net *MLP, grads *Grads) {
	params := net.params()
	gradList := grads.list()
	if a.m == nil {
		a.m = make([]*mat.Dense, len(params))
		a.v = make([]*mat.Dense, len(params))
		for i, p := range params {
			rows, cols := p.Dims()
			a.m[i] = mat.NewDense(rows, cols, nil)
			a.v[i] = mat.NewDense(rows, cols, nil)
		}
	}
	a.step++
	bias1 := 1 - math.Pow(a.beta1, float64(a.step))
	bias2 := 1 - math.Pow(a.beta2, float64(a.step))

	for i, p := range params {
		pRaw := p.RawMatrix().Data
		gRaw := gradList[i].RawMatrix().Data
		mRaw := a.m[i].RawMatrix().Data
		vRaw := a.v[i].RawMatrix().Data
		for j := range pRaw {
			g := gRaw[j]
			mRaw[j] = a.beta1*mRaw[j] + (1-a.beta1)*g
			vRaw[j] = a.beta2*vRaw[j] + (1-a.beta2)*g*g
			mHat := mRaw[j] / bias1
			vHat := vRaw[j] / bias2
			pRaw[j] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}
