package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var ErrNoSamples = errors.New("no training samples")

// Sample is one embedded pattern and the index of its tag.
type Sample struct {
	Input []float32
	Label int
}

type TrainOptions struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
	// OnEpoch, when set, is called after every epoch with the mean batch loss.
	OnEpoch func(epoch int, loss float64)
}

// Train fits n to samples with mini-batch Adam and softmax cross-entropy.
// It returns the mean loss of the last epoch.
func Train(ctx context.Context, n *Network, samples []Sample, opts TrainOptions) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	for i, s := range samples {
		if len(s.Input) != n.InputSize {
			return 0, fmt.Errorf("sample %d has %d features, network expects %d", i, len(s.Input), n.InputSize)
		}
		if s.Label < 0 || s.Label >= n.NumClasses {
			return 0, fmt.Errorf("sample %d label %d out of range", i, s.Label)
		}
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = len(samples)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	opt := newAdam(n.params(), opts.LearningRate)
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}

	var epochLoss float64
	for epoch := 0; epoch < opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return epochLoss, err
		}
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

		epochLoss = 0
		batches := 0
		for start := 0; start < len(order); start += opts.BatchSize {
			end := min(start+opts.BatchSize, len(order))
			x, labels := batch(samples, order[start:end], n.InputSize)

			loss, grads := n.backward(n.forward(x), labels)
			opt.step(grads)

			epochLoss += loss
			batches++
		}
		epochLoss /= float64(batches)
		if opts.OnEpoch != nil {
			opts.OnEpoch(epoch, epochLoss)
		}
	}
	return epochLoss, nil
}

func batch(samples []Sample, idx []int, width int) (*mat.Dense, []int) {
	x := mat.NewDense(len(idx), width, nil)
	labels := make([]int, len(idx))
	for row, i := range idx {
		dst := x.RawRowView(row)
		for j, v := range samples[i].Input {
			dst[j] = float64(v)
		}
		labels[row] = samples[i].Label
	}
	return x, labels
}

const (
	adamBeta1 = 0.9
	adamBeta2 = 0.999
	adamEps   = 1e-8
)

type adam struct {
	params []*mat.Dense
	m, v   []*mat.Dense
	lr     float64
	t      int
}

func newAdam(params []*mat.Dense, lr float64) *adam {
	a := &adam{params: params, lr: lr}
	for _, p := range params {
		r, c := p.Dims()
		a.m = append(a.m, mat.NewDense(r, c, nil))
		a.v = append(a.v, mat.NewDense(r, c, nil))
	}
	return a
}

func (a *adam) step(grads gradients) {
	a.t++
	c1 := 1 - math.Pow(adamBeta1, float64(a.t))
	c2 := 1 - math.Pow(adamBeta2, float64(a.t))
	for k, p := range a.params {
		rows, _ := p.Dims()
		for i := 0; i < rows; i++ {
			w := p.RawRowView(i)
			g := grads[k].RawRowView(i)
			m := a.m[k].RawRowView(i)
			v := a.v[k].RawRowView(i)
			for j := range w {
				m[j] = adamBeta1*m[j] + (1-adamBeta1)*g[j]
				v[j] = adamBeta2*v[j] + (1-adamBeta2)*g[j]*g[j]
				w[j] -= a.lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + adamEps)
			}
		}
	}
}
