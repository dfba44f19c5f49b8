package classifier

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Network is a three-layer perceptron: in -> hidden (ReLU) -> hidden (ReLU) -> classes.
// Biases are stored as 1xN matrices so every parameter is updated the same way.
type Network struct {
	InputSize  int
	HiddenSize int
	NumClasses int

	W1, B1 *mat.Dense
	W2, B2 *mat.Dense
	W3, B3 *mat.Dense
}

// NewNetwork initializes weights uniformly in ±1/sqrt(fan_in) from seed.
func NewNetwork(inputSize, hiddenSize, numClasses int, seed int64) (*Network, error) {
	if inputSize <= 0 || hiddenSize <= 0 || numClasses <= 0 {
		return nil, fmt.Errorf("invalid network shape %dx%dx%d", inputSize, hiddenSize, numClasses)
	}
	rng := rand.New(rand.NewSource(seed))
	return &Network{
		InputSize:  inputSize,
		HiddenSize: hiddenSize,
		NumClasses: numClasses,
		W1:         uniform(rng, inputSize, hiddenSize, inputSize),
		B1:         uniform(rng, 1, hiddenSize, inputSize),
		W2:         uniform(rng, hiddenSize, hiddenSize, hiddenSize),
		B2:         uniform(rng, 1, hiddenSize, hiddenSize),
		W3:         uniform(rng, hiddenSize, numClasses, hiddenSize),
		B3:         uniform(rng, 1, numClasses, hiddenSize),
	}, nil
}

func uniform(rng *rand.Rand, r, c, fanIn int) *mat.Dense {
	bound := 1 / math.Sqrt(float64(fanIn))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * bound
	}
	return mat.NewDense(r, c, data)
}

func (n *Network) params() []*mat.Dense {
	return []*mat.Dense{n.W1, n.B1, n.W2, n.B2, n.W3, n.B3}
}

// activations keeps the intermediate values of one forward pass for backprop.
type activations struct {
	x              mat.Matrix
	z1, a1, z2, a2 *mat.Dense
	logits         *mat.Dense
}

func (n *Network) forward(x mat.Matrix) *activations {
	act := &activations{x: x}
	act.z1 = affine(x, n.W1, n.B1)
	act.a1 = relu(act.z1)
	act.z2 = affine(act.a1, n.W2, n.B2)
	act.a2 = relu(act.z2)
	act.logits = affine(act.a2, n.W3, n.B3)
	return act
}

// Forward returns the raw class scores for each row of x.
func (n *Network) Forward(x mat.Matrix) *mat.Dense {
	return n.forward(x).logits
}

func affine(x mat.Matrix, w, b *mat.Dense) *mat.Dense {
	var z mat.Dense
	z.Mul(x, w)
	bias := b.RawRowView(0)
	z.Apply(func(_, j int, v float64) float64 { return v + bias[j] }, &z)
	return &z
}

func relu(z *mat.Dense) *mat.Dense {
	var a mat.Dense
	a.Apply(func(_, _ int, v float64) float64 { return math.Max(0, v) }, z)
	return &a
}

// Softmax normalizes each row of logits into probabilities.
func Softmax(logits *mat.Dense) *mat.Dense {
	r, c := logits.Dims()
	out := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		row := logits.RawRowView(i)
		maxV := row[0]
		for _, v := range row[1:] {
			maxV = math.Max(maxV, v)
		}
		var sum float64
		dst := out.RawRowView(i)
		for j, v := range row {
			dst[j] = math.Exp(v - maxV)
			sum += dst[j]
		}
		for j := range dst {
			dst[j] /= sum
		}
	}
	return out
}

// gradients mirrors params() order.
type gradients [6]*mat.Dense

// backward computes the softmax cross-entropy loss and its gradients for a
// batch with integer class labels.
func (n *Network) backward(act *activations, labels []int) (float64, gradients) {
	probs := Softmax(act.logits)
	batch := float64(len(labels))

	var loss float64
	dz3 := mat.DenseCopyOf(probs)
	for i, label := range labels {
		loss -= math.Log(math.Max(probs.At(i, label), 1e-12))
		dz3.Set(i, label, dz3.At(i, label)-1)
	}
	dz3.Scale(1/batch, dz3)

	var g gradients
	g[4], g[5] = weightGrads(act.a2, dz3)

	dz2 := reluGrad(dz3, n.W3, act.z2)
	g[2], g[3] = weightGrads(act.a1, dz2)

	dz1 := reluGrad(dz2, n.W2, act.z1)
	g[0], g[1] = weightGrads(act.x, dz1)

	return loss / batch, g
}

func weightGrads(input mat.Matrix, dz *mat.Dense) (*mat.Dense, *mat.Dense) {
	var dw mat.Dense
	dw.Mul(input.T(), dz)

	r, c := dz.Dims()
	db := mat.NewDense(1, c, nil)
	sums := db.RawRowView(0)
	for i := 0; i < r; i++ {
		for j, v := range dz.RawRowView(i) {
			sums[j] += v
		}
	}
	return &dw, db
}

// reluGrad propagates dz through w and masks by the ReLU derivative of z.
func reluGrad(dz, w, z *mat.Dense) *mat.Dense {
	var da mat.Dense
	da.Mul(dz, w.T())
	da.Apply(func(i, j int, v float64) float64 {
		if z.At(i, j) > 0 {
			return v
		}
		return 0
	}, &da)
	return &da
}
