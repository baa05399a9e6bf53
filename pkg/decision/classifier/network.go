package classifier

import "math"

// layer is one dense layer with a row-major weight matrix, out*in values.
type layer struct {
	in      int
	out     int
	weights []float32
	biases  []float32
}

// forward applies the layer and, unless final, a ReLU.
func (l *layer) forward(input []float32, final bool) []float32 {
	out := make([]float32, l.out)
	for o := 0; o < l.out; o++ {
		sum := l.biases[o]
		row := l.weights[o*l.in : (o+1)*l.in]
		for i, w := range row {
			sum += w * input[i]
		}
		if !final && sum < 0 {
			sum = 0
		}
		out[o] = sum
	}
	return out
}

// network is the inference-only scoring head: three hidden ReLU layers
// and a single sigmoid output.
type network struct {
	layers []*layer
}

// score runs a forward pass and returns the sigmoid of the final logit.
func (n *network) score(input []float32) float64 {
	values := input
	for i, l := range n.layers {
		values = l.forward(values, i == len(n.layers)-1)
	}
	return sigmoid(float64(values[0]))
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
