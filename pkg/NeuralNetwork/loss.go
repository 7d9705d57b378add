package NeuralNetwork

import "math"

// BCE is the mean binary cross-entropy of probabilities yPred against 0/1
// targets, with its gradient with respect to each prediction's logit.
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := range n {
		p := math.Min(math.Max(yPred[i], 1e-12), 1-1e-12)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (p - y) / float64(n)
	}
	return s / float64(n), grad
}

// BCEWithLogits is the summed binary cross-entropy computed from logits z,
// and its gradient with respect to each logit. It stays finite for any z.
func BCEWithLogits(yTrue, z []float64) (float64, []float64) {
	s := 0.0
	grad := make([]float64, len(z))
	for i, zi := range z {
		y := yTrue[i]
		s += math.Max(zi, 0) - zi*y + math.Log1p(math.Exp(-math.Abs(zi)))
		grad[i] = Sigmoid(zi) - y
	}
	return s, grad
}
