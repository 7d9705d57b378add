package optim

// SGD is plain stochastic gradient descent with optional L2 weight decay.
type SGD struct {
	LearningRate float64
	WeightDecay  float64
}

func NewSGD(lr, decay float64) *SGD { return &SGD{LearningRate: lr, WeightDecay: decay} }

// Step updates weights in place: w -= lr * (g + decay*w).
func (o *SGD) Step(weights, grads []float64) {
	for i := range weights {
		weights[i] -= o.LearningRate * (grads[i] + o.WeightDecay*weights[i])
	}
}
