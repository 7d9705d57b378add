package NeuralNetwork

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.InDelta(t, 1/(1+math.Exp(-2)), Sigmoid(2), 1e-15)
	assert.InDelta(t, 1-Sigmoid(3), Sigmoid(-3), 1e-15)
	assert.False(t, math.IsNaN(Sigmoid(-1000)))
	assert.Equal(t, 1.0, Sigmoid(1000))
}

func TestBCE(t *testing.T) {
	loss, grad := BCE([]float64{1, 0}, []float64{0.8, 0.4})
	want := -(math.Log(0.8) + math.Log(0.6)) / 2
	assert.InDelta(t, want, loss, 1e-12)
	assert.InDelta(t, -0.1, grad[0], 1e-12)
	assert.InDelta(t, 0.2, grad[1], 1e-12)
}

func TestBCEWithLogits(t *testing.T) {
	z := []float64{0.3, -1.2, 4}
	y := []float64{1, 0, 0}
	loss, grad := BCEWithLogits(y, z)

	want := 0.0
	for i := range z {
		p := Sigmoid(z[i])
		want += -(y[i]*math.Log(p) + (1-y[i])*math.Log(1-p))
		assert.InDelta(t, p-y[i], grad[i], 1e-12)
	}
	assert.InDelta(t, want, loss, 1e-9)

	big, _ := BCEWithLogits([]float64{0}, []float64{800})
	assert.InDelta(t, 800, big, 1e-9)
}
