package model

import "math/rand"

// generateBlobs returns two Gaussian clouds in nFeatures dimensions centred
// at -sep and +sep on every axis; labels alternate 0/1.
func generateBlobs(n, nFeatures int, sep float64, seed int64) ([][]float64, []int) {
	rnd := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		y[i] = i % 2
		center := -sep
		if y[i] == 1 {
			center = sep
		}
		X[i] = make([]float64, nFeatures)
		for j := range X[i] {
			X[i][j] = center + rnd.NormFloat64()
		}
	}
	return X, y
}
