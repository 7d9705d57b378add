package loader

import (
	"math"
	"math/rand"
	"sort"

	"github.com/rotisserie/eris"
)

// TestCount returns ceil(testSize*n), the number of rows held out for testing.
func TestCount(n int, testSize float64) int {
	return int(math.Ceil(testSize * float64(n)))
}

// TrainTestSplit shuffles the row indices 0..n-1 with a seeded source and
// holds out ceil(testSize*n) of them for testing.
func TrainTestSplit(n int, testSize float64, seed int64) (train, test []int, err error) {
	nTest, err := checkSizes(n, testSize)
	if err != nil {
		return nil, nil, err
	}
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	test = append([]int(nil), indices[:nTest]...)
	train = append([]int(nil), indices[nTest:]...)
	return train, test, nil
}

// StratifiedSplit splits row indices so that the class proportions of y are
// preserved in both parts. The test part holds ceil(testSize*n) rows; each
// class gets its proportional share rounded down, and the leftover rows go to
// the classes with the largest remainders (lowest label first on ties).
func StratifiedSplit(y []int, testSize float64, seed int64) (train, test []int, err error) {
	n := len(y)
	nTest, err := checkSizes(n, testSize)
	if err != nil {
		return nil, nil, err
	}

	byClass := map[int][]int{}
	for i, label := range y {
		byClass[label] = append(byClass[label], i)
	}
	classes := make([]int, 0, len(byClass))
	for c, members := range byClass {
		if len(members) < 2 {
			return nil, nil, eris.Errorf("split: class %d has %d member, need at least 2", c, len(members))
		}
		classes = append(classes, c)
	}
	sort.Ints(classes)
	if nTest < len(classes) || n-nTest < len(classes) {
		return nil, nil, eris.Errorf("split: %d test and %d train rows cannot hold %d classes", nTest, n-nTest, len(classes))
	}

	alloc := allocate(classes, byClass, nTest, n)

	rng := rand.New(rand.NewSource(seed))
	for _, c := range classes {
		members := byClass[c]
		perm := rng.Perm(len(members))
		for k, p := range perm {
			if k < alloc[c] {
				test = append(test, members[p])
			} else {
				train = append(train, members[p])
			}
		}
	}
	rng.Shuffle(len(test), func(i, j int) { test[i], test[j] = test[j], test[i] })
	rng.Shuffle(len(train), func(i, j int) { train[i], train[j] = train[j], train[i] })
	return train, test, nil
}

// allocate distributes total rows across classes by largest remainder.
func allocate(classes []int, byClass map[int][]int, total, n int) map[int]int {
	type share struct {
		class int
		rem   float64
	}
	alloc := make(map[int]int, len(classes))
	shares := make([]share, 0, len(classes))
	assigned := 0
	for _, c := range classes {
		exact := float64(total) * float64(len(byClass[c])) / float64(n)
		whole := int(math.Floor(exact))
		alloc[c] = whole
		assigned += whole
		shares = append(shares, share{class: c, rem: exact - float64(whole)})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].rem > shares[j].rem })
	for i := 0; assigned < total; i = (i + 1) % len(shares) {
		c := shares[i].class
		if alloc[c] < len(byClass[c]) {
			alloc[c]++
			assigned++
		}
	}
	return alloc
}

func checkSizes(n int, testSize float64) (int, error) {
	if testSize <= 0 || testSize >= 1 {
		return 0, eris.Errorf("split: test size %v must be in (0, 1)", testSize)
	}
	nTest := TestCount(n, testSize)
	if nTest < 1 || nTest >= n {
		return 0, eris.Errorf("split: %d rows cannot be split with test size %v", n, testSize)
	}
	return nTest, nil
}

// Take returns the elements of xs at the given indices.
func Take[T any](xs []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = xs[j]
	}
	return out
}
