package model

// BinaryPredFromProba returns 1 where the probability is above threshold.
func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > threshold {
			out[i] = 1
		}
	}
	return out
}

// Accuracy is the fraction of matching labels; 0 for empty input.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// ConfusionMatrix is the 2x2 matrix [[TN FP] [FN TP]], rows true, columns predicted.
type ConfusionMatrix [2][2]int

// Confusion counts true/predicted label pairs.
func Confusion(yTrue, yPred []int) ConfusionMatrix {
	var cm ConfusionMatrix
	for i := range yTrue {
		cm[yTrue[i]][yPred[i]]++
	}
	return cm
}

func (cm ConfusionMatrix) TN() int { return cm[0][0] }
func (cm ConfusionMatrix) FP() int { return cm[0][1] }
func (cm ConfusionMatrix) FN() int { return cm[1][0] }
func (cm ConfusionMatrix) TP() int { return cm[1][1] }

// PrecisionRecallF1 scores class 1; a zero denominator yields 0.
func PrecisionRecallF1(yTrue []int, yPred []int) (prec, rec, f1 float64) {
	s := Confusion(yTrue, yPred).classScores(1)
	return s.Precision, s.Recall, s.F1
}

// ClassScores are the per-class rows of a classification report.
type ClassScores struct {
	Label     string  `yaml:"label"`
	Precision float64 `yaml:"precision"`
	Recall    float64 `yaml:"recall"`
	F1        float64 `yaml:"f1"`
	Support   int     `yaml:"support"`
}

// ClassificationReport mirrors the usual per-class precision/recall/F1 table
// with accuracy and macro and weighted averages.
type ClassificationReport struct {
	Classes     []ClassScores `yaml:"classes"`
	Accuracy    float64       `yaml:"accuracy"`
	Support     int           `yaml:"support"`
	MacroAvg    ClassScores   `yaml:"macro_avg"`
	WeightedAvg ClassScores   `yaml:"weighted_avg"`
}

// classScores computes precision, recall and F1 treating class c as positive.
func (cm ConfusionMatrix) classScores(c int) ClassScores {
	other := 1 - c
	tp := cm[c][c]
	fp := cm[other][c]
	fn := cm[c][other]
	s := ClassScores{Support: tp + fn}
	if tp+fp > 0 {
		s.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		s.Recall = float64(tp) / float64(tp+fn)
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	return s
}

// Report builds the classification report for labels 0 and 1.
func Report(yTrue, yPred []int) ClassificationReport {
	cm := Confusion(yTrue, yPred)
	r := ClassificationReport{Accuracy: Accuracy(yTrue, yPred), Support: len(yTrue)}
	r.MacroAvg.Label = "macro avg"
	r.WeightedAvg.Label = "weighted avg"
	r.MacroAvg.Support, r.WeightedAvg.Support = len(yTrue), len(yTrue)

	for c, label := range []string{"0", "1"} {
		s := cm.classScores(c)
		s.Label = label
		r.Classes = append(r.Classes, s)

		r.MacroAvg.Precision += s.Precision / 2
		r.MacroAvg.Recall += s.Recall / 2
		r.MacroAvg.F1 += s.F1 / 2
		if len(yTrue) > 0 {
			w := float64(s.Support) / float64(len(yTrue))
			r.WeightedAvg.Precision += w * s.Precision
			r.WeightedAvg.Recall += w * s.Recall
			r.WeightedAvg.F1 += w * s.F1
		}
	}
	return r
}
