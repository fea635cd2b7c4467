// Package scoring derives the accuracy and score percentages stored with every
// study session and normalizes the loosely typed counts clients submit.
package scoring

import "math"

const (
	MinPercent = 0
	MaxPercent = 100
)

// Percent returns round(correct/total*100) clamped to [0,100]. A non-positive
// total yields 0; negative counts are treated as 0.
func Percent(correct, total int) int {
	if correct < 0 {
		correct = 0
	}
	if total <= 0 {
		return 0
	}
	p := math.Round(float64(correct) / float64(total) * 100)
	return Clamp(int(p))
}

// Accuracy is the share of correct answers over the cards of a session.
func Accuracy(correct, total int) int {
	return Percent(correct, total)
}

// Score returns the explicit score when the client supplied one, clamped to
// [0,100], and falls back to the accuracy otherwise.
func Score(correct, total int, explicit *int) int {
	if explicit != nil {
		return Clamp(*explicit)
	}
	return Percent(correct, total)
}

// Mean returns round(sum/n) clamped to [0,100], or 0 when n is not positive.
func Mean(sum, n int) int {
	if n <= 0 {
		return 0
	}
	return Clamp(int(math.Round(float64(sum) / float64(n))))
}

// Clamp bounds p to [0,100].
func Clamp(p int) int {
	switch {
	case p < MinPercent:
		return MinPercent
	case p > MaxPercent:
		return MaxPercent
	}
	return p
}
