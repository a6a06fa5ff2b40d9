package scoring

import "speakscore/internal/util"

// MinDuration is substituted for non-positive audio durations.
const MinDuration = 1e-6

// WordsPerSecond returns the speaking rate with the duration floored at MinDuration.
func WordsPerSecond(words int, durationSec float64) float64 {
	if durationSec < MinDuration {
		durationSec = MinDuration
	}
	return float64(words) / durationSec
}

// FluencyFromRate maps a speaking rate onto [0, 100].
// Below one word per second the score ramps 0 to 50, between one and three it
// ramps 80 to 100, and above three it decays by 20 points per extra word per second.
func FluencyFromRate(rate float64) float64 {
	var score float64
	switch {
	case rate < 1:
		score = rate * 50
	case rate <= 3:
		score = 80 + (rate-1)/2*20
	default:
		score = 100 - (rate-3)*20
	}
	return util.Clamp(score, 0, 100)
}

// FluencyScore scores a transcript of the given word count spoken over durationSec.
func FluencyScore(words int, durationSec float64) float64 {
	return FluencyFromRate(WordsPerSecond(words, durationSec))
}
