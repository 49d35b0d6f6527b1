package mix

import "github.com/mamadbah2/concreto/internal/domain/models"

const (
	highCementThreshold = 40
	highWaterThreshold  = 25

	msgBeginner     = "Standard mix recommended for beginners."
	msgHighStrength = "High strength mix recommended based on your history."
	msgReduceWater  = "Consider reducing water content for better strength."
	msgStandard     = "Standard mix recommended based on your history."
)

var (
	standardMix     = models.MixComposition{Cement: 35, Sand: 45, Water: 20}
	highStrengthMix = models.MixComposition{Cement: 40, Sand: 45, Water: 15}
)

// Recommend derives the next suggested mix from history ordered newest first.
// Only the most recent record is consulted.
func Recommend(history []models.MixRecord) models.Recommendation {
	if len(history) == 0 {
		return models.Recommendation{Recommended: standardMix, Message: msgBeginner}
	}

	latest := history[0]
	switch {
	case latest.Cement > highCementThreshold:
		return models.Recommendation{Recommended: highStrengthMix, Message: msgHighStrength}
	case latest.Water > highWaterThreshold:
		return models.Recommendation{Recommended: standardMix, Message: msgReduceWater}
	default:
		return models.Recommendation{Recommended: standardMix, Message: msgStandard}
	}
}
