// Package pace models how a runner's flat pace degrades with terrain and
// distance, and parses the pace inputs a runner provides.
package pace

import (
	"math"

	"github.com/julianstephens/trailpace/internal/constants"
)

// EffectivePace returns the pace in seconds per km for a section, combining
// the fatigue and gradient multipliers. skillIndex may be NaN when unknown.
func EffectivePace(basePaceSecPerKm, skillIndex, currentDistanceKm, totalDistanceKm, gradientPercent float64) float64 {
	p := basePaceSecPerKm
	p *= FatigueMultiplier(skillIndex, currentDistanceKm, totalDistanceKm)
	p *= 1 + GradientAdjustment(gradientPercent)
	return p
}

// FatigueMultiplier returns 1 until the runner is past FatigueOnsetKm on a
// course longer than that, then ramps linearly to 1+MaxFatiguePenalty at the
// finish. A NaN skill index disables fatigue.
func FatigueMultiplier(skillIndex, currentDistanceKm, totalDistanceKm float64) float64 {
	onset := constants.FatigueOnsetKm
	if math.IsNaN(skillIndex) || currentDistanceKm <= onset || totalDistanceKm <= onset {
		return 1
	}

	factor := (currentDistanceKm - onset) / (totalDistanceKm - onset)
	factor = math.Max(0, math.Min(1, factor))

	return 1 + MaxFatiguePenalty(skillIndex)*factor
}

// MaxFatiguePenalty maps a skill index to the slowdown reached at the finish.
func MaxFatiguePenalty(skillIndex float64) float64 {
	switch {
	case skillIndex > 900:
		return 0.05
	case skillIndex > 800:
		return 0.10
	case skillIndex > 700:
		return 0.15
	case skillIndex > 500:
		return 0.40
	case skillIndex > 450:
		return 0.45
	case skillIndex > 400:
		return 0.50
	case skillIndex > 350:
		return 0.55
	case skillIndex > 300:
		return 0.60
	default:
		return 0.70
	}
}

// GradientAdjustment returns the fractional pace change for a section
// gradient in percent. Positive values slow the runner down. A NaN gradient
// counts as flat.
func GradientAdjustment(gradientPercent float64) float64 {
	g := gradientPercent
	switch {
	case math.IsNaN(g):
		return 0
	case g > 30:
		return 4.00
	case g > 25:
		return 3.00
	case g > 20:
		return 2.00
	case g > 15:
		return 1.60
	case g > 10:
		return 0.80
	case g > 5:
		return 0.40
	case g > 2:
		return 0.20
	case g > -5:
		return 0
	case g > -10:
		return -0.20
	case g > -20:
		return -0.05
	case g > -25:
		return -0.25
	default:
		return -0.50
	}
}
