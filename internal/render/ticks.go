package render

import (
	"math"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
)

// niceTicks generates about n ticks covering [min, max] on 1/2/2.5/5/10 steps.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}

	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	ticks := []chart.Tick{}
	for i := 0; ; i++ {
		v := start + float64(i)*bestStep
		if v > end+bestStep/2 || len(ticks) > n+2 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v, bestStep)})
	}
	return ticks
}

// decadeTicks returns one tick per power of ten spanning [min, max]; min must be positive.
func decadeTicks(min, max float64) []chart.Tick {
	lo := math.Floor(math.Log10(min))
	hi := math.Ceil(math.Log10(max))
	if hi <= lo {
		hi = lo + 1
	}
	ticks := make([]chart.Tick, 0, int(hi-lo)+1)
	for e := lo; e <= hi; e++ {
		v := math.Pow(10, e)
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return ticks
}

func formatTick(v, step float64) string {
	if math.Abs(v) < step/1e6 {
		return "0"
	}
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
		if step*math.Pow10(decimals) != math.Round(step*math.Pow10(decimals)) {
			decimals++
		}
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
