package entities

import (
	"math"
	"strconv"
)

// FormatPercent renders a [0,1] ratio as a percentage with one decimal place.
// The product is first rounded to micro-precision so that float noise such as
// 0.8765*100 = 87.64999... still rounds half-up to "87.7%".
func FormatPercent(ratio float64) string {
	if math.IsNaN(ratio) {
		ratio = 0
	}
	pct := math.Round(ratio*100*1e6) / 1e6
	pct = math.Round(pct*10) / 10
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

// ClampConfidence bounds a confidence score to [0,1].
func ClampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}
