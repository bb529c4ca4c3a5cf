package worklog

import (
	"fmt"
	"strconv"
)

// FormatSeconds renders a duration either as clock time ("2:30") or as decimal hours ("2.5h").
func FormatSeconds(secs int, clock bool) string {
	sign := ""
	if secs < 0 {
		sign = "-"
		secs = -secs
	}
	if clock {
		minutes := secs / 60
		return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
	}
	hours := float64(secs) / 3600
	return sign + strconv.FormatFloat(roundTo(hours, 2), 'f', -1, 64) + "h"
}

func roundTo(value float64, decimals int) float64 {
	factor := 1.0
	for range decimals {
		factor *= 10
	}
	return float64(int64(value*factor+0.5)) / factor
}
