package sheet

import "strconv"

// formatNumber renders a float64 using the platform's default
// floating-point representation, spec.md §6's "Number formatting: default
// platform floating-point representation".
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
