package filter

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Threshold is the budget a project must strictly exceed to be announced.
// The text is not currency-normalized.
const Threshold = 500.0

var numberRegex = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// asciiDigits maps Arabic-Indic digits and separators to their ASCII forms.
var asciiDigits = runes.Map(func(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r == '٬':
		return ','
	case r == '٫':
		return '.'
	}
	return r
})

func normalizeDigits(text string) string {
	t := transform.Chain(norm.NFKC, asciiDigits)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// Numbers extracts every decimal number in text, thousands separators removed.
func Numbers(text string) []float64 {
	var nums []float64
	for _, m := range numberRegex.FindAllString(normalizeDigits(text), -1) {
		f, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			continue
		}
		nums = append(nums, f)
	}
	return nums
}

// IsOverThreshold reports whether the largest number in a free-form budget
// ("$250 - $750", "500 - 1000$") is strictly greater than Threshold.
// Text without any number ("Negotiable") is not over.
func IsOverThreshold(budgetText string) bool {
	nums := Numbers(budgetText)
	if len(nums) == 0 {
		return false
	}
	max := nums[0]
	for _, n := range nums[1:] {
		if n > max {
			max = n
		}
	}
	return max > Threshold
}
