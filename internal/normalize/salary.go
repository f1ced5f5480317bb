package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// salaryRe matches "$120k - $150k", "USD 120,000-150,000", "€50k" and
// similar forms. Group 1/3 are amounts, optional k suffix in 2/4.
var salaryRe = regexp.MustCompile(`(?i)(?:[$€£]|usd|eur|gbp)?\s*(\d{2,3}(?:[.,]\d{3})*|\d{2,3})\s*(k)?\s*(?:-|–|to)\s*(?:[$€£]|usd|eur|gbp)?\s*(\d{2,3}(?:[.,]\d{3})*|\d{2,3})\s*(k)?`)

var singleSalaryRe = regexp.MustCompile(`(?i)([$€£]|usd|eur|gbp)\s*(\d{2,3}(?:[.,]\d{3})*|\d{2,3})\s*(k)?`)

// ParseSalary extracts an annual compensation range from free text.
// Returns zeros when nothing parseable is found; the same text always
// parses the same way.
func ParseSalary(text string) (min, max int, currency string) {
	if m := salaryRe.FindString(text); m != "" {
		g := salaryRe.FindStringSubmatch(m)
		min = parseAmount(g[1], g[2] != "")
		max = parseAmount(g[3], g[4] != "")
		if min > max {
			min, max = max, min
		}
		currency = detectCurrency(m)
		if plausibleAnnual(min) && plausibleAnnual(max) {
			return min, max, currency
		}
		return 0, 0, ""
	}

	if g := singleSalaryRe.FindStringSubmatch(text); g != nil {
		v := parseAmount(g[2], g[3] != "")
		if plausibleAnnual(v) {
			return v, v, detectCurrency(g[0])
		}
	}
	return 0, 0, ""
}

func parseAmount(s string, thousands bool) int {
	s = strings.NewReplacer(",", "", ".", "").Replace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	if thousands {
		n *= 1000
	}
	return n
}

// plausibleAnnual keeps hourly rates and phone numbers out of the
// salary fields.
func plausibleAnnual(n int) bool {
	return n >= 10000 && n <= 2000000
}

func detectCurrency(s string) string {
	ls := strings.ToLower(s)
	switch {
	case strings.Contains(s, "€") || strings.Contains(ls, "eur"):
		return "EUR"
	case strings.Contains(s, "£") || strings.Contains(ls, "gbp"):
		return "GBP"
	default:
		return "USD"
	}
}
