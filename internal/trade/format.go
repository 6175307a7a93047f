package trade

import "strings"

// FormatAmount groups thousands and keeps at most three decimals
// (1000000.5 -> "1,000,000.5"). Unknown amounts print their raw text.
// Digits come from the decimal itself, so large notionals stay exact.
func FormatAmount(a Amount) string {
	d, ok := a.Decimal()
	if !ok {
		if a.Text() == "" {
			return NotMentioned
		}
		return a.Text()
	}
	s := d.Round(3).String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	out := sign + groupThousands(whole)
	if frac = strings.TrimRight(frac, "0"); frac != "" {
		out += "." + frac
	}
	return out
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatRate prints numeric rates as a percentage and reference rates
// ("ICP-CLP", "SOFR") verbatim.
func FormatRate(a Amount) string {
	d, ok := a.Decimal()
	if !ok {
		if a.Text() == "" {
			return NotMentioned
		}
		return a.Text()
	}
	return d.String() + "%"
}

// FormatPrice prints an FX price as quoted.
func FormatPrice(a Amount) string {
	if d, ok := a.Decimal(); ok {
		return d.String()
	}
	if a.Text() == "" {
		return NotMentioned
	}
	return a.Text()
}

func orNotMentioned(s string) string {
	if !mentioned(s) {
		return NotMentioned
	}
	return s
}
