package interp

import (
	"strconv"
	"strings"
)

// formatNumber expands an ordinal template: %d decimal, %a/%A letters,
// %i/%I roman numerals, %% a percent sign.
func formatNumber(tmpl string, n int) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '%' || i+1 == len(tmpl) {
			b.WriteByte(c)
			continue
		}
		i++
		switch tmpl[i] {
		case 'd':
			b.WriteString(strconv.Itoa(n))
		case 'a':
			b.WriteString(alpha(n, false))
		case 'A':
			b.WriteString(alpha(n, true))
		case 'i':
			b.WriteString(roman(int64(n), false))
		case 'I':
			b.WriteString(roman(int64(n), true))
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteByte(tmpl[i])
		}
	}
	return b.String()
}

// alpha is bijective base 26: 1=a, 26=z, 27=aa.
func alpha(n int, upper bool) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	base := byte('a')
	if upper {
		base = 'A'
	}
	var out []byte
	for n > 0 {
		n--
		out = append(out, base+byte(n%26))
		n /= 26
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

var romanDigits = []struct {
	v int64
	s string
}{
	{1000, "m"}, {900, "cm"}, {500, "d"}, {400, "cd"},
	{100, "c"}, {90, "xc"}, {50, "l"}, {40, "xl"},
	{10, "x"}, {9, "ix"}, {5, "v"}, {4, "iv"}, {1, "i"},
}

// roman falls back to decimal outside 1..3999.
func roman(n int64, upper bool) string {
	if n <= 0 || n >= 4000 {
		return strconv.FormatInt(n, 10)
	}
	var b strings.Builder
	for _, d := range romanDigits {
		for n >= d.v {
			b.WriteString(d.s)
			n -= d.v
		}
	}
	if upper {
		return strings.ToUpper(b.String())
	}
	return b.String()
}
