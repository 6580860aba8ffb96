package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dm/painel/internal/client"
)

// FormatBytes formats a byte count into a human-readable string with 1 decimal place.
// Thresholds: <1KB → B, <1MB → KB, <1GB → MB, <1TB → GB, else TB.
func FormatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
		tb = gb * 1024
	)
	switch {
	case bytes < kb:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mb:
		return decimalComma(fmt.Sprintf("%.1f KB", float64(bytes)/kb))
	case bytes < gb:
		return decimalComma(fmt.Sprintf("%.1f MB", float64(bytes)/mb))
	case bytes < tb:
		return decimalComma(fmt.Sprintf("%.1f GB", float64(bytes)/gb))
	default:
		return decimalComma(fmt.Sprintf("%.1f TB", float64(bytes)/tb))
	}
}

// FormatNumber formats a value the pt-BR way: "." between thousands, ","
// before decimals, at most 3 decimals with trailing zeros dropped.
// Example: 1234567.5 → "1.234.567,5". NaN and ±Inf return "0".
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', 3, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	frac = strings.TrimRight(frac, "0")
	if intPart == "0" && frac == "" {
		sign = ""
	}
	out := sign + insertDots(intPart)
	if frac != "" {
		out += "," + frac
	}
	return out
}

// FormatLargeNumber abbreviates values of a thousand or more with K or M and
// one decimal. Example: 1234 → "1,2K", 3400000 → "3,4M".
func FormatLargeNumber(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "0"
	case v >= 1_000_000:
		return decimalComma(fmt.Sprintf("%.1fM", v/1_000_000))
	case v >= 1_000:
		return decimalComma(fmt.Sprintf("%.1fK", v/1_000))
	}
	return FormatNumber(v)
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34,5%".
func FormatPercent(p float64) string {
	return decimalComma(fmt.Sprintf("%.1f%%", p))
}

var monthAbbr = [...]string{"", "Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// PeriodUnavailable is shown when the API reported no period.
const PeriodUnavailable = "Período não disponível"

func month(m *int) string {
	if m == nil || *m < 1 || *m > 12 {
		return ""
	}
	return monthAbbr[*m]
}

// FormatPeriod renders the data period as "Jan/2020 - Dez/2023". A period in
// a single year without both months collapses to the year; a missing month
// falls back to the bare year on that side.
func FormatPeriod(p client.Period) string {
	if !p.Known() {
		return PeriodUnavailable
	}
	ini, fim := *p.AnoInicio, *p.AnoFim
	mi, mf := month(p.MesInicio), month(p.MesFim)

	if ini == fim {
		if mi != "" && mf != "" {
			return fmt.Sprintf("%s/%d - %s/%d", mi, ini, mf, fim)
		}
		return strconv.Itoa(ini)
	}

	start := strconv.Itoa(ini)
	if mi != "" {
		start = mi + "/" + start
	}
	end := strconv.Itoa(fim)
	if mf != "" {
		end = mf + "/" + end
	}
	return start + " - " + end
}

// FormatYearMonth renders "2023-04" as "Abr/2023". Unparsable input is
// returned unchanged.
func FormatYearMonth(ym string) string {
	y, m, ok := strings.Cut(ym, "-")
	if !ok {
		return ym
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 || n > 12 {
		return ym
	}
	return monthAbbr[n] + "/" + y
}

// FormatAge renders an elapsed duration coarsely: "agora", "5 min", "3 h 10 min", "2 d 4 h".
func FormatAge(d time.Duration) string {
	if d < time.Minute {
		return "agora"
	}
	d = d.Truncate(time.Minute)
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	mins := int(d % time.Hour / time.Minute)
	switch {
	case days > 0:
		return fmt.Sprintf("%d d %d h", days, hours)
	case hours > 0 && mins > 0:
		return fmt.Sprintf("%d h %d min", hours, mins)
	case hours > 0:
		return fmt.Sprintf("%d h", hours)
	default:
		return fmt.Sprintf("%d min", mins)
	}
}

// decimalComma swaps the decimal point for a comma.
func decimalComma(s string) string {
	return strings.Replace(s, ".", ",", 1)
}

// insertDots inserts dot separators into a digit string every 3 digits from the right.
func insertDots(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
