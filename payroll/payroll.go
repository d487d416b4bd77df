// Package payroll turns shift times into worked hours and estimated pay.
package payroll

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultBreakMinutes is charged when a break is flagged without a positive duration.
const DefaultBreakMinutes = 60

const minutesPerDay = 24 * 60

// Shift is the minimal view of a work log the calculator needs.
type Shift struct {
	Start         string
	End           string
	Break         bool
	BreakDuration int
}

// Hours returns the worked hours of the shift after its break.
func (s Shift) Hours() float64 {
	return CalculateDuration(s.Start, s.End, BreakMinutes(s.Break, s.BreakDuration))
}

// ParseClock parses a 24-hour HH:MM string into minutes since midnight.
func ParseClock(v string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// CalculateDuration returns the hours between start and end, rolling end over midnight
// when it is earlier than start. A positive break is subtracted and the result never
// goes below zero. Unparseable times yield 0.
func CalculateDuration(start, end string, breakMinutes int) float64 {
	s, ok := ParseClock(start)
	if !ok {
		return 0
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0
	}
	if e < s {
		e += minutesPerDay
	}

	minutes := e - s
	if breakMinutes > 0 {
		minutes -= breakMinutes
	}
	if minutes <= 0 {
		return 0
	}
	return float64(minutes) / 60
}

// BreakMinutes resolves how long a logged break counts for.
func BreakMinutes(flagged bool, duration int) int {
	if !flagged {
		return 0
	}
	if duration <= 0 {
		return DefaultBreakMinutes
	}
	return duration
}

func TotalHours(shifts []Shift) float64 {
	var total float64
	for _, s := range shifts {
		total += s.Hours()
	}
	return total
}

// MonthlyPay floors once on the total so per-shift fractions are not lost.
func MonthlyPay(totalHours float64, wage int) int64 {
	if totalHours <= 0 || wage <= 0 {
		return 0
	}
	return int64(math.Floor(totalHours * float64(wage)))
}

var printer = message.NewPrinter(language.Korean)

// FormatCurrency renders an amount in won, e.g. ₩105,000.
func FormatCurrency(amount int64) string {
	if amount < 0 {
		return "-₩" + printer.Sprintf("%d", -amount)
	}
	return "₩" + printer.Sprintf("%d", amount)
}
