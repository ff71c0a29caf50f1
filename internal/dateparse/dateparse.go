// Package dateparse parses human-written historical dates, including
// prehistoric BC dates, and computes elapsed-time figures for them.
package dateparse

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrUnparseable indicates a date string matching no known format.
	ErrUnparseable = errors.New("dateparse: unparseable date")

	// ErrInvalidRange indicates a range string without a recognized
	// separator, or a range running backwards in time.
	ErrInvalidRange = errors.New("dateparse: invalid date range")
)

// Era distinguishes BC dates, which carry only a year count, from AD
// dates backed by a full calendar time.
type Era int

const (
	AD Era = iota
	BC
)

// Date is a parsed historical date. For AD dates Time holds the
// calendar value; for BC dates only Year is meaningful and counts
// years before year 1.
type Date struct {
	Era  Era
	Year int
	Time time.Time
}

// daysPerYear averages leap years for year-distance math.
const daysPerYear = 365.25

var (
	// "10,000 BC", "1.4 million BC", "50000 BCE"
	bcPattern = regexp.MustCompile(`(?i)^([\d,]+(?:\.\d+)?)\s*(million)?\s*(?:BC|BCE)$`)

	// "AD 79"
	adPrefixPattern = regexp.MustCompile(`(?i)^AD\s+(\d{1,4})$`)

	// Bare year, e.g. "1986" or "20000"
	bareYearPattern = regexp.MustCompile(`^\d{1,6}$`)
)

// adLayouts lists accepted calendar formats, tried in order.
var adLayouts = []string{
	"2006-01-02",
	"2006-01",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2006",
	"Jan 2006",
	"2006/01/02",
}

// Parse parses a single date string. Accepted forms: ISO dates
// (2006-01-02, 2006-01), natural dates ("July 16, 1969"), bare years,
// AD-prefixed years ("AD 79"), and BC dates ("10,000 BC",
// "1.4 million BC"). A bare year resolves to July 1, the midpoint of
// the year, so elapsed-time figures are not biased toward either end.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, fmt.Errorf("%w: empty string", ErrUnparseable)
	}

	if m := bcPattern.FindStringSubmatch(s); m != nil {
		num := strings.ReplaceAll(m[1], ",", "")
		value, err := strconv.ParseFloat(num, 64)
		if err != nil || value <= 0 {
			return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		if m[2] != "" {
			value *= 1e6
		}
		return Date{Era: BC, Year: int(math.Round(value))}, nil
	}

	if m := adPrefixPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		return midYear(year), nil
	}

	if bareYearPattern.MatchString(s) {
		year, err := strconv.Atoi(s)
		if err != nil || year == 0 {
			return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
		}
		return midYear(year), nil
	}

	for _, layout := range adLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Era: AD, Year: t.Year(), Time: t}, nil
		}
	}

	return Date{}, fmt.Errorf("%w: %q", ErrUnparseable, s)
}

func midYear(year int) Date {
	return Date{
		Era:  AD,
		Year: year,
		Time: time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
}

// rangeSeparators in matching priority. The hyphen form applies only
// to four-digit year pairs so ISO dates are not split at their own
// hyphens.
var rangeSeparators = []string{"–", "—", "--", " to "}

var hyphenYearRange = regexp.MustCompile(`^(\d{4})\s*-\s*(\d{4})$`)

// SplitRange splits a range string like "1914–1918", "44 BC to AD 14"
// or "1939-1945" into its start and end parts.
func SplitRange(s string) (start, end string, err error) {
	s = strings.TrimSpace(s)
	for _, sep := range rangeSeparators {
		if before, after, found := strings.Cut(s, sep); found {
			before, after = strings.TrimSpace(before), strings.TrimSpace(after)
			if before != "" && after != "" {
				return before, after, nil
			}
		}
	}
	if m := hyphenYearRange.FindStringSubmatch(s); m != nil {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("%w: no separator in %q", ErrInvalidRange, s)
}

// YearsBetween returns the rounded number of years between two
// calendar times, averaging leap years.
func YearsBetween(from, to time.Time) int {
	days := to.Sub(from).Hours() / 24
	return int(math.Round(days / daysPerYear))
}

// YearsAgo returns how many years before now the date lies. For BC
// dates the AD year count and BC year count are added; the missing
// year zero is negligible at BC magnitudes.
func (d Date) YearsAgo(now time.Time) int {
	if d.Era == BC {
		return d.Year + now.Year()
	}
	return YearsBetween(d.Time, now)
}

// YearsUntil returns the duration in years from d to end. A BC to AD
// span subtracts one because the calendar has no year zero. Ranges
// running from AD back to BC are rejected.
func (d Date) YearsUntil(end Date) (int, error) {
	switch {
	case d.Era == BC && end.Era == BC:
		if end.Year > d.Year {
			return 0, fmt.Errorf("%w: end precedes start", ErrInvalidRange)
		}
		return d.Year - end.Year, nil
	case d.Era == BC && end.Era == AD:
		return d.Year + end.Year - 1, nil
	case d.Era == AD && end.Era == BC:
		return 0, fmt.Errorf("%w: AD start with BC end", ErrInvalidRange)
	default:
		years := YearsBetween(d.Time, end.Time)
		if years < 0 {
			return 0, fmt.Errorf("%w: end precedes start", ErrInvalidRange)
		}
		return years, nil
	}
}

// FormatYears renders a year count compactly: exact below ten
// thousand, thousands ("kya") up to a million, millions ("mya")
// beyond. Precision decreases with magnitude. When duration is true
// the unit drops the "ago" suffix ("ky" instead of "kya").
func FormatYears(years int, duration bool) string {
	unit, kilo, mega := "ya", "kya", "mya"
	if duration {
		unit, kilo, mega = "y", "ky", "my"
	}

	switch {
	case years < 10_000:
		return fmt.Sprintf("%d%s", years, unit)
	case years < 100_000:
		rounded := int(math.Round(float64(years)/100)) * 100
		return formatScaled(float64(rounded)/1000, kilo)
	case years < 1_000_000:
		rounded := int(math.Round(float64(years)/1000)) * 1000
		return fmt.Sprintf("%d%s", rounded/1000, kilo)
	default:
		rounded := int(math.Round(float64(years)/100_000)) * 100_000
		return formatScaled(float64(rounded)/1e6, mega)
	}
}

func formatScaled(value float64, unit string) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%d%s", int(value), unit)
	}
	return fmt.Sprintf("%.1f%s", value, unit)
}
