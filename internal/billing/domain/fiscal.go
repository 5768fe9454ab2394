package domain

import "time"

// The Ethiopian fiscal year begins on Hamle 1, which falls on 8 July
// (9 July in the year before a leap year; the civil calendar uses the
// fixed Gregorian marker below). The marker is configurable through the
// registry config; these are the defaults.
const (
	DefaultFiscalYearStartMonth = 7
	DefaultFiscalYearStartDay   = 8
)

// FiscalYearAt returns the fiscal year containing t under the default
// start marker, labeled by the Gregorian year in which the fiscal year
// starts.
func FiscalYearAt(t time.Time) int {
	return FiscalYearOn(t, DefaultFiscalYearStartMonth, DefaultFiscalYearStartDay)
}

// FiscalYearOn is FiscalYearAt with an explicit Gregorian start marker.
func FiscalYearOn(t time.Time, startMonth, startDay int) int {
	t = t.UTC()
	start := time.Date(t.Year(), time.Month(startMonth), startDay, 0, 0, 0, 0, time.UTC)
	if t.Before(start) {
		return t.Year() - 1
	}
	return t.Year()
}
