// Package epiweek implements the MMWR epidemiological week calendar.
//
// MMWR weeks run Sunday through Saturday. Week 1 of a year is the first week
// with at least four days in that calendar year, i.e. the week containing
// January 4th. A year therefore has either 52 or 53 weeks.
package epiweek

import "time"

// SeasonStartWeek is the first epiweek of a flu season.
const SeasonStartWeek = 40

// YearStart returns the Sunday on which MMWR week 1 of year begins.
func YearStart(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	return jan4.AddDate(0, 0, -int(jan4.Weekday()))
}

// WeeksInYear returns the number of MMWR weeks in year (52 or 53).
func WeeksInYear(year int) int {
	days := YearStart(year+1).Sub(YearStart(year)).Hours() / 24
	return int(days) / 7
}

// FromDate returns the MMWR year and week that contain t.
func FromDate(t time.Time) (year, week int) {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	year = d.Year()
	switch {
	case d.Before(YearStart(year)):
		year--
	case !d.Before(YearStart(year + 1)):
		year++
	}
	week = int(d.Sub(YearStart(year)).Hours()/24)/7 + 1
	return year, week
}
