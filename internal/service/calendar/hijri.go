package calendar

import "time"

// Arithmetic (tabular) Islamic calendar conversion. The civil variant is
// deterministic: a 30-year cycle with 11 leap years and alternating 30/29
// day months, Dhu al-Hijjah gaining a day in leap years. Observation-based
// announcements can shift real holidays by a day; dated entries in the
// holiday store take precedence when HR records them.

const hijriEpochJDN = 1948440 // 1 Muharram 1 AH, civil epoch

var hijriLeapYears = map[int]bool{
	2: true, 5: true, 7: true, 10: true, 13: true, 16: true,
	18: true, 21: true, 24: true, 26: true, 29: true,
}

func isHijriLeapYear(year int) bool {
	y := year % 30
	if y <= 0 {
		y += 30
	}
	return hijriLeapYears[y]
}

// hijriMonthDays returns the length of a Hijri month (1-12).
func hijriMonthDays(year, month int) int {
	if month%2 == 1 {
		return 30
	}
	if month == 12 && isHijriLeapYear(year) {
		return 30
	}
	return 29
}

// hijriToJDN converts a civil Hijri date to a Julian day number.
func hijriToJDN(year, month, day int) int {
	return day +
		(month-1)*29 + month/2 + // alternating 30/29 months before this one
		(year-1)*354 +
		(3+11*year)/30 + // leap days in completed years
		hijriEpochJDN - 1
}

// jdnToHijri converts a Julian day number to a civil Hijri date.
func jdnToHijri(jdn int) (year, month, day int) {
	year = (30*(jdn-hijriEpochJDN) + 10646) / 10631
	month = 1
	for month < 12 && jdn >= hijriToJDN(year, month+1, 1) {
		month++
	}
	day = jdn - hijriToJDN(year, month, 1) + 1
	return year, month, day
}

// gregorianToJDN converts a Gregorian calendar date to a Julian day number.
func gregorianToJDN(year int, month time.Month, day int) int {
	a := (14 - int(month)) / 12
	y := year + 4800 - a
	m := int(month) + 12*a - 3
	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// jdnToGregorian converts a Julian day number to a Gregorian calendar date.
func jdnToGregorian(jdn int) (int, time.Month, int) {
	a := jdn + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	d := (4*c + 3) / 1461
	e := c - 1461*d/4
	m := (5*e + 2) / 153
	day := e - (153*m+2)/5 + 1
	month := m + 3 - 12*(m/10)
	year := 100*b + d - 4800 + m/10
	return year, time.Month(month), day
}

// hijriToDate converts a civil Hijri date to a UTC-midnight time.Time.
func hijriToDate(year, month, day int) time.Time {
	gy, gm, gd := jdnToGregorian(hijriToJDN(year, month, day))
	return time.Date(gy, gm, gd, 0, 0, 0, 0, time.UTC)
}

// dateToHijri converts a time.Time to its civil Hijri date.
func dateToHijri(t time.Time) (year, month, day int) {
	return jdnToHijri(gregorianToJDN(t.Year(), t.Month(), t.Day()))
}
