// Package workcal holds the calendar primitives shared by attendance and
// leave: wall-clock shift times, weekday sets and civil dates.
package workcal

import (
	"fmt"
	"sort"
	"time"
)

// ClockTime is a wall-clock time of day in minutes after midnight.
type ClockTime int

func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q, expected HH:MM", s)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func (c ClockTime) Valid() bool {
	return c >= 0 && c < 24*60
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On returns the instant at which the clock reads c on the given civil date in loc.
func (c ClockTime) On(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), int(c)/60, int(c)%60, 0, 0, loc)
}

// WeekdaySet is a set of weekdays. The zero value is empty.
type WeekdaySet uint8

// Workweek is Monday through Friday.
const Workweek WeekdaySet = 1<<time.Monday | 1<<time.Tuesday | 1<<time.Wednesday | 1<<time.Thursday | 1<<time.Friday

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << d
	}
	return s
}

// WeekdaySetFromISO builds a set from ISO weekday numbers (1 = Monday, 7 = Sunday).
func WeekdaySetFromISO(days []int) (WeekdaySet, error) {
	weekdays := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if d < 1 || d > 7 {
			return 0, fmt.Errorf("invalid ISO weekday %d", d)
		}
		weekdays = append(weekdays, time.Weekday(d%7))
	}
	return NewWeekdaySet(weekdays...), nil
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<d) != 0
}

// ISO returns the members as sorted ISO weekday numbers.
func (s WeekdaySet) ISO() []int {
	days := make([]int, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			iso := int(d)
			if d == time.Sunday {
				iso = 7
			}
			days = append(days, iso)
		}
	}
	sort.Ints(days)
	return days
}

// Date returns the civil date y-m-d as midnight UTC, the representation used
// for DATE columns.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the civil date on which instant t falls in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return Date(y, m, d)
}

// DayBounds returns the half-open interval [start, end) covering the civil
// date in loc. It handles days that are not 24 hours long.
func DayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}

// AddDays moves a civil date by n days.
func AddDays(date time.Time, n int) time.Time {
	return Date(date.Year(), date.Month(), date.Day()+n)
}
