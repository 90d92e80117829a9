package planning

import "time"

const isoDate = "2006-01-02"

// RangeSelector names a logical period relative to a reference date.
type RangeSelector string

const (
	SelectorCurrentWeek   RangeSelector = "current_week"
	SelectorLastWeek      RangeSelector = "last_week"
	SelectorTwoWeeksAgo   RangeSelector = "2_weeks_ago"
	SelectorThreeWeeksAgo RangeSelector = "3_weeks_ago"
	SelectorCurrentMonth  RangeSelector = "current_month"
	SelectorLastMonth     RangeSelector = "last_month"
)

// ParseSelector maps user input onto a selector. Unrecognized values fall
// back to the current week rather than erroring.
func ParseSelector(value string) RangeSelector {
	switch RangeSelector(value) {
	case SelectorCurrentWeek, SelectorLastWeek, SelectorTwoWeeksAgo,
		SelectorThreeWeeksAgo, SelectorCurrentMonth, SelectorLastMonth:
		return RangeSelector(value)
	}
	return SelectorCurrentWeek
}

// IsMonth reports whether the selector resolves to a calendar month.
func (selector RangeSelector) IsMonth() bool {
	return selector == SelectorCurrentMonth || selector == SelectorLastMonth
}

// Day is a derived value object for one calendar date on the grid. It is
// recomputed from the resolved range on every render, never persisted.
type Day struct {
	Date         time.Time `json:"-"`
	ISO          string    `json:"iso"`
	IsToday      bool      `json:"is_today"`
	WeekdayLabel string    `json:"weekday_label"`
	MonthLabel   string    `json:"month_label"`
	DayOfMonth   int       `json:"day_of_month"`
}

// ResolveRange computes the inclusive [start, end] interval for a selector.
// Week selectors yield a Monday-to-Sunday week; month selectors the full
// calendar month containing (or preceding) the reference date.
func ResolveRange(selector RangeSelector, reference time.Time) (time.Time, time.Time) {
	reference = atMidnight(reference)

	switch selector {
	case SelectorLastWeek:
		start := startOfWeek(reference).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 6)
	case SelectorTwoWeeksAgo:
		start := startOfWeek(reference).AddDate(0, 0, -14)
		return start, start.AddDate(0, 0, 6)
	case SelectorThreeWeeksAgo:
		start := startOfWeek(reference).AddDate(0, 0, -21)
		return start, start.AddDate(0, 0, 6)
	case SelectorCurrentMonth:
		start := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location())
		return start, start.AddDate(0, 1, -1)
	case SelectorLastMonth:
		start := time.Date(reference.Year(), reference.Month(), 1, 0, 0, 0, 0, reference.Location()).AddDate(0, -1, 0)
		return start, start.AddDate(0, 1, -1)
	default:
		start := startOfWeek(reference)
		return start, start.AddDate(0, 0, 6)
	}
}

// startOfWeek returns the Monday of the week containing the date.
func startOfWeek(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

func atMidnight(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// EnumerateDays expands the inclusive interval into one Day per calendar
// date, tagging the day matching the reference date as today.
func EnumerateDays(start time.Time, end time.Time, reference time.Time) []Day {
	start = atMidnight(start)
	end = atMidnight(end)
	todayKey := reference.Format(isoDate)

	var days []Day
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		days = append(days, Day{
			Date:         date,
			ISO:          date.Format(isoDate),
			IsToday:      date.Format(isoDate) == todayKey,
			WeekdayLabel: date.Weekday().String(),
			MonthLabel:   date.Month().String(),
			DayOfMonth:   date.Day(),
		})
	}
	return days
}

// BuildCalendarWeeks chunks a month's days into Monday-first rows of exactly
// seven cells, nil-padded at both ends. Downstream rendering relies on the
// positional alignment, so padding cells stay nil rather than carrying dates
// from adjacent months.
func BuildCalendarWeeks(days []Day) [][]*Day {
	if len(days) == 0 {
		return nil
	}

	var weeks [][]*Day
	week := make([]*Day, 0, 7)

	leading := (int(days[0].Date.Weekday()) + 6) % 7
	for i := 0; i < leading; i++ {
		week = append(week, nil)
	}

	for index := range days {
		week = append(week, &days[index])
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]*Day, 0, 7)
		}
	}

	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, nil)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
