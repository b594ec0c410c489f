package calendar

import (
	"fmt"
	"time"
)

var itWeekdays = map[time.Weekday]string{
	time.Monday:    "lunedì",
	time.Tuesday:   "martedì",
	time.Wednesday: "mercoledì",
	time.Thursday:  "giovedì",
	time.Friday:    "venerdì",
	time.Saturday:  "sabato",
	time.Sunday:    "domenica",
}

var itMonths = map[time.Month]string{
	time.January:   "gennaio",
	time.February:  "febbraio",
	time.March:     "marzo",
	time.April:     "aprile",
	time.May:       "maggio",
	time.June:      "giugno",
	time.July:      "luglio",
	time.August:    "agosto",
	time.September: "settembre",
	time.October:   "ottobre",
	time.November:  "novembre",
	time.December:  "dicembre",
}

// FormatSlot renders a start instant the way the dialer reads it to the
// contact, e.g. "lunedì 5 gennaio alle 10:00". If loc != nil the instant is
// converted first.
func FormatSlot(start time.Time, loc *time.Location) string {
	if loc != nil {
		start = start.In(loc)
	}
	return fmt.Sprintf("%s %d %s alle %s",
		itWeekdays[start.Weekday()],
		start.Day(),
		itMonths[start.Month()],
		start.Format("15:04"),
	)
}

// FormatRange renders "lunedì 5 gennaio, 10:00–11:00".
func FormatRange(tr TimeRange, loc *time.Location) string {
	start, end := tr.Start, tr.End
	if loc != nil {
		start = start.In(loc)
		end = end.In(loc)
	}
	return fmt.Sprintf("%s %d %s, %s–%s",
		itWeekdays[start.Weekday()],
		start.Day(),
		itMonths[start.Month()],
		start.Format("15:04"),
		end.Format("15:04"),
	)
}
