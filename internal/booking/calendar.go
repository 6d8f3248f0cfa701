package booking

import (
	"fmt"
	"time"
)

// DefaultCalendarMaxVisible caps bookings rendered per day cell.
const DefaultCalendarMaxVisible = 2

// Cell is one day of a projected month.
type Cell struct {
	Day      int       `json:"day"`
	Date     string    `json:"date"`
	Bookings []Booking `json:"bookings"`
	Visible  []Booking `json:"visible"`
	Overflow int       `json:"overflow"`
	IsToday  bool      `json:"is_today"`
}

// MonthGrid is the ordered cell sequence for one month, plus the count of
// leading blanks aligning day 1 under its weekday column (Sunday-first).
type MonthGrid struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"` // zero-based
	LeadingBlanks int    `json:"leading_blanks"`
	Cells         []Cell `json:"cells"`
}

// ProjectMonth maps a year and zero-based month onto day cells annotated
// with the bookings whose date string equals the cell's date. Bookings keep
// their source-list order inside a cell. today drives the is-today flag;
// maxVisible <= 0 falls back to the default cap.
func ProjectMonth(bookings []Booking, year, month int, today time.Time, maxVisible int) MonthGrid {
	if maxVisible <= 0 {
		maxVisible = DefaultCalendarMaxVisible
	}

	// Last day of the month: first day of the following month, stepped back
	// one day. time.Date normalizes the December -> January rollover.
	firstOfNext := time.Date(year, time.Month(month+2), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfNext.AddDate(0, 0, -1).Day()

	firstOfMonth := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	grid := MonthGrid{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(firstOfMonth.Weekday()),
		Cells:         make([]Cell, 0, lastDay),
	}

	byDate := make(map[string][]Booking)
	for _, b := range bookings {
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	for day := 1; day <= lastDay; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
		cell := Cell{
			Day:      day,
			Date:     date,
			Bookings: byDate[date],
			IsToday:  day == today.Day() && month == int(today.Month())-1 && year == today.Year(),
		}
		if cell.Bookings == nil {
			cell.Bookings = []Booking{}
		}
		cell.Visible = cell.Bookings
		if len(cell.Bookings) > maxVisible {
			cell.Visible = cell.Bookings[:maxVisible]
			cell.Overflow = len(cell.Bookings) - maxVisible
		}
		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}
