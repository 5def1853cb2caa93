package dialog

import (
	"strings"
	"time"

	"github.com/Fideloin/carrier-bot/trips"
)

const (
	tripDateLayout = "02-01-2006"
	monthLayout    = "01-2006"
)

// ParseTripDate converts user input in DD-MM-YYYY form to storage format.
// A lone "-" means the user skips this leg and yields the sentinel date.
func ParseTripDate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "-" {
		return trips.SentinelDate, nil
	}
	t, err := time.Parse(tripDateLayout, input)
	if err != nil {
		return "", err
	}
	return t.Format(trips.DateFormat), nil
}

// ParseMonth parses MM-YYYY user input into a calendar year and month.
func ParseMonth(input string) (year, month int, err error) {
	t, err := time.Parse(monthLayout, strings.TrimSpace(input))
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), int(t.Month()), nil
}
