package ledger

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the strict user-facing date format.
const DateLayout = "02/01/2006"

var ErrBadDate = errors.New("please enter the date in format DD/MM/YYYY")

// CheckDate validates a DD/MM/YYYY string: day, month and year must be
// exactly 2, 2 and 4 digits and form a real calendar date.
func CheckDate(s string) (time.Time, error) {
	if len(s) != 10 || s[2] != '/' || s[5] != '/' {
		return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadDate)
	}
	for i := 0; i < len(s); i++ {
		if i == 2 || i == 5 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, fmt.Errorf("%q: %w", s, ErrBadDate)
		}
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not a calendar date: %w", s, ErrBadDate)
	}
	return t, nil
}
