package lanes

import "time"

const (
	dateLayout    = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// Date is a calendar day without a time-of-day or zone component.
// The zero value is 0001-01-01; obtain Dates through ParseDate.
type Date struct {
	t time.Time
}

// ParseDate parses a YYYY-MM-DD string. Out-of-range days such as
// 2025-02-30 are rejected, never normalised.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) AddDays(n int) Date     { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Before(o Date) bool     { return d.t.Before(o.t) }
func (d Date) After(o Date) bool      { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool      { return d.t.Equal(o.t) }
func (d Date) Compare(o Date) int     { return d.t.Compare(o.t) }
func (d Date) Time() time.Time        { return d.t }
func (d Date) Format(l string) string { return d.t.Format(l) }

func (d Date) String() string { return d.t.Format(dateLayout) }

// DaysBetween returns the number of days from a to b; negative when b is
// before a. Both dates are UTC midnights so the division is exact.
// time.Duration saturates after about 292 years, so this works in seconds.
func DaysBetween(a, b Date) int {
	return int((b.t.Unix() - a.t.Unix()) / secondsPerDay)
}
