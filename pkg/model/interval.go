package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInterval = errors.New("interval start must be before its end")
	ErrInvalidClock    = errors.New("invalid time of day")
	ErrInvalidDate     = errors.New("invalid date")
)

// TimeInterval is a window on a single calendar day. The zero value is not a
// valid interval; build one with NewTimeInterval or ParseTimeInterval.
type TimeInterval struct {
	date  time.Time
	start Clock
	end   Clock
}

func NewTimeInterval(date time.Time, start, end Clock) (TimeInterval, error) {
	if !start.Valid() || !end.Valid() {
		return TimeInterval{}, fmt.Errorf("%w: %s-%s", ErrInvalidClock, start, end)
	}
	if start >= end {
		return TimeInterval{}, fmt.Errorf("%w: %s-%s", ErrInvalidInterval, start, end)
	}
	return TimeInterval{date: TruncateDate(date), start: start, end: end}, nil
}

func ParseTimeInterval(date, start, end string) (TimeInterval, error) {
	d, err := ParseDate(date)
	if err != nil {
		return TimeInterval{}, err
	}
	s, err := ParseClock(start)
	if err != nil {
		return TimeInterval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeInterval{}, err
	}
	return NewTimeInterval(d, s, e)
}

func MustInterval(date, start, end string) TimeInterval {
	iv, err := ParseTimeInterval(date, start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

func (t TimeInterval) Date() time.Time { return t.date }
func (t TimeInterval) Start() Clock    { return t.start }
func (t TimeInterval) End() Clock      { return t.end }

func (t TimeInterval) Weekday() time.Weekday {
	return t.date.Weekday()
}

func (t TimeInterval) IsZero() bool {
	return t.date.IsZero() && t.start == 0 && t.end == 0
}

func (t TimeInterval) SameDate(other TimeInterval) bool {
	return t.date.Equal(other.date)
}

// Overlaps reports whether both intervals share at least one minute.
// Touching boundaries (a.end == b.start) do not overlap.
func (t TimeInterval) Overlaps(other TimeInterval) bool {
	if !t.SameDate(other) {
		return false
	}
	return !(t.end <= other.start || other.end <= t.start)
}

func (t TimeInterval) DurationMinutes() int {
	return int(t.end - t.start)
}

// StartAt returns the start of the interval as an instant in loc.
func (t TimeInterval) StartAt(loc *time.Location) time.Time {
	y, m, d := t.date.Date()
	return time.Date(y, m, d, t.start.Hour(), t.start.Minute(), 0, 0, loc)
}

func (t TimeInterval) String() string {
	return fmt.Sprintf("%s %s-%s", t.date.Format(DateLayout), t.start, t.end)
}

type intervalJSON struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (t TimeInterval) MarshalJSON() ([]byte, error) {
	return json.Marshal(intervalJSON{
		Date:  t.date.Format(DateLayout),
		Start: t.start.String(),
		End:   t.end.String(),
	})
}

func (t *TimeInterval) UnmarshalJSON(data []byte) error {
	var raw intervalJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeInterval(raw.Date, raw.Start, raw.End)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
