package period

import (
	"fmt"
	"time"
)

// Period is a daily delivery period, stored as a day count since the Unix
// epoch. Being an integer it is totally ordered with the usual < operators
// and steps discretely with Next/Add.
type Period int

const layout = "2006-01-02"

// Of truncates t to its UTC calendar day.
func Of(t time.Time) Period {
	t = t.UTC()
	days := t.Unix() / (24 * 60 * 60)
	if t.Unix() < 0 && t.Unix()%(24*60*60) != 0 {
		days--
	}
	return Period(days)
}

// Date builds a Period from a calendar date.
func Date(year int, month time.Month, day int) Period {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Parse reads a period in YYYY-MM-DD form.
func Parse(s string) (Period, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return Of(t), nil
}

// Time returns the period start as a UTC timestamp (midnight).
func (p Period) Time() time.Time {
	return time.Unix(int64(p)*24*60*60, 0).UTC()
}

func (p Period) Next() Period       { return p + 1 }
func (p Period) Add(n int) Period   { return p + Period(n) }
func (p Period) Sub(o Period) int   { return int(p - o) }
func (p Period) Before(o Period) bool { return p < o }
func (p Period) After(o Period) bool  { return p > o }

func (p Period) String() string { return p.Time().Format(layout) }

// Range enumerates periods from a to b inclusive. Empty when a > b.
func Range(a, b Period) []Period {
	if a > b {
		return nil
	}
	out := make([]Period, 0, b-a+1)
	for p := a; p <= b; p++ {
		out = append(out, p)
	}
	return out
}

// MarshalText / UnmarshalText make Period usable directly in JSON and YAML.
func (p Period) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
