package domain

import (
	"fmt"
	"time"
)

// DayKey identifies one calendar day in the monitor's reference time zone.
// Comparing two keys by value avoids the ambiguity of comparing formatted
// date strings.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayKeyOf extracts the calendar date of t in loc.
func DayKeyOf(t time.Time, loc *time.Location) DayKey {
	y, m, d := t.In(loc).Date()
	return DayKey{Year: y, Month: m, Day: d}
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

func (k DayKey) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

func (k *DayKey) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return fmt.Errorf("invalid day key %s: %w", b, err)
	}
	y, m, d := t.Date()
	*k = DayKey{Year: y, Month: m, Day: d}
	return nil
}

// DayBucket holds one calendar day's check log and its derived summary.
// Exactly one bucket is mutable at a time; buckets moved into history are
// never touched again.
type DayBucket struct {
	Day       DayKey        `json:"day"`
	StartedAt time.Time     `json:"started_at"`
	Log       []CheckResult `json:"log"`
	Summary   Summary       `json:"summary"`
}

// Snapshot is a self-consistent view of the store: the active bucket plus
// the full day list with the active bucket prepended, most recent first.
type Snapshot struct {
	Current DayBucket   `json:"current"`
	Days    []DayBucket `json:"days"`
}
