package timeutil

import (
	"encoding/json"
	"time"
)

const dateTimeFormat = "2006-01-02T15:04:05Z"

// DateTime is a UTC timestamp that marshals to the second-precision RFC 3339
// form used across the API.
type DateTime struct {
	time.Time
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	var dateStr string
	err := json.Unmarshal(data, &dateStr)
	if err != nil {
		return err
	}

	parsed, err := time.Parse(dateTimeFormat, dateStr)
	if err != nil {
		return err
	}

	d.Time = parsed.UTC()
	return nil
}

func (d DateTime) String() string {
	return d.Time.Format(dateTimeFormat)
}

func NewDateTime(t time.Time) DateTime {
	return DateTime{
		Time: t.UTC().Truncate(time.Second),
	}
}

func DateTimeNow() DateTime {
	return NewDateTime(Now())
}

func Now() time.Time {
	return time.Now().UTC()
}

func Timestamp() int {
	return int(Now().Unix())
}
