package objects

import (
	"encoding/json"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Date is a calendar date written as YYYY-MM-DD on the wire.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(value string) (Date, error) {

	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("date %q must be formatted as YYYY-MM-DD", value)
	}

	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {

	if d.IsZero() {
		return []byte("null"), nil
	}

	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {

	if string(b) == "null" {
		*d = Date{}
		return nil
	}

	var value string
	if err := json.Unmarshal(b, &value); err != nil {
		return err
	}

	parsed, err := ParseDate(value)
	if err != nil {
		return err
	}

	*d = parsed
	return nil
}
