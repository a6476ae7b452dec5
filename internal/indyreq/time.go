package indyreq

import (
	"time"

	"github.com/didindy/resolver/internal/didindy"
)

// parseRFC3339ToUnix parses an RFC-3339 timestamp and converts it to Unix
// epoch seconds. Parse failure maps to DateTimeError.
func parseRFC3339ToUnix(value string) (int64, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return 0, didindy.NewError("parseRFC3339ToUnix", didindy.ErrDateTimeError).WithContext("value", value)
	}
	return t.Unix(), nil
}

// nowUnix is the process-clock "now" default used whenever a timestamp
// query parameter is absent.
func nowUnix() int64 {
	return time.Now().UTC().Unix()
}
