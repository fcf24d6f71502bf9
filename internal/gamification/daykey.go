package gamification

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the format of user-local calendar day keys.
const DayLayout = "2006-01-02"

// MaxOffsetMinutes bounds client supplied offsets to the real-world range (UTC-14..UTC+14).
const MaxOffsetMinutes = 14 * 60

// ParseOffset reads a client minutes-offset in getTimezoneOffset convention
// (local = UTC - offset). Anything unparsable or non-finite becomes 0.
func ParseOffset(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Round(v)
	if v > MaxOffsetMinutes {
		return MaxOffsetMinutes
	}
	if v < -MaxOffsetMinutes {
		return -MaxOffsetMinutes
	}
	return int(v)
}

// OffsetHeader carries the client's getTimezoneOffset value.
const OffsetHeader = "X-Timezone-Offset"

// RequestOffset reads the client's minutes offset from OffsetHeader, the
// tz_offset query parameter or the request body, in that order.
func RequestOffset(r *http.Request, body *string) int {
	if raw := r.Header.Get(OffsetHeader); raw != "" {
		return ParseOffset(raw)
	}
	if raw := r.URL.Query().Get("tz_offset"); raw != "" {
		return ParseOffset(raw)
	}
	if body != nil {
		return ParseOffset(*body)
	}
	return 0
}

// DayKey returns the user-local calendar day for now.
func DayKey(now time.Time, offsetMinutes int) string {
	return now.UTC().Add(-time.Duration(offsetMinutes) * time.Minute).Format(DayLayout)
}

// PreviousDay returns the day before day, or "" if day is not a valid key.
func PreviousDay(day string) string {
	t, err := time.Parse(DayLayout, day)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DayLayout)
}
