package gamification

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOffset(t *testing.T) {
	cases := map[string]int{
		"":         0,
		"  ":       0,
		"abc":      0,
		"NaN":      0,
		"Infinity": 0,
		"-Inf":     0,
		"-120":     -120,
		"60":       60,
		"59.6":     60,
		"5000":     MaxOffsetMinutes,
		"-5000":    -MaxOffsetMinutes,
		" 330 ":    330,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseOffset(raw), "raw %q", raw)
	}
}

func TestDayKey(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", DayKey(now, 0))
	// UTC+2 reports -120: already the next day locally.
	assert.Equal(t, "2024-03-11", DayKey(now, -120))
	// UTC-5 reports 300.
	assert.Equal(t, "2024-03-10", DayKey(now, 300))

	early := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29", DayKey(early, 180))
}

func TestPreviousDay(t *testing.T) {
	assert.Equal(t, "2024-02-29", PreviousDay("2024-03-01"))
	assert.Equal(t, "2023-12-31", PreviousDay("2024-01-01"))
	assert.Equal(t, "", PreviousDay("not-a-day"))
}

func TestRequestOffsetSources(t *testing.T) {
	body := "-120"

	r := httptest.NewRequest(http.MethodPost, "/?tz_offset=60", nil)
	r.Header.Set(OffsetHeader, "-90")
	assert.Equal(t, -90, RequestOffset(r, &body))

	r = httptest.NewRequest(http.MethodPost, "/?tz_offset=60", nil)
	assert.Equal(t, 60, RequestOffset(r, &body))

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	assert.Equal(t, -120, RequestOffset(r, &body))
	assert.Equal(t, 0, RequestOffset(r, nil))
}
