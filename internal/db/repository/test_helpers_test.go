package repository

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

// uuidFromByte builds a deterministic id whose last byte is b.
func uuidFromByte(b byte) pgtype.UUID {
	var arr [16]byte
	arr[15] = b
	return pgtype.UUID{Bytes: arr, Valid: true}
}

// testDate parses a YYYY-MM-DD mission day.
func testDate(t *testing.T, day string) pgtype.Date {
	t.Helper()
	d, err := pgDate(day)
	require.NoError(t, err)
	return d
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
