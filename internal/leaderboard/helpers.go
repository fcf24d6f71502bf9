package leaderboard

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// encodeEntries serializes entries and returns a content hash for deduplication.
func encodeEntries(entries []Entry) ([]byte, string, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return nil, "", err
	}
	sum := sha256.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

func parseLimit(raw string, def, max int) int {
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 || parsed > max {
		return def
	}
	return parsed
}
