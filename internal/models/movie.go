package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Movie is a movie record as served by the API's movie resolution endpoint.
type Movie struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	Year     Year   `json:"year,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Year is a release year. It decodes from a JSON number or a numeric string;
// anything else decodes as zero (unknown) rather than failing the whole record.
type Year int

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(strings.TrimSpace(s))
	}

	n, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		*y = 0
		return nil
	}
	*y = Year(n)
	return nil
}

// WatchlistEntry is a reference record: it names a movie but carries no display data.
type WatchlistEntry struct {
	MovieID string `json:"movieId"`
}

// User is the identity returned by a session provider.
type User struct {
	ID       string `json:"_id"`
	Username string `json:"username,omitempty"`
}

// MovieIDs returns the referenced identifiers in entry order with duplicates and blanks removed.
func MovieIDs(entries []WatchlistEntry) []string {
	seen := make(map[string]struct{}, len(entries))
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.MovieID == "" {
			continue
		}
		if _, ok := seen[e.MovieID]; ok {
			continue
		}
		seen[e.MovieID] = struct{}{}
		ids = append(ids, e.MovieID)
	}
	return ids
}
