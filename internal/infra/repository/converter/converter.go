// Package converter translates between domain value shapes and the column
// encodings the persistence layer uses (JSONB payloads, SQL arrays, split
// latitude/longitude pairs).
package converter

import (
	"encoding/json"
	"time"

	"venue-offers/internal/domain/opportunity"
	"venue-offers/internal/domain/preferences"
	"venue-offers/internal/pkg/geo"

	"github.com/google/uuid"
)

type quietWindowRow struct {
	StartMinute int `json:"start_minute"`
	EndMinute   int `json:"end_minute"`
}

func QuietWindowsToJSON(windows []preferences.QuietWindow) ([]byte, error) {
	rows := make([]quietWindowRow, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, quietWindowRow{StartMinute: w.StartMinute, EndMinute: w.EndMinute})
	}
	return json.Marshal(rows)
}

func JSONToQuietWindows(data []byte) ([]preferences.QuietWindow, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []quietWindowRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	windows := make([]preferences.QuietWindow, 0, len(rows))
	for _, r := range rows {
		windows = append(windows, preferences.QuietWindow{StartMinute: r.StartMinute, EndMinute: r.EndMinute})
	}
	return windows, nil
}

func WeekdaysToInts(days []time.Weekday) []int32 {
	out := make([]int32, 0, len(days))
	for _, d := range days {
		out = append(out, int32(d))
	}
	return out
}

func IntsToWeekdays(values []int32) []time.Weekday {
	out := make([]time.Weekday, 0, len(values))
	for _, v := range values {
		out = append(out, time.Weekday(v))
	}
	return out
}

func CategoriesToStrings(categories []opportunity.Category) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}

func StringsToCategories(values []string) []opportunity.Category {
	out := make([]opportunity.Category, 0, len(values))
	for _, v := range values {
		out = append(out, opportunity.Category(v))
	}
	return out
}

func UUIDsToStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func StringsToUUIDs(values []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

func AffinityToJSON(affinity map[string]float64) ([]byte, error) {
	if affinity == nil {
		affinity = map[string]float64{}
	}
	return json.Marshal(affinity)
}

func JSONToAffinity(data []byte) (map[string]float64, error) {
	if len(data) == 0 {
		return map[string]float64{}, nil
	}
	var m map[string]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// PointToColumns splits an optional point into nullable lat/lng columns.
func PointToColumns(p *geo.Point) (lat, lng *float64) {
	if p == nil {
		return nil, nil
	}
	return &p.Lat, &p.Lng
}

// ColumnsToPoint rebuilds an optional point; a row with only one coordinate
// set is treated as having no location.
func ColumnsToPoint(lat, lng *float64) *geo.Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &geo.Point{Lat: *lat, Lng: *lng}
}
