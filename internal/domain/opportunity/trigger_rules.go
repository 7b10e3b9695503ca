package opportunity

import (
	"time"
)

// TriggerRules is an open key-value condition map. Callers never read the raw
// map; every known key has a typed accessor with an explicit default so new
// keys can be added without breaking existing opportunities.
type TriggerRules map[string]any

const (
	ruleMinMinutesRemaining = "min_minutes_remaining"
	ruleMaxMinutesRemaining = "max_minutes_remaining"
	ruleDaysOfWeek          = "days_of_week"
	ruleStartTime           = "start_time"
	ruleEndTime             = "end_time"
)

// MinMinutesRemaining returns the lower bound on session minutes remaining,
// or ok=false when the rule is absent.
func (r TriggerRules) MinMinutesRemaining() (int, bool) {
	return r.intValue(ruleMinMinutesRemaining)
}

func (r TriggerRules) MaxMinutesRemaining() (int, bool) {
	return r.intValue(ruleMaxMinutesRemaining)
}

// DaysOfWeek returns the allowed weekdays. An empty result means every day
// is allowed.
func (r TriggerRules) DaysOfWeek() []time.Weekday {
	raw, ok := r[ruleDaysOfWeek]
	if !ok {
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		return nil
	}

	days := make([]time.Weekday, 0, len(items))
	for _, item := range items {
		if d, ok := parseWeekday(item); ok {
			days = append(days, d)
		}
	}
	return days
}

// TimeWindow returns the allowed time-of-day window as minutes since
// midnight. ok=false when either bound is absent or malformed.
func (r TriggerRules) TimeWindow() (startMin, endMin int, ok bool) {
	start, okStart := r.clockValue(ruleStartTime)
	end, okEnd := r.clockValue(ruleEndTime)
	if !okStart || !okEnd {
		return 0, 0, false
	}
	return start, end, true
}

// AllowsDay reports whether t's weekday passes the days-of-week rule.
func (r TriggerRules) AllowsDay(t time.Time) bool {
	days := r.DaysOfWeek()
	if len(days) == 0 {
		return true
	}
	for _, d := range days {
		if t.Weekday() == d {
			return true
		}
	}
	return false
}

// AllowsTimeOfDay reports whether t falls inside the time-of-day window.
// Windows crossing midnight (e.g. 22:00-02:00) are honored.
func (r TriggerRules) AllowsTimeOfDay(t time.Time) bool {
	start, end, ok := r.TimeWindow()
	if !ok {
		return true
	}

	minutes := t.Hour()*60 + t.Minute()
	if start <= end {
		return minutes >= start && minutes <= end
	}
	return minutes >= start || minutes <= end
}

// AllowsRemaining reports whether minutesRemaining passes the min/max bounds.
func (r TriggerRules) AllowsRemaining(minutesRemaining int) bool {
	if minVal, ok := r.MinMinutesRemaining(); ok && minutesRemaining < minVal {
		return false
	}
	if maxVal, ok := r.MaxMinutesRemaining(); ok && minutesRemaining > maxVal {
		return false
	}
	return true
}

func (r TriggerRules) intValue(key string) (int, bool) {
	raw, ok := r[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		// JSON numbers decode as float64
		return int(v), true
	}
	return 0, false
}

func (r TriggerRules) clockValue(key string) (int, bool) {
	raw, ok := r[key]
	if !ok {
		return 0, false
	}
	s, ok := raw.(string)
	if !ok {
		return 0, false
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

func parseWeekday(raw any) (time.Weekday, bool) {
	switch v := raw.(type) {
	case float64:
		if v >= 0 && v <= 6 {
			return time.Weekday(int(v)), true
		}
	case int:
		if v >= 0 && v <= 6 {
			return time.Weekday(v), true
		}
	case string:
		for d := time.Sunday; d <= time.Saturday; d++ {
			if d.String() == v {
				return d, true
			}
		}
	}
	return 0, false
}
