package service

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gousero-sin/LifeLogAi/internal/model"
)

// DefaultPeriod is the stats lookback window in days.
const DefaultPeriod = 7

// MaxPeriod caps lookback windows at roughly a century.
const MaxPeriod = 36500

const topTagsLimit = 5

// ParsePeriod coerces a query value to a positive day count. Missing,
// non-numeric and non-positive values give DefaultPeriod; fractions are
// truncated and large values are capped at MaxPeriod.
func ParsePeriod(raw string) int {
	return parsePositive(raw, DefaultPeriod)
}

// ParseEmotionPeriod is ParsePeriod with DefaultEmotionPeriod as the fallback.
func ParseEmotionPeriod(raw string) int {
	return parsePositive(raw, DefaultEmotionPeriod)
}

func parsePositive(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return def
		}
		if f > MaxPeriod {
			f = MaxPeriod
		}
		n = int(f)
	}
	return clampPeriod(n, def)
}

func clampPeriod(n, def int) int {
	if n < 1 {
		return def
	}
	return min(n, MaxPeriod)
}

// Window returns the inclusive [today-period, today] bounds as date strings.
func Window(today time.Time, period int) (string, string) {
	return today.AddDate(0, 0, -period).Format(model.DateLayout), today.Format(model.DateLayout)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// mean returns the rounded average of values, or 0 when there are none.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return roundTenth(rawMean(values))
}

func intValues(entries []model.Entry, field func(model.Entry) *int) []float64 {
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		if v := field(e); v != nil {
			out = append(out, float64(*v))
		}
	}
	return out
}

func sleepValues(entries []model.Entry) []float64 {
	out := make([]float64, 0, len(entries))
	for _, e := range entries {
		if e.SleepHours != nil {
			out = append(out, *e.SleepHours)
		}
	}
	return out
}

// CurrentStreak counts consecutive days with an entry walking back from
// today. dates must be sorted newest first; dates after today are ignored.
func CurrentStreak(dates []string, today time.Time) int {
	expected := today
	expectedStr := expected.Format(model.DateLayout)
	streak := 0
	for _, d := range dates {
		if d > expectedStr {
			continue
		}
		if d != expectedStr {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
		expectedStr = expected.Format(model.DateLayout)
	}
	return streak
}

// trend lists the non-null values of a metric in entry order.
func trend(entries []model.Entry, value func(model.Entry) (float64, bool)) []model.TrendPoint {
	points := []model.TrendPoint{}
	for _, e := range entries {
		if v, ok := value(e); ok {
			points = append(points, model.TrendPoint{Date: e.EntryDate, Value: v})
		}
	}
	return points
}

// BuildStats aggregates window entries (sorted oldest first), the full entry
// date history (newest first) and the window's top tags.
func BuildStats(window []model.Entry, history []string, topTags []model.TagCount, today time.Time) model.DashboardStats {
	if topTags == nil {
		topTags = []model.TagCount{}
	}
	if len(topTags) > topTagsLimit {
		topTags = topTags[:topTagsLimit]
	}

	return model.DashboardStats{
		AvgMood:       mean(intValues(window, func(e model.Entry) *int { return e.Mood })),
		AvgEnergy:     mean(intValues(window, func(e model.Entry) *int { return e.Energy })),
		AvgSleep:      mean(sleepValues(window)),
		AvgStress:     mean(intValues(window, func(e model.Entry) *int { return e.Stress })),
		TotalEntries:  len(window),
		CurrentStreak: CurrentStreak(history, today),
		TopTags:       topTags,
		MoodTrend: trend(window, func(e model.Entry) (float64, bool) {
			if e.Mood == nil {
				return 0, false
			}
			return float64(*e.Mood), true
		}),
		SleepTrend: trend(window, func(e model.Entry) (float64, bool) {
			if e.SleepHours == nil {
				return 0, false
			}
			return *e.SleepHours, true
		}),
	}
}

// contextAverages returns mood, sleep and energy means used as insight
// context. Missing metrics fall back to neutral values.
func contextAverages(entries []model.Entry) (mood, sleep, energy float64) {
	mood, sleep, energy = 5, 7, 5
	if v := intValues(entries, func(e model.Entry) *int { return e.Mood }); len(v) > 0 {
		mood = rawMean(v)
	}
	if v := sleepValues(entries); len(v) > 0 {
		sleep = rawMean(v)
	}
	if v := intValues(entries, func(e model.Entry) *int { return e.Energy }); len(v) > 0 {
		energy = rawMean(v)
	}
	return mood, sleep, energy
}

func rawMean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
