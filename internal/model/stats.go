package model

// TrendPoint is one value in a time series.
type TrendPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// DashboardStats is derived on demand from a user's entries. Zero averages
// mean "no data" rather than a true zero reading.
type DashboardStats struct {
	AvgMood       float64      `json:"avgMood"`
	AvgEnergy     float64      `json:"avgEnergy"`
	AvgSleep      float64      `json:"avgSleep"`
	AvgStress     float64      `json:"avgStress"`
	TotalEntries  int          `json:"totalEntries"`
	CurrentStreak int          `json:"currentStreak"`
	TopTags       []TagCount   `json:"topTags"`
	MoodTrend     []TrendPoint `json:"moodTrend"`
	SleepTrend    []TrendPoint `json:"sleepTrend"`
}
