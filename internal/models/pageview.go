package models

// DayLayout is the day-granularity key format of view events
const DayLayout = "2006-01-02"

// ViewEvent is one page visit on one day
type ViewEvent struct {
	Date string `json:"date" bson:"date" db:"visit_date"`
}

// DailyCount is one aggregated date group
type DailyCount struct {
	Date  string `json:"date" bson:"_id"`
	Count int    `json:"count" bson:"count"`
}

// PageViewSeries holds dates and counts in lockstep, oldest first
type PageViewSeries struct {
	Dates  []string `json:"dates"`
	Counts []int    `json:"counts"`
}
