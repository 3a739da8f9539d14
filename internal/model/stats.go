package model

// MajorCount is one group-by-major bucket in the statistics overview.
type MajorCount struct {
	Major string `json:"major"`
	Count int    `json:"count"`
}

// StatsOverview is the fleet-wide summary returned by the statistics
// aggregator.
//
// AvgGPA averages only students whose GPA is greater than 0 — a student with
// no grades has GPA 0 by the invariant, and counting those zeros would drag
// the average down with records that carry no academic signal. If no student
// qualifies, AvgGPA is 0.
//
// MajorStats holds the top 5 majors by student count, descending; ties are
// broken by major name so repeated calls on unchanged data return the same
// ordering.
type StatsOverview struct {
	TotalStudents     int          `json:"totalStudents"`
	ActiveStudents    int          `json:"activeStudents"`
	GraduatedStudents int          `json:"graduatedStudents"`
	AvgGPA            float64      `json:"avgGPA"`
	MajorStats        []MajorCount `json:"majorStats"`
}
