package model

// Semesters accepted on grades and academic info.
const (
	SemesterFall   = "Fall"
	SemesterSpring = "Spring"
	SemesterSummer = "Summer"
)

// Year bounds for grade entries.
const (
	MinGradeYear = 2000
	MaxGradeYear = 2030
)

// Semesters lists every valid semester value.
func Semesters() []string {
	return []string{SemesterFall, SemesterSpring, SemesterSummer}
}

// Grade is one entry in a student's grade ledger.
//
// NATURAL KEY:
// (Subject, Semester, Year) uniquely identifies an entry within one student.
// Submitting a grade for an existing key REPLACES that entry in place rather
// than appending a duplicate — re-submitting the same course/term is the
// realistic failure mode of manual grade entry, and it must be idempotent.
//
// ID is the internal reference (an xid) used by delete/update-by-reference
// endpoints; it is not part of the natural key.
type Grade struct {
	ID       string `json:"id"`
	Subject  string `json:"subject"`
	Grade    string `json:"grade"`
	Semester string `json:"semester"`
	Year     int    `json:"year"`
}

// gradePoints maps letter grades to the 0–4 scale used for GPA averaging.
//
// P (pass) counts as 2.0 and NP (no pass) as 0.0, matching the registrar's
// convention this system inherited. "D-" keeps its historical 0.7 mapping even
// though it is not in the accepted enum — validation rejects it on input.
var gradePoints = map[string]float64{
	"A+": 4.0, "A": 4.0, "A-": 3.7,
	"B+": 3.3, "B": 3.0, "B-": 2.7,
	"C+": 2.3, "C": 2.0, "C-": 1.7,
	"D+": 1.3, "D": 1.0, "D-": 0.7,
	"F": 0.0, "P": 2.0, "NP": 0.0,
}

// validGrades is the accepted letter-grade enum, in grade order.
var validGrades = []string{
	"A+", "A", "A-",
	"B+", "B", "B-",
	"C+", "C", "C-",
	"D+", "D",
	"F", "P", "NP",
}

// ValidGrades returns the accepted letter grades.
func ValidGrades() []string {
	out := make([]string, len(validGrades))
	copy(out, validGrades)
	return out
}

// GradePoints returns the numeric value of a letter grade, or 0 for any
// unknown input (unknown grades can only exist in pre-validation data).
func GradePoints(letter string) float64 {
	return gradePoints[letter]
}

// ComputeGPA returns the unweighted arithmetic mean of the grade-point values
// over the given ledger, or 0 for an empty ledger.
//
// This is THE invariant of the record model: every persist operation calls it
// and stores the result, synchronously, in the same transaction as the change
// that triggered it. GPA is never cached, never updated asynchronously, and
// never accepted from a caller.
func ComputeGPA(grades []Grade) float64 {
	if len(grades) == 0 {
		return 0
	}

	total := 0.0
	for _, g := range grades {
		total += GradePoints(g.Grade)
	}
	return total / float64(len(grades))
}
