// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Student statuses. Stored as plain strings so the database rows and JSON
// payloads stay human-readable.
const (
	StatusActive    = "Active"
	StatusInactive  = "Inactive"
	StatusGraduated = "Graduated"
	StatusSuspended = "Suspended"
	StatusWithdrawn = "Withdrawn"
)

// Genders accepted on a student record.
const (
	GenderMale        = "Male"
	GenderFemale      = "Female"
	GenderOther       = "Other"
	GenderUnspecified = "Prefer not to say"
)

// Statuses lists every valid student status, in declaration order.
func Statuses() []string {
	return []string{StatusActive, StatusInactive, StatusGraduated, StatusSuspended, StatusWithdrawn}
}

// Genders lists every valid gender value.
func Genders() []string {
	return []string{GenderMale, GenderFemale, GenderOther, GenderUnspecified}
}

// Student is the central record of the system.
//
// TWO IDENTIFIERS:
// ID is the internal primary key (an xid, generated by the repository).
// StudentID is the institution-assigned identifier ("S100") that staff type
// into forms. Both are unique, but only ID is guaranteed opaque and stable —
// external numbering schemes change, internal keys don't.
//
// GPA IS DERIVED:
// AcademicInfo.GPA is never set by a caller. Every operation that persists a
// student recomputes it from the grade ledger (see ComputeGPA) inside the
// same transaction, so a stored GPA can never disagree with the stored grades.
type Student struct {
	ID               string           `json:"id"`
	StudentID        string           `json:"studentId"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	DateOfBirth      time.Time        `json:"dateOfBirth"`
	Gender           string           `json:"gender"`
	Address          Address          `json:"address"`
	AcademicInfo     AcademicInfo     `json:"academicInfo"`
	Grades           []Grade          `json:"grades"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
	Status           string           `json:"status"`
	Notes            string           `json:"notes"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// Address is the student's postal address. Country defaults to "USA" when
// left blank on input.
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

// AcademicInfo groups the enrollment and progress fields.
//
// GPA is derived (see Student). CreditsCompleted and TotalCredits are plain
// counters — this is not a gradebook engine, so no weighting by credits.
type AcademicInfo struct {
	Major              string    `json:"major"`
	Minor              string    `json:"minor,omitempty"`
	EnrollmentDate     time.Time `json:"enrollmentDate"`
	ExpectedGraduation time.Time `json:"expectedGraduation"`
	CurrentSemester    string    `json:"currentSemester"`
	CurrentYear        int       `json:"currentYear"`
	GPA                float64   `json:"gpa"`
	CreditsCompleted   int       `json:"creditsCompleted"`
	TotalCredits       int       `json:"totalCredits"`
}

// EmergencyContact — all four fields are required on input.
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// Pagination is the metadata returned alongside every student list page.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}
