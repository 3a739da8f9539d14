// Package repository defines the storage interfaces the service layer
// programs against. The sqlite subpackage is the concrete implementation;
// tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/student-records/internal/model"
)

// StudentFilter narrows a student listing. Zero values mean "no filter";
// supplied dimensions are ANDed together.
//
// Search matches case-insensitively as a substring against firstName,
// lastName, studentId, and email (OR across the four fields). Major matches
// case-insensitively as a substring. Status is an exact match.
type StudentFilter struct {
	Search string
	Major  string
	Status string
}

// ListOptions carries the full query-engine parameter set: filters, sort,
// and page slicing. The service layer normalizes these (defaults, clamping)
// before they reach the store.
//
// SortBy is a JSON field name (e.g. "createdAt", "lastName", "gpa"); the
// store maps it to a column and falls back to createdAt for unknown names.
// Whatever the sort key, the store appends the internal ID as a secondary
// key so ties have a stable order and pagination never duplicates or skips
// a record across pages.
type ListOptions struct {
	Filter   StudentFilter
	SortBy   string
	SortDesc bool
	Page     int
	Limit    int
}

// StudentPage is one page of a student listing plus its pagination metadata.
type StudentPage struct {
	Students   []model.Student
	Pagination model.Pagination
}

// StudentRepository is the record store for students and their owned grade
// ledgers.
//
// INVARIANT CONTRACT:
// Every mutating method recomputes the student's GPA from the grade ledger
// inside the same transaction that persists the change, and refreshes
// updatedAt. A committed row never has a GPA that disagrees with its grades.
//
// Natural-key uniqueness (studentId; email, case-insensitive) is enforced
// atomically with the write: two concurrent creates with the same key cannot
// both succeed.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) (*StudentPage, error)

	// UpsertGrade adds the grade to the student's ledger, or replaces the
	// existing entry with the same (subject, semester, year) natural key in
	// place. Returns the student with the refreshed ledger and GPA.
	UpsertGrade(ctx context.Context, studentID string, grade *model.Grade) (*model.Student, error)

	// ReplaceGrade overwrites the ledger entry identified by gradeID.
	// Returns apperror.NotFound("grade", ...) when the student exists but
	// the reference does not.
	ReplaceGrade(ctx context.Context, studentID, gradeID string, grade *model.Grade) (*model.Student, error)

	// DeleteGrade removes the ledger entry identified by gradeID, with the
	// same not-found distinction as ReplaceGrade.
	DeleteGrade(ctx context.Context, studentID, gradeID string) (*model.Student, error)

	Overview(ctx context.Context) (*model.StatsOverview, error)
}

// UserRepository stores staff accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// GetUserByLogin looks a user up by username or email, both
	// case-insensitive. Login forms accept either.
	GetUserByLogin(ctx context.Context, login string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	ListUsers(ctx context.Context) ([]model.User, error)
	CountUsers(ctx context.Context) (int, error)
}
