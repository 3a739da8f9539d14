package service

import (
	"context"
	"strconv"

	"github.com/sakif/student-records/internal/model"
	"github.com/sakif/student-records/internal/validate"
)

// GradeInput is the write payload for grade operations.
type GradeInput struct {
	Subject  string `json:"subject"`
	Grade    string `json:"grade"`
	Semester string `json:"semester"`
	Year     int    `json:"year"`
}

// validateGrade checks a grade payload and returns the normalized entry.
func validateGrade(in GradeInput) (*model.Grade, error) {
	v := validate.New()

	subject := v.Field("subject", in.Subject).
		Required("Subject is required").
		Value()
	letter := v.Field("grade", in.Grade).
		Required("Grade is required").
		OneOf(model.ValidGrades(), "Please select a valid grade").
		Value()
	semester := v.Field("semester", in.Semester).
		Required("Semester is required").
		OneOf(model.Semesters(), "Please select a valid semester").
		Value()
	v.Int("year", in.Year).
		Range(model.MinGradeYear, model.MaxGradeYear,
			"Year must be between "+strconv.Itoa(model.MinGradeYear)+" and "+strconv.Itoa(model.MaxGradeYear))

	if err := v.Err(); err != nil {
		return nil, err
	}

	return &model.Grade{
		Subject:  subject,
		Grade:    letter,
		Semester: semester,
		Year:     in.Year,
	}, nil
}

// AddGrade records a grade for a student. Faculty or above.
//
// The ledger is keyed by (subject, semester, year): submitting an entry for
// an existing key replaces that entry in place instead of appending a
// duplicate, so re-grading a course is the same call as grading it. The
// student's GPA is recomputed in the same transaction.
func (s *StudentService) AddGrade(ctx context.Context, role model.Role, studentID string, in GradeInput) (*model.Student, error) {
	if err := requireFaculty(role); err != nil {
		return nil, err
	}

	grade, err := validateGrade(in)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.UpsertGrade(ctx, studentID, grade)
	if err != nil {
		return nil, err
	}

	s.logger.Info("grade recorded",
		"studentId", studentID,
		"subject", grade.Subject,
		"grade", grade.Grade,
	)
	return student, nil
}

// UpdateGrade rewrites one ledger entry, addressed by its entry ID.
// Faculty or above.
//
// Unlike AddGrade it can move an entry to a different (subject, semester,
// year) key — but never onto a key another entry already holds.
func (s *StudentService) UpdateGrade(ctx context.Context, role model.Role, studentID, gradeID string, in GradeInput) (*model.Student, error) {
	if err := requireFaculty(role); err != nil {
		return nil, err
	}

	grade, err := validateGrade(in)
	if err != nil {
		return nil, err
	}

	student, err := s.repo.ReplaceGrade(ctx, studentID, gradeID, grade)
	if err != nil {
		return nil, err
	}

	s.logger.Info("grade updated", "studentId", studentID, "gradeId", gradeID)
	return student, nil
}

// DeleteGrade removes one ledger entry by its entry ID. Faculty or above.
// The GPA is recomputed from the remaining entries (0 when none remain).
func (s *StudentService) DeleteGrade(ctx context.Context, role model.Role, studentID, gradeID string) (*model.Student, error) {
	if err := requireFaculty(role); err != nil {
		return nil, err
	}

	student, err := s.repo.DeleteGrade(ctx, studentID, gradeID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("grade deleted", "studentId", studentID, "gradeId", gradeID)
	return student, nil
}
