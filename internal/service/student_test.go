package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/student-records/internal/apperror"
	"github.com/sakif/student-records/internal/model"
	"github.com/sakif/student-records/internal/repository"
)

// =========================================================================
// MOCK REPOSITORY
// =========================================================================
//
// A hand-written in-memory implementation of repository.StudentRepository.
// The grade methods mirror the real store's semantics — natural-key upsert
// and GPA recompute — closely enough for the service tests to exercise the
// orchestration without a database.

type mockStudentRepo struct {
	students map[string]*model.Student
	nextID   int

	// lastListOpts records what List was called with, so tests can assert
	// the service's clamping and defaulting.
	lastListOpts repository.ListOptions
}

var _ repository.StudentRepository = (*mockStudentRepo)(nil)

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, s *model.Student) error {
	for _, other := range m.students {
		if other.StudentID == s.StudentID {
			return apperror.Duplicate("studentId", "Student with this ID or email already exists")
		}
	}
	m.nextID++
	s.ID = fmt.Sprintf("mock-%d", m.nextID)
	s.AcademicInfo.GPA = model.ComputeGPA(s.Grades)
	stored := *s
	m.students[s.ID] = &stored
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, apperror.NotFound("student", id)
	}
	result := *s
	return &result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, s *model.Student) error {
	existing, ok := m.students[s.ID]
	if !ok {
		return apperror.NotFound("student", s.ID)
	}
	stored := *s
	stored.Grades = existing.Grades
	stored.AcademicInfo.GPA = model.ComputeGPA(stored.Grades)
	m.students[s.ID] = &stored
	return nil
}

func (m *mockStudentRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.students[id]; !ok {
		return apperror.NotFound("student", id)
	}
	delete(m.students, id)
	return nil
}

func (m *mockStudentRepo) List(_ context.Context, opts repository.ListOptions) (*repository.StudentPage, error) {
	m.lastListOpts = opts
	students := make([]model.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, *s)
	}
	return &repository.StudentPage{
		Students: students,
		Pagination: model.Pagination{
			Page: opts.Page, Limit: opts.Limit, Total: len(students),
		},
	}, nil
}

func (m *mockStudentRepo) UpsertGrade(_ context.Context, studentID string, g *model.Grade) (*model.Student, error) {
	s, ok := m.students[studentID]
	if !ok {
		return nil, apperror.NotFound("student", studentID)
	}
	replaced := false
	for i := range s.Grades {
		if s.Grades[i].Subject == g.Subject && s.Grades[i].Semester == g.Semester && s.Grades[i].Year == g.Year {
			s.Grades[i].Grade = g.Grade
			replaced = true
			break
		}
	}
	if !replaced {
		m.nextID++
		g.ID = fmt.Sprintf("grade-%d", m.nextID)
		s.Grades = append(s.Grades, *g)
	}
	s.AcademicInfo.GPA = model.ComputeGPA(s.Grades)
	result := *s
	return &result, nil
}

func (m *mockStudentRepo) ReplaceGrade(_ context.Context, studentID, gradeID string, g *model.Grade) (*model.Student, error) {
	s, ok := m.students[studentID]
	if !ok {
		return nil, apperror.NotFound("student", studentID)
	}
	for i := range s.Grades {
		if s.Grades[i].ID == gradeID {
			s.Grades[i] = model.Grade{ID: gradeID, Subject: g.Subject, Grade: g.Grade, Semester: g.Semester, Year: g.Year}
			s.AcademicInfo.GPA = model.ComputeGPA(s.Grades)
			result := *s
			return &result, nil
		}
	}
	return nil, apperror.NotFound("grade", gradeID)
}

func (m *mockStudentRepo) DeleteGrade(_ context.Context, studentID, gradeID string) (*model.Student, error) {
	s, ok := m.students[studentID]
	if !ok {
		return nil, apperror.NotFound("student", studentID)
	}
	for i := range s.Grades {
		if s.Grades[i].ID == gradeID {
			s.Grades = append(s.Grades[:i], s.Grades[i+1:]...)
			s.AcademicInfo.GPA = model.ComputeGPA(s.Grades)
			result := *s
			return &result, nil
		}
	}
	return nil, apperror.NotFound("grade", gradeID)
}

func (m *mockStudentRepo) Overview(_ context.Context) (*model.StatsOverview, error) {
	return &model.StatsOverview{TotalStudents: len(m.students)}, nil
}

// =========================================================================
// HELPERS
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStudentService(t *testing.T) (*StudentService, *mockStudentRepo) {
	t.Helper()
	repo := newMockStudentRepo()
	return NewStudentService(repo, testLogger()), repo
}

// validInput returns a payload that passes every rule.
func validInput() StudentInput {
	return StudentInput{
		StudentID:   "S100",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane.doe@x.edu",
		Phone:       "+15551234567",
		DateOfBirth: "2004-03-15",
		Gender:      model.GenderFemale,
		Address: AddressInput{
			Street: "1 College Ave", City: "Springfield", State: "IL", ZipCode: "62704",
		},
		AcademicInfo: AcademicInfoInput{
			Major:              "Computer Science",
			ExpectedGraduation: "2026-06-01",
			CurrentSemester:    model.SemesterFall,
			CurrentYear:        3,
		},
		Emergency: EmergencyContactInput{
			Name: "Pat Doe", Relationship: "Parent",
			Phone: "+15559876543", Email: "pat@x.com",
		},
	}
}

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("error %v is not an *apperror.AppError", err)
	}
	out := make(map[string]string, len(appErr.Fields))
	for _, f := range appErr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// =========================================================================
// CREATE
// =========================================================================

func TestStudentCreate_Success(t *testing.T) {
	svc, _ := newTestStudentService(t)

	s, err := svc.Create(context.Background(), model.RoleAdmin, validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if s.ID == "" {
		t.Error("expected student to have an ID")
	}
	// Defaults.
	if s.Address.Country != "USA" {
		t.Errorf("Country = %q, want USA", s.Address.Country)
	}
	if s.Status != model.StatusActive {
		t.Errorf("Status = %q, want Active", s.Status)
	}
	if s.AcademicInfo.TotalCredits != DefaultTotalCredits {
		t.Errorf("TotalCredits = %d, want %d", s.AcademicInfo.TotalCredits, DefaultTotalCredits)
	}
	if s.AcademicInfo.EnrollmentDate.IsZero() {
		t.Error("EnrollmentDate should default to now, got zero")
	}
	if s.AcademicInfo.GPA != 0 {
		t.Errorf("GPA = %v, want 0 for a new record", s.AcademicInfo.GPA)
	}
}

func TestStudentCreate_RequiresAdmin(t *testing.T) {
	svc, repo := newTestStudentService(t)

	for _, role := range []model.Role{model.RoleFaculty, model.RoleNone} {
		_, err := svc.Create(context.Background(), role, validInput())
		if !errors.Is(err, apperror.ErrForbidden) {
			t.Errorf("Create() as %q error = %v, want ErrForbidden", role, err)
		}
	}
	if len(repo.students) != 0 {
		t.Error("forbidden Create() must not persist anything")
	}
}

func TestStudentCreate_CollectsAllViolations(t *testing.T) {
	svc, _ := newTestStudentService(t)

	in := validInput()
	in.StudentID = "S1" // too short
	in.Email = "not-an-email"
	in.Phone = "021abc" // leading zero + letters
	in.Gender = "Robot"
	in.AcademicInfo.CurrentYear = 11

	_, err := svc.Create(context.Background(), model.RoleAdmin, in)
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}

	fields := fieldMessages(t, err)
	want := map[string]string{
		"studentId":                "Student ID must be at least 3 characters long",
		"email":                    "Please enter a valid email address",
		"phone":                    "Please enter a valid phone number",
		"gender":                   "Please select a valid gender",
		"academicInfo.currentYear": "Current year must be between 1 and 10",
	}
	for field, msg := range want {
		if fields[field] != msg {
			t.Errorf("violation for %q = %q, want %q", field, fields[field], msg)
		}
	}
	if len(fields) != len(want) {
		t.Errorf("violation count = %d, want %d: %v", len(fields), len(want), fields)
	}
}

func TestStudentCreate_GPAIsNotSettable(t *testing.T) {
	svc, _ := newTestStudentService(t)

	// There is no GPA field on the input at all; this guards the service
	// never copying one in from somewhere else.
	s, err := svc.Create(context.Background(), model.RoleAdmin, validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.AcademicInfo.GPA != 0 {
		t.Errorf("GPA = %v, want 0", s.AcademicInfo.GPA)
	}
}

func TestStudentCreate_TrimsInput(t *testing.T) {
	svc, _ := newTestStudentService(t)

	in := validInput()
	in.StudentID = "  S100  "
	in.FirstName = " Jane "

	s, err := svc.Create(context.Background(), model.RoleAdmin, in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.StudentID != "S100" || s.FirstName != "Jane" {
		t.Errorf("input not trimmed: %q / %q", s.StudentID, s.FirstName)
	}
}

// =========================================================================
// UPDATE / DELETE
// =========================================================================

func TestStudentUpdate_Success(t *testing.T) {
	svc, _ := newTestStudentService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.RoleAdmin, validInput())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	in := validInput()
	in.FirstName = "Janet"
	got, err := svc.Update(ctx, model.RoleAdmin, created.ID, in)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.FirstName != "Janet" {
		t.Errorf("FirstName = %q, want Janet", got.FirstName)
	}
}

func TestStudentUpdate_RequiresAdmin(t *testing.T) {
	svc, _ := newTestStudentService(t)

	_, err := svc.Update(context.Background(), model.RoleFaculty, "any", validInput())
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("Update() as faculty error = %v, want ErrForbidden", err)
	}
}

func TestStudentUpdate_NotFound(t *testing.T) {
	svc, _ := newTestStudentService(t)

	_, err := svc.Update(context.Background(), model.RoleAdmin, "ghost", validInput())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestStudentDelete_RequiresAdmin(t *testing.T) {
	svc, _ := newTestStudentService(t)
	ctx := context.Background()

	created, _ := svc.Create(ctx, model.RoleAdmin, validInput())

	// Faculty can read and grade, but never remove a student.
	if err := svc.Delete(ctx, model.RoleFaculty, created.ID); !errors.Is(err, apperror.ErrForbidden) {
		t.Fatalf("Delete() as faculty error = %v, want ErrForbidden", err)
	}

	if err := svc.Delete(ctx, model.RoleAdmin, created.ID); err != nil {
		t.Fatalf("Delete() as admin error = %v", err)
	}

	if _, err := svc.Get(ctx, model.RoleAdmin, created.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// READS
// =========================================================================

func TestStudentReads_RequireFaculty(t *testing.T) {
	svc, _ := newTestStudentService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, model.RoleNone, "any"); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Get() anonymous error = %v, want ErrForbidden", err)
	}
	if _, err := svc.List(ctx, model.RoleNone, ListParams{}); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("List() anonymous error = %v, want ErrForbidden", err)
	}
	if _, err := svc.Overview(ctx, model.RoleNone); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("Overview() anonymous error = %v, want ErrForbidden", err)
	}

	// Faculty is enough for all reads.
	if _, err := svc.List(ctx, model.RoleFaculty, ListParams{}); err != nil {
		t.Errorf("List() as faculty error = %v", err)
	}
	if _, err := svc.Overview(ctx, model.RoleFaculty); err != nil {
		t.Errorf("Overview() as faculty error = %v", err)
	}
}

func TestStudentList_DefaultsAndClamping(t *testing.T) {
	svc, repo := newTestStudentService(t)
	ctx := context.Background()

	if _, err := svc.List(ctx, model.RoleFaculty, ListParams{}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	opts := repo.lastListOpts
	if opts.Page != 1 || opts.Limit != DefaultListLimit {
		t.Errorf("defaults: page=%d limit=%d, want 1/%d", opts.Page, opts.Limit, DefaultListLimit)
	}
	if opts.SortBy != "createdAt" || !opts.SortDesc {
		t.Errorf("default sort = %q desc=%v, want createdAt desc", opts.SortBy, opts.SortDesc)
	}

	if _, err := svc.List(ctx, model.RoleFaculty, ListParams{Page: -3, Limit: 5000, SortOrder: "asc"}); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	opts = repo.lastListOpts
	if opts.Page != 1 {
		t.Errorf("negative page clamped to %d, want 1", opts.Page)
	}
	if opts.Limit != MaxListLimit {
		t.Errorf("oversized limit clamped to %d, want %d", opts.Limit, MaxListLimit)
	}
	if opts.SortDesc {
		t.Error("explicit asc should not be descending")
	}
}
