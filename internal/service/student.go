// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, authorizes, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services take repository interfaces, not concrete *sqlite.DB values, so
// tests exercise the rules against in-memory mocks and the HTTP layer never
// touches SQL.
//
// AUTHORIZATION LIVES HERE:
// Every operation takes the caller's already-resolved model.Role as an
// explicit argument and checks it against the operation's requirement. The
// services never authenticate anyone — the HTTP layer resolves the JWT into
// a role and passes it down. That makes permission rules plain function
// logic, testable without tokens or middleware.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sakif/student-records/internal/apperror"
	"github.com/sakif/student-records/internal/model"
	"github.com/sakif/student-records/internal/repository"
	"github.com/sakif/student-records/internal/validate"
)

const (
	MinStudentIDLength = 3
	MinNameLength      = 2
	MaxNotesLength     = 1000

	DefaultTotalCredits = 120

	DefaultListLimit = 10
	MaxListLimit     = 100
)

// StudentService handles business logic for student records.
type StudentService struct {
	repo   repository.StudentRepository
	logger *slog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo repository.StudentRepository, logger *slog.Logger) *StudentService {
	return &StudentService{
		repo:   repo,
		logger: logger,
	}
}

// StudentInput is the write payload for create and update.
//
// Dates arrive as strings ("2006-01-02" or RFC 3339) straight from JSON and
// are parsed after validation — the client gets a field-level "Please enter
// a valid date" instead of a JSON decode failure.
type StudentInput struct {
	StudentID    string                `json:"studentId"`
	FirstName    string                `json:"firstName"`
	LastName     string                `json:"lastName"`
	Email        string                `json:"email"`
	Phone        string                `json:"phone"`
	DateOfBirth  string                `json:"dateOfBirth"`
	Gender       string                `json:"gender"`
	Address      AddressInput          `json:"address"`
	AcademicInfo AcademicInfoInput     `json:"academicInfo"`
	Emergency    EmergencyContactInput `json:"emergencyContact"`
	Status       string                `json:"status"`
	Notes        string                `json:"notes"`
}

type AddressInput struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type AcademicInfoInput struct {
	Major              string `json:"major"`
	Minor              string `json:"minor"`
	EnrollmentDate     string `json:"enrollmentDate"`
	ExpectedGraduation string `json:"expectedGraduation"`
	CurrentSemester    string `json:"currentSemester"`
	CurrentYear        int    `json:"currentYear"`
	CreditsCompleted   int    `json:"creditsCompleted"`
	TotalCredits       int    `json:"totalCredits"`
}

type EmergencyContactInput struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// ListParams are the query knobs for List. Zero values mean "default":
// page 1, limit 10, sorted by creation time descending.
type ListParams struct {
	Search    string
	Major     string
	Status    string
	SortBy    string
	SortOrder string // "asc" or "desc"
	Page      int
	Limit     int
}

// requireAdmin gates the operations that change the student roster.
func requireAdmin(role model.Role) error {
	if !role.IsAdmin() {
		return apperror.Forbidden("Admin access required for this operation")
	}
	return nil
}

// requireFaculty gates reads and grade mutations.
func requireFaculty(role model.Role) error {
	if !role.FacultyOrAbove() {
		return apperror.Forbidden("Faculty access required for this operation")
	}
	return nil
}

// Create validates and persists a new student record. Admin only.
//
// The stored GPA is always derived by the repository from the (empty) grade
// ledger — nothing in the input can set it.
func (s *StudentService) Create(ctx context.Context, role model.Role, in StudentInput) (*model.Student, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	student, err := s.buildStudent(in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student created",
		"id", student.ID,
		"studentId", student.StudentID,
	)
	return student, nil
}

// Get fetches one student by internal ID. Faculty or above.
func (s *StudentService) Get(ctx context.Context, role model.Role, id string) (*model.Student, error) {
	if err := requireFaculty(role); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update replaces a student's profile wholesale. Admin only.
//
// The full payload is re-validated like a create: partial updates are not
// supported, the client sends the complete document. The grade ledger is
// untouched — it has its own operations.
func (s *StudentService) Update(ctx context.Context, role model.Role, id string, in StudentInput) (*model.Student, error) {
	if err := requireAdmin(role); err != nil {
		return nil, err
	}

	student, err := s.buildStudent(in)
	if err != nil {
		return nil, err
	}
	student.ID = id

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student updated", "id", id)

	// Reload: Update doesn't hydrate the ledger or the recomputed GPA.
	return s.repo.GetByID(ctx, id)
}

// Delete removes a student and the grade ledger it owns. Admin only.
// Hard delete — there is no tombstone to resurrect.
func (s *StudentService) Delete(ctx context.Context, role model.Role, id string) error {
	if err := requireAdmin(role); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("student deleted", "id", id)
	return nil
}

// List returns a filtered, sorted, paginated page of students.
// Faculty or above.
func (s *StudentService) List(ctx context.Context, role model.Role, p ListParams) (*repository.StudentPage, error) {
	if err := requireFaculty(role); err != nil {
		return nil, err
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	limit := p.Limit
	if limit < 1 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	// Matches the query contract: anything except explicit "asc" is
	// descending, and the default sort is newest-first.
	sortDesc := p.SortOrder != "asc"

	return s.repo.List(ctx, repository.ListOptions{
		Filter: repository.StudentFilter{
			Search: p.Search,
			Major:  p.Major,
			Status: p.Status,
		},
		SortBy:   sortBy,
		SortDesc: sortDesc,
		Page:     page,
		Limit:    limit,
	})
}

// Overview returns the aggregate statistics snapshot. Faculty or above.
func (s *StudentService) Overview(ctx context.Context, role model.Role) (*model.StatsOverview, error) {
	if err := requireFaculty(role); err != nil {
		return nil, err
	}
	return s.repo.Overview(ctx)
}

// buildStudent validates the input and materializes a model.Student with
// defaults applied. Returns the FULL violation list on failure — the client
// renders every broken field at once, not one per round-trip.
func (s *StudentService) buildStudent(in StudentInput) (*model.Student, error) {
	v := validate.New()

	studentID := v.Field("studentId", in.StudentID).
		Required("Student ID is required").
		MinLen(MinStudentIDLength, "Student ID must be at least 3 characters long").
		Value()
	firstName := v.Field("firstName", in.FirstName).
		Required("First name is required").
		MinLen(MinNameLength, "First name must be at least 2 characters long").
		Value()
	lastName := v.Field("lastName", in.LastName).
		Required("Last name is required").
		MinLen(MinNameLength, "Last name must be at least 2 characters long").
		Value()
	email := v.Field("email", in.Email).
		Required("Email is required").
		Email("Please enter a valid email address").
		Value()
	phone := v.Field("phone", in.Phone).
		Required("Phone number is required").
		Phone("Please enter a valid phone number").
		Value()
	dob := v.Field("dateOfBirth", in.DateOfBirth).
		Required("Date of birth is required").
		Date("Please enter a valid date").
		Value()
	gender := v.Field("gender", in.Gender).
		Required("Gender is required").
		OneOf(model.Genders(), "Please select a valid gender").
		Value()

	street := v.Field("address.street", in.Address.Street).
		Required("Street address is required").Value()
	city := v.Field("address.city", in.Address.City).
		Required("City is required").Value()
	state := v.Field("address.state", in.Address.State).
		Required("State is required").Value()
	zip := v.Field("address.zipCode", in.Address.ZipCode).
		Required("Zip code is required").Value()

	major := v.Field("academicInfo.major", in.AcademicInfo.Major).
		Required("Major is required").Value()
	enrollment := v.Field("academicInfo.enrollmentDate", in.AcademicInfo.EnrollmentDate).
		Optional().
		Date("Please enter a valid date").
		Value()
	graduation := v.Field("academicInfo.expectedGraduation", in.AcademicInfo.ExpectedGraduation).
		Required("Expected graduation date is required").
		Date("Please enter a valid date").
		Value()
	semester := v.Field("academicInfo.currentSemester", in.AcademicInfo.CurrentSemester).
		Required("Current semester is required").
		OneOf(model.Semesters(), "Please select a valid semester").
		Value()
	v.Int("academicInfo.currentYear", in.AcademicInfo.CurrentYear).
		Range(1, 10, "Current year must be between 1 and 10")
	v.Int("academicInfo.creditsCompleted", in.AcademicInfo.CreditsCompleted).
		Min(0, "Credits completed cannot be negative")
	v.Int("academicInfo.totalCredits", in.AcademicInfo.TotalCredits).
		Min(0, "Total credits cannot be negative")

	ecName := v.Field("emergencyContact.name", in.Emergency.Name).
		Required("Emergency contact name is required").Value()
	ecRel := v.Field("emergencyContact.relationship", in.Emergency.Relationship).
		Required("Relationship is required").Value()
	ecPhone := v.Field("emergencyContact.phone", in.Emergency.Phone).
		Required("Emergency contact phone is required").
		Phone("Please enter a valid phone number").
		Value()
	ecEmail := v.Field("emergencyContact.email", in.Emergency.Email).
		Required("Emergency contact email is required").
		Email("Please enter a valid email address").
		Value()

	status := v.Field("status", in.Status).
		Optional().
		OneOf(model.Statuses(), "Please select a valid status").
		Value()
	notes := v.Field("notes", in.Notes).
		Optional().
		MaxLen(MaxNotesLength, "Notes cannot exceed 1000 characters").
		Value()

	if err := v.Err(); err != nil {
		return nil, err
	}

	// Defaults, applied only after the input is known-good.
	country := in.Address.Country
	if country == "" {
		country = "USA"
	}
	if status == "" {
		status = model.StatusActive
	}
	totalCredits := in.AcademicInfo.TotalCredits
	if totalCredits == 0 {
		totalCredits = DefaultTotalCredits
	}
	var enrollmentDate time.Time
	if enrollment == "" {
		enrollmentDate = time.Now().UTC()
	} else {
		enrollmentDate = validate.MustDate(enrollment)
	}

	return &model.Student{
		StudentID:   studentID,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Phone:       phone,
		DateOfBirth: validate.MustDate(dob),
		Gender:      gender,
		Address: model.Address{
			Street:  street,
			City:    city,
			State:   state,
			ZipCode: zip,
			Country: country,
		},
		AcademicInfo: model.AcademicInfo{
			Major:              major,
			Minor:              in.AcademicInfo.Minor,
			EnrollmentDate:     enrollmentDate,
			ExpectedGraduation: validate.MustDate(graduation),
			CurrentSemester:    semester,
			CurrentYear:        in.AcademicInfo.CurrentYear,
			CreditsCompleted:   in.AcademicInfo.CreditsCompleted,
			TotalCredits:       totalCredits,
		},
		EmergencyContact: model.EmergencyContact{
			Name:         ecName,
			Relationship: ecRel,
			Phone:        ecPhone,
			Email:        ecEmail,
		},
		Status: status,
		Notes:  notes,
	}, nil
}
