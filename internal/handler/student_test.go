package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/student-records/internal/auth"
	"github.com/sakif/student-records/internal/model"
	"github.com/sakif/student-records/internal/server"
)

const testSecret = "test-secret-at-least-16-chars!!"

// newTestAPI boots the full router against an in-memory database, so these
// tests exercise the real middleware chain, routing, services, and store.
func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := server.New(server.Config{
		DBPath:      ":memory:",
		JWTSecret:   testSecret,
		CORSOrigins: []string{"*"},
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	return srv.Router()
}

// tokenFor mints a JWT the way the login endpoint would.
func tokenFor(t *testing.T, role model.Role) string {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	token, err := tokens.Generate("test-"+string(role), role)
	require.NoError(t, err)
	return token
}

// envelope mirrors the API's response shape for decoding in assertions.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func doRequest(t *testing.T, api http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), "body: %s", rr.Body.String())
	}
	return rr, env
}

func studentPayload(n int) map[string]any {
	return map[string]any{
		"studentId":   fmt.Sprintf("S%03d", n),
		"firstName":   "Jane",
		"lastName":    "Doe",
		"email":       fmt.Sprintf("jane%d@x.edu", n),
		"phone":       "+15551234567",
		"dateOfBirth": "2004-03-15",
		"gender":      "Female",
		"address": map[string]any{
			"street": "1 College Ave", "city": "Springfield", "state": "IL", "zipCode": "62704",
		},
		"academicInfo": map[string]any{
			"major":              "Computer Science",
			"expectedGraduation": "2026-06-01",
			"currentSemester":    "Fall",
			"currentYear":        3,
		},
		"emergencyContact": map[string]any{
			"name": "Pat Doe", "relationship": "Parent",
			"phone": "+15559876543", "email": "pat@x.com",
		},
	}
}

// createStudent creates a student as admin and returns its internal id.
func createStudent(t *testing.T, api http.Handler, n int) string {
	t.Helper()
	rr, env := doRequest(t, api, http.MethodPost, "/api/students", tokenFor(t, model.RoleAdmin), studentPayload(n))
	require.Equal(t, http.StatusCreated, rr.Code, "body: %s", rr.Body.String())

	var data struct {
		Student model.Student `json:"student"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Student.ID
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"OK"`)
}

func TestStudents_RequireToken(t *testing.T) {
	api := newTestAPI(t)

	rr, env := doRequest(t, api, http.MethodGet, "/api/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, env.Success)

	rr, _ = doRequest(t, api, http.MethodGet, "/api/students", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateStudent(t *testing.T) {
	api := newTestAPI(t)

	rr, env := doRequest(t, api, http.MethodPost, "/api/students", tokenFor(t, model.RoleAdmin), studentPayload(1))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Student created successfully", env.Message)

	var data struct {
		Student model.Student `json:"student"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.Student.ID)
	assert.Equal(t, "USA", data.Student.Address.Country)
	assert.Equal(t, model.StatusActive, data.Student.Status)
	assert.Zero(t, data.Student.AcademicInfo.GPA)
}

func TestCreateStudent_FacultyForbidden(t *testing.T) {
	api := newTestAPI(t)

	rr, env := doRequest(t, api, http.MethodPost, "/api/students", tokenFor(t, model.RoleFaculty), studentPayload(1))
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, env.Success)
}

func TestCreateStudent_ValidationErrors(t *testing.T) {
	api := newTestAPI(t)

	payload := studentPayload(1)
	payload["email"] = "not-an-email"
	payload["phone"] = "0abc"

	rr, env := doRequest(t, api, http.MethodPost, "/api/students", tokenFor(t, model.RoleAdmin), payload)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Validation failed", env.Message)

	fields := map[string]string{}
	for _, e := range env.Errors {
		fields[e.Field] = e.Message
	}
	assert.Equal(t, "Please enter a valid email address", fields["email"])
	assert.Equal(t, "Please enter a valid phone number", fields["phone"])
}

func TestCreateStudent_Duplicate(t *testing.T) {
	api := newTestAPI(t)
	createStudent(t, api, 1)

	rr, env := doRequest(t, api, http.MethodPost, "/api/students", tokenFor(t, model.RoleAdmin), studentPayload(1))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Errors)
}

func TestCreateStudent_MalformedJSON(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/students", bytes.NewBufferString(`{"broken":`))
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RoleAdmin))
	rr := httptest.NewRecorder()
	api.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetStudent_NotFound(t *testing.T) {
	api := newTestAPI(t)

	rr, env := doRequest(t, api, http.MethodGet, "/api/students/ghost", tokenFor(t, model.RoleFaculty), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.Success)
}

func TestUpdateAndDeleteStudent(t *testing.T) {
	api := newTestAPI(t)
	id := createStudent(t, api, 1)

	payload := studentPayload(1)
	payload["firstName"] = "Janet"
	rr, env := doRequest(t, api, http.MethodPut, "/api/students/"+id, tokenFor(t, model.RoleAdmin), payload)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Student updated successfully", env.Message)

	// Faculty cannot delete.
	rr, _ = doRequest(t, api, http.MethodDelete, "/api/students/"+id, tokenFor(t, model.RoleFaculty), nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, env = doRequest(t, api, http.MethodDelete, "/api/students/"+id, tokenFor(t, model.RoleAdmin), nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Student deleted successfully", env.Message)

	rr, _ = doRequest(t, api, http.MethodGet, "/api/students/"+id, tokenFor(t, model.RoleAdmin), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGradeFlow(t *testing.T) {
	api := newTestAPI(t)
	id := createStudent(t, api, 1)
	faculty := tokenFor(t, model.RoleFaculty)

	grade := map[string]any{"subject": "Math", "grade": "A", "semester": "Fall", "year": 2024}
	rr, env := doRequest(t, api, http.MethodPost, "/api/students/"+id+"/grades", faculty, grade)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	assert.Equal(t, "Grade added/updated successfully", env.Message)

	var data struct {
		Student model.Student `json:"student"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Student.Grades, 1)
	assert.Equal(t, 4.0, data.Student.AcademicInfo.GPA)

	// Same (subject, semester, year) replaces, never duplicates.
	grade["grade"] = "B"
	_, env = doRequest(t, api, http.MethodPost, "/api/students/"+id+"/grades", faculty, grade)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Student.Grades, 1)
	assert.Equal(t, 3.0, data.Student.AcademicInfo.GPA)

	gradeID := data.Student.Grades[0].ID
	rr, env = doRequest(t, api, http.MethodDelete, "/api/students/"+id+"/grades/"+gradeID, faculty, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Empty(t, data.Student.Grades)
	assert.Zero(t, data.Student.AcademicInfo.GPA)
}

func TestGrade_InvalidLetter(t *testing.T) {
	api := newTestAPI(t)
	id := createStudent(t, api, 1)

	grade := map[string]any{"subject": "Math", "grade": "Z", "semester": "Fall", "year": 2024}
	rr, env := doRequest(t, api, http.MethodPost, "/api/students/"+id+"/grades", tokenFor(t, model.RoleFaculty), grade)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
}

func TestGrade_MissingGradeIs404(t *testing.T) {
	api := newTestAPI(t)
	id := createStudent(t, api, 1)

	rr, env := doRequest(t, api, http.MethodDelete, "/api/students/"+id+"/grades/nope", tokenFor(t, model.RoleFaculty), nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, env.Message, "grade")
}

func TestListStudents(t *testing.T) {
	api := newTestAPI(t)
	for i := 1; i <= 3; i++ {
		createStudent(t, api, i)
	}

	rr, env := doRequest(t, api, http.MethodGet, "/api/students?limit=2&sortBy=studentId&sortOrder=asc", tokenFor(t, model.RoleFaculty), nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var data struct {
		Students   []model.Student  `json:"students"`
		Pagination model.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data.Students, 2)
	assert.Equal(t, "S001", data.Students[0].StudentID)
	assert.Equal(t, 3, data.Pagination.Total)
	assert.Equal(t, 2, data.Pagination.TotalPages)
	assert.True(t, data.Pagination.HasNext)
}

// The stats route must not be swallowed by the /{id} pattern.
func TestStatsRouteNotShadowed(t *testing.T) {
	api := newTestAPI(t)
	createStudent(t, api, 1)

	rr, env := doRequest(t, api, http.MethodGet, "/api/students/stats/overview", tokenFor(t, model.RoleFaculty), nil)
	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())

	var data model.StatsOverview
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 1, data.TotalStudents)
}
