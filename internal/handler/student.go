// Package handler is the HTTP layer: it parses requests, calls services,
// and writes envelope responses. No business rules live here — a handler
// that grows an if-statement about roles or GPAs is a bug.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/student-records/internal/auth"
	"github.com/sakif/student-records/internal/service"
)

// StudentHandler exposes student CRUD, the query engine, and statistics.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler creates a StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// List handles GET /api/students.
//
// Query parameters: page, limit, search, major, status, sortBy, sortOrder.
// Unparseable numbers fall back to defaults rather than erroring — a
// dashboard sending "page=" should get page 1, not a 400.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.students.List(r.Context(), auth.RoleFromContext(r.Context()), service.ListParams{
		Search:    q.Get("search"),
		Major:     q.Get("major"),
		Status:    q.Get("status"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"students":   result.Students,
		"pagination": result.Pagination,
	})
}

// Get handles GET /api/students/{id}.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	student, err := h.students.Get(r.Context(), auth.RoleFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, map[string]any{"student": student})
}

// Create handles POST /api/students.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.StudentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	student, err := h.students.Create(r.Context(), auth.RoleFromContext(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusCreated, "Student created successfully", map[string]any{"student": student})
}

// Update handles PUT /api/students/{id}. Full-document replace: the payload
// is validated exactly like a create.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.StudentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	student, err := h.students.Update(r.Context(), auth.RoleFromContext(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Student updated successfully", map[string]any{"student": student})
}

// Delete handles DELETE /api/students/{id}.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.students.Delete(r.Context(), auth.RoleFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Student deleted successfully", nil)
}

// Stats handles GET /api/students/stats/overview.
func (h *StudentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.students.Overview(r.Context(), auth.RoleFromContext(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}
