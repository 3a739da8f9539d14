package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/student-records/internal/auth"
	"github.com/sakif/student-records/internal/service"
)

// AddGrade handles POST /api/students/{id}/grades.
//
// Submitting a (subject, semester, year) the student already has replaces
// that entry — the response message says "added/updated" because the caller
// can't always know which happened.
func (h *StudentHandler) AddGrade(w http.ResponseWriter, r *http.Request) {
	var in service.GradeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	student, err := h.students.AddGrade(r.Context(), auth.RoleFromContext(r.Context()), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Grade added/updated successfully", map[string]any{"student": student})
}

// UpdateGrade handles PUT /api/students/{id}/grades/{gradeId}.
func (h *StudentHandler) UpdateGrade(w http.ResponseWriter, r *http.Request) {
	var in service.GradeInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	student, err := h.students.UpdateGrade(r.Context(), auth.RoleFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "gradeId"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Grade updated successfully", map[string]any{"student": student})
}

// DeleteGrade handles DELETE /api/students/{id}/grades/{gradeId}.
func (h *StudentHandler) DeleteGrade(w http.ResponseWriter, r *http.Request) {
	student, err := h.students.DeleteGrade(r.Context(), auth.RoleFromContext(r.Context()),
		chi.URLParam(r, "id"), chi.URLParam(r, "gradeId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Grade deleted successfully", map[string]any{"student": student})
}
