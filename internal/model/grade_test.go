package model

import (
	"math"
	"testing"
)

// almostEqual compares floats with a small tolerance — GPA values come out of
// division and must not be compared with ==.
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGradePoints(t *testing.T) {
	tests := []struct {
		letter string
		want   float64
	}{
		{"A+", 4.0},
		{"A", 4.0},
		{"A-", 3.7},
		{"B+", 3.3},
		{"B", 3.0},
		{"B-", 2.7},
		{"C+", 2.3},
		{"C", 2.0},
		{"C-", 1.7},
		{"D+", 1.3},
		{"D", 1.0},
		{"F", 0.0},
		{"P", 2.0},
		{"NP", 0.0},
		{"X", 0.0}, // unknown letters map to 0
	}

	for _, tt := range tests {
		t.Run(tt.letter, func(t *testing.T) {
			if got := GradePoints(tt.letter); !almostEqual(got, tt.want) {
				t.Errorf("GradePoints(%q) = %v, want %v", tt.letter, got, tt.want)
			}
		})
	}
}

func TestComputeGPA_EmptyLedger(t *testing.T) {
	if got := ComputeGPA(nil); got != 0 {
		t.Errorf("ComputeGPA(nil) = %v, want 0", got)
	}
	if got := ComputeGPA([]Grade{}); got != 0 {
		t.Errorf("ComputeGPA(empty) = %v, want 0", got)
	}
}

func TestComputeGPA(t *testing.T) {
	tests := []struct {
		name   string
		grades []Grade
		want   float64
	}{
		{
			name:   "single A is 4.0",
			grades: []Grade{{Grade: "A"}},
			want:   4.0,
		},
		{
			name:   "A and B average to 3.5",
			grades: []Grade{{Grade: "A"}, {Grade: "B"}},
			want:   3.5,
		},
		{
			name:   "mixed letters",
			grades: []Grade{{Grade: "A-"}, {Grade: "B+"}, {Grade: "C"}},
			want:   (3.7 + 3.3 + 2.0) / 3,
		},
		{
			name:   "all failing is 0",
			grades: []Grade{{Grade: "F"}, {Grade: "NP"}},
			want:   0,
		},
		{
			name:   "pass counts as 2.0",
			grades: []Grade{{Grade: "P"}, {Grade: "A"}},
			want:   3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeGPA(tt.grades); !almostEqual(got, tt.want) {
				t.Errorf("ComputeGPA() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidGrades_Has14Values(t *testing.T) {
	grades := ValidGrades()
	if len(grades) != 14 {
		t.Fatalf("ValidGrades() has %d values, want 14", len(grades))
	}

	// Every accepted letter must have a point mapping.
	for _, g := range grades {
		if _, ok := gradePoints[g]; !ok {
			t.Errorf("grade %q has no point mapping", g)
		}
	}

	// D- is intentionally NOT accepted, even though the point table carries it.
	for _, g := range grades {
		if g == "D-" {
			t.Error("D- must not be in the accepted grade enum")
		}
	}
}

func TestRole(t *testing.T) {
	if !RoleAdmin.IsAdmin() || !RoleAdmin.FacultyOrAbove() {
		t.Error("admin must satisfy both admin and faculty-or-above")
	}
	if RoleFaculty.IsAdmin() {
		t.Error("faculty must not satisfy admin")
	}
	if !RoleFaculty.FacultyOrAbove() {
		t.Error("faculty must satisfy faculty-or-above")
	}
	if RoleNone.FacultyOrAbove() || RoleNone.IsAdmin() || RoleNone.Valid() {
		t.Error("the zero role must satisfy nothing")
	}
}
