package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/student-records/internal/apperror"
	"github.com/sakif/student-records/internal/model"
	"github.com/sakif/student-records/internal/repository"
)

// Compile-time check that *DB implements repository.StudentRepository.
var _ repository.StudentRepository = (*DB)(nil)

// studentColumns is the canonical SELECT column list; scanStudent reads rows
// in exactly this order. Keeping them together means a schema change breaks
// one place, loudly.
const studentColumns = `id, student_id, first_name, last_name, email, phone,
	date_of_birth, gender, street, city, state, zip_code, country,
	major, minor, enrollment_date, expected_graduation, current_semester,
	current_year, gpa, credits_completed, total_credits,
	emergency_name, emergency_relation, emergency_phone, emergency_email,
	status, notes, created_at, updated_at`

// querier is the subset of sql.DB/sql.Tx the helpers need, so the same code
// runs inside and outside transactions.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on error. Every mutation in this package goes through here — the
// record-plus-recomputed-GPA write either fully commits or not at all.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing transaction: %w", err)
	}
	return nil
}

func scanStudent(row interface{ Scan(dest ...any) error }) (*model.Student, error) {
	var s model.Student
	err := row.Scan(
		&s.ID, &s.StudentID, &s.FirstName, &s.LastName, &s.Email, &s.Phone,
		&s.DateOfBirth, &s.Gender,
		&s.Address.Street, &s.Address.City, &s.Address.State,
		&s.Address.ZipCode, &s.Address.Country,
		&s.AcademicInfo.Major, &s.AcademicInfo.Minor,
		&s.AcademicInfo.EnrollmentDate, &s.AcademicInfo.ExpectedGraduation,
		&s.AcademicInfo.CurrentSemester, &s.AcademicInfo.CurrentYear,
		&s.AcademicInfo.GPA, &s.AcademicInfo.CreditsCompleted,
		&s.AcademicInfo.TotalCredits,
		&s.EmergencyContact.Name, &s.EmergencyContact.Relationship,
		&s.EmergencyContact.Phone, &s.EmergencyContact.Email,
		&s.Status, &s.Notes, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Grades = []model.Grade{}
	return &s, nil
}

// checkStudentKeys rejects a write whose studentId or email collides with
// another student. excludeID carves the record being updated out of the scan
// so a student can keep its own keys.
//
// The UNIQUE indexes remain the authoritative guard — this pre-check exists
// to produce proper field-level errors, and mapUniqueErr below catches the
// race where two writers pass the pre-check simultaneously.
func checkStudentKeys(ctx context.Context, q querier, studentID, email, excludeID string) error {
	var field string
	err := q.QueryRowContext(ctx,
		`SELECT CASE WHEN student_id = ? THEN 'studentId' ELSE 'email' END
		 FROM students
		 WHERE (student_id = ? OR email = ? COLLATE NOCASE) AND id != ?
		 LIMIT 1`,
		studentID, studentID, email, excludeID,
	).Scan(&field)

	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("sqlite: checking student keys: %w", err)
	}

	if field == "studentId" {
		return apperror.Duplicate("studentId", "A student with this Student ID already exists")
	}
	return apperror.Duplicate("email", "A student with this email already exists")
}

// mapUniqueErr translates SQLite UNIQUE violations into duplicate-key domain
// errors. Returns the input unchanged for anything else.
func mapUniqueErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "students.student_id"):
		return apperror.Duplicate("studentId", "A student with this Student ID already exists")
	case strings.Contains(msg, "students.email"):
		return apperror.Duplicate("email", "A student with this email already exists")
	case strings.Contains(msg, "users.username"):
		return apperror.Duplicate("username", "A user with this username already exists")
	case strings.Contains(msg, "users.email"):
		return apperror.Duplicate("email", "A user with this email already exists")
	}
	return err
}

// Create inserts a new student. The caller supplies a validated record; this
// method assigns identity and timestamps and recomputes the GPA (0, the
// ledger is empty at creation).
func (db *DB) Create(ctx context.Context, student *model.Student) error {
	student.ID = xid.New().String()
	now := time.Now()
	student.CreatedAt = now
	student.UpdatedAt = now
	student.AcademicInfo.GPA = model.ComputeGPA(student.Grades)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkStudentKeys(ctx, tx, student.StudentID, student.Email, student.ID); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx,
			`INSERT INTO students (`+studentColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			student.ID, student.StudentID, student.FirstName, student.LastName,
			student.Email, student.Phone, student.DateOfBirth, student.Gender,
			student.Address.Street, student.Address.City, student.Address.State,
			student.Address.ZipCode, student.Address.Country,
			student.AcademicInfo.Major, student.AcademicInfo.Minor,
			student.AcademicInfo.EnrollmentDate, student.AcademicInfo.ExpectedGraduation,
			student.AcademicInfo.CurrentSemester, student.AcademicInfo.CurrentYear,
			student.AcademicInfo.GPA, student.AcademicInfo.CreditsCompleted,
			student.AcademicInfo.TotalCredits,
			student.EmergencyContact.Name, student.EmergencyContact.Relationship,
			student.EmergencyContact.Phone, student.EmergencyContact.Email,
			student.Status, student.Notes, student.CreatedAt, student.UpdatedAt,
		)
		if err != nil {
			if dup := mapUniqueErr(err); dup != err {
				return dup
			}
			return fmt.Errorf("sqlite: creating student: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a student and their grade ledger.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Student, error) {
	return getStudent(ctx, db.conn, id)
}

func getStudent(ctx context.Context, q querier, id string) (*model.Student, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = ?`, id)

	student, err := scanStudent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("student", id)
		}
		return nil, fmt.Errorf("sqlite: getting student %s: %w", id, err)
	}

	grades, err := loadGrades(ctx, q, id)
	if err != nil {
		return nil, err
	}
	student.Grades = grades
	return student, nil
}

// loadGrades returns a student's ledger in position order.
func loadGrades(ctx context.Context, q querier, studentID string) ([]model.Grade, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, subject, grade, semester, year
		 FROM grades WHERE student_id = ? ORDER BY position`,
		studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading grades for %s: %w", studentID, err)
	}
	defer rows.Close()

	grades := []model.Grade{}
	for rows.Next() {
		var g model.Grade
		if err := rows.Scan(&g.ID, &g.Subject, &g.Grade, &g.Semester, &g.Year); err != nil {
			return nil, fmt.Errorf("sqlite: scanning grade row: %w", err)
		}
		grades = append(grades, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating grades: %w", err)
	}
	return grades, nil
}

// Update replaces a student's profile sub-documents in full. The grade
// ledger is untouched; the GPA is still recomputed from it inside the same
// transaction, keeping the invariant visible in every mutating path.
func (db *DB) Update(ctx context.Context, student *model.Student) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM students WHERE id = ?`, student.ID).Scan(&exists)
		if err == sql.ErrNoRows {
			return apperror.NotFound("student", student.ID)
		}
		if err != nil {
			return fmt.Errorf("sqlite: checking student %s: %w", student.ID, err)
		}

		// Uniqueness scan excludes the record being updated — keeping your
		// own keys is always allowed.
		if err := checkStudentKeys(ctx, tx, student.StudentID, student.Email, student.ID); err != nil {
			return err
		}

		grades, err := loadGrades(ctx, tx, student.ID)
		if err != nil {
			return err
		}
		student.Grades = grades
		student.AcademicInfo.GPA = model.ComputeGPA(grades)
		student.UpdatedAt = time.Now()

		_, err = tx.ExecContext(ctx,
			`UPDATE students SET
				student_id = ?, first_name = ?, last_name = ?, email = ?, phone = ?,
				date_of_birth = ?, gender = ?,
				street = ?, city = ?, state = ?, zip_code = ?, country = ?,
				major = ?, minor = ?, enrollment_date = ?, expected_graduation = ?,
				current_semester = ?, current_year = ?, gpa = ?,
				credits_completed = ?, total_credits = ?,
				emergency_name = ?, emergency_relation = ?, emergency_phone = ?, emergency_email = ?,
				status = ?, notes = ?, updated_at = ?
			 WHERE id = ?`,
			student.StudentID, student.FirstName, student.LastName, student.Email, student.Phone,
			student.DateOfBirth, student.Gender,
			student.Address.Street, student.Address.City, student.Address.State,
			student.Address.ZipCode, student.Address.Country,
			student.AcademicInfo.Major, student.AcademicInfo.Minor,
			student.AcademicInfo.EnrollmentDate, student.AcademicInfo.ExpectedGraduation,
			student.AcademicInfo.CurrentSemester, student.AcademicInfo.CurrentYear,
			student.AcademicInfo.GPA,
			student.AcademicInfo.CreditsCompleted, student.AcademicInfo.TotalCredits,
			student.EmergencyContact.Name, student.EmergencyContact.Relationship,
			student.EmergencyContact.Phone, student.EmergencyContact.Email,
			student.Status, student.Notes, student.UpdatedAt,
			student.ID,
		)
		if err != nil {
			if dup := mapUniqueErr(err); dup != err {
				return dup
			}
			return fmt.Errorf("sqlite: updating student %s: %w", student.ID, err)
		}
		return nil
	})
}

// Delete removes a student. The ON DELETE CASCADE on grades removes the
// owned ledger in the same statement — no partial deletion is observable.
func (db *DB) Delete(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM students WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting student %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("student", id)
	}
	return nil
}

// sortColumns whitelists the sortable fields, mapping the JSON names clients
// send to columns. Never interpolate raw client input into ORDER BY.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"firstName": "first_name",
	"lastName":  "last_name",
	"studentId": "student_id",
	"email":     "email",
	"status":    "status",
	"gpa":       "gpa",
	"major":     "major",
}

// likePattern escapes LIKE metacharacters in client input and wraps it for a
// substring match. SQLite's LIKE is case-insensitive for ASCII by default,
// which is exactly the contract for search and major filters.
func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// List runs the query engine: filter, sort, slice, and count in SQL.
//
// DETERMINISM:
// The ORDER BY always ends with "id ASC". xids are generated in creation
// order, so ties in the requested sort key fall back to creation order and a
// fixed snapshot paginates identically on every call — no duplicated or
// skipped records across pages.
func (db *DB) List(ctx context.Context, opts repository.ListOptions) (*repository.StudentPage, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 6)

	if s := opts.Filter.Search; s != "" {
		where = append(where,
			`(first_name LIKE ? ESCAPE '\' OR last_name LIKE ? ESCAPE '\'
			  OR student_id LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\')`)
		p := likePattern(s)
		args = append(args, p, p, p, p)
	}
	if m := opts.Filter.Major; m != "" {
		where = append(where, `major LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(m))
	}
	if st := opts.Filter.Status; st != "" {
		where = append(where, `status = ?`)
		args = append(args, st)
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	// Total count over the same filter, before slicing.
	var total int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM students`+whereClause, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting students: %w", err)
	}

	column, ok := sortColumns[opts.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}

	page, limit := opts.Page, opts.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(
		`SELECT %s FROM students%s ORDER BY %s %s, id ASC LIMIT ? OFFSET ?`,
		studentColumns, whereClause, column, direction,
	)
	rows, err := db.conn.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing students: %w", err)
	}
	defer rows.Close()

	students := make([]model.Student, 0, limit)
	ids := make([]string, 0, limit)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning student row: %w", err)
		}
		students = append(students, *s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating students: %w", err)
	}

	if err := db.attachGrades(ctx, students, ids); err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &repository.StudentPage{
		Students: students,
		Pagination: model.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// attachGrades loads the ledgers for one page of students in a single query.
func (db *DB) attachGrades(ctx context.Context, students []model.Student, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT student_id, id, subject, grade, semester, year
		 FROM grades WHERE student_id IN (`+placeholders+`)
		 ORDER BY student_id, position`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("sqlite: loading page grades: %w", err)
	}
	defer rows.Close()

	byStudent := make(map[string][]model.Grade, len(ids))
	for rows.Next() {
		var sid string
		var g model.Grade
		if err := rows.Scan(&sid, &g.ID, &g.Subject, &g.Grade, &g.Semester, &g.Year); err != nil {
			return fmt.Errorf("sqlite: scanning page grade: %w", err)
		}
		byStudent[sid] = append(byStudent[sid], g)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("sqlite: iterating page grades: %w", err)
	}

	for i := range students {
		if grades, ok := byStudent[students[i].ID]; ok {
			students[i].Grades = grades
		}
	}
	return nil
}

// UpsertGrade adds or replaces one ledger entry by its natural key, then
// recomputes the GPA — all in one transaction, so no reader can observe the
// new grade with the old GPA.
func (db *DB) UpsertGrade(ctx context.Context, studentID string, grade *model.Grade) (*model.Student, error) {
	var student *model.Student
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireStudent(ctx, tx, studentID); err != nil {
			return err
		}

		// Natural-key lookup: does this (subject, semester, year) already
		// have an entry?
		var existingID string
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM grades
			 WHERE student_id = ? AND subject = ? AND semester = ? AND year = ?`,
			studentID, grade.Subject, grade.Semester, grade.Year,
		).Scan(&existingID)

		switch {
		case err == sql.ErrNoRows:
			// New entry — append at the end of the ledger.
			grade.ID = xid.New().String()
			_, err = tx.ExecContext(ctx,
				`INSERT INTO grades (id, student_id, subject, grade, semester, year, position)
				 VALUES (?, ?, ?, ?, ?, ?,
					 (SELECT COALESCE(MAX(position) + 1, 0) FROM grades WHERE student_id = ?))`,
				grade.ID, studentID, grade.Subject, grade.Grade, grade.Semester, grade.Year,
				studentID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: inserting grade: %w", err)
			}
		case err != nil:
			return fmt.Errorf("sqlite: looking up grade key: %w", err)
		default:
			// Replace in place: same row, same position, new letter.
			grade.ID = existingID
			_, err = tx.ExecContext(ctx,
				`UPDATE grades SET grade = ? WHERE id = ?`,
				grade.Grade, existingID,
			)
			if err != nil {
				return fmt.Errorf("sqlite: replacing grade %s: %w", existingID, err)
			}
		}

		if err := recomputeGPA(ctx, tx, studentID); err != nil {
			return err
		}

		student, err = getStudent(ctx, tx, studentID)
		return err
	})
	return student, err
}

// ReplaceGrade overwrites the entry identified by gradeID with new values.
/// The natural-key constraint still applies: the new triple must not collide
// with a different entry in the same ledger.
func (db *DB) ReplaceGrade(ctx context.Context, studentID, gradeID string, grade *model.Grade) (*model.Student, error) {
	var student *model.Student
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireStudent(ctx, tx, studentID); err != nil {
			return err
		}

		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM grades WHERE id = ? AND student_id = ?`,
			gradeID, studentID).Scan(&exists)
		if err == sql.ErrNoRows {
			return apperror.NotFound("grade", gradeID)
		}
		if err != nil {
			return fmt.Errorf("sqlite: checking grade %s: %w", gradeID, err)
		}

		var clashID string
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM grades
			 WHERE student_id = ? AND subject = ? AND semester = ? AND year = ? AND id != ?`,
			studentID, grade.Subject, grade.Semester, grade.Year, gradeID,
		).Scan(&clashID)
		if err == nil {
			return apperror.Duplicate("subject",
				"A grade for this subject, semester and year already exists")
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("sqlite: checking grade key: %w", err)
		}

		grade.ID = gradeID
		_, err = tx.ExecContext(ctx,
			`UPDATE grades SET subject = ?, grade = ?, semester = ?, year = ?
			 WHERE id = ?`,
			grade.Subject, grade.Grade, grade.Semester, grade.Year, gradeID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: replacing grade %s: %w", gradeID, err)
		}

		if err := recomputeGPA(ctx, tx, studentID); err != nil {
			return err
		}

		student, err = getStudent(ctx, tx, studentID)
		return err
	})
	return student, err
}

// DeleteGrade removes one ledger entry by reference. A missing student and a
// missing grade are reported as distinct not-found errors.
func (db *DB) DeleteGrade(ctx context.Context, studentID, gradeID string) (*model.Student, error) {
	var student *model.Student
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := requireStudent(ctx, tx, studentID); err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM grades WHERE id = ? AND student_id = ?`,
			gradeID, studentID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: deleting grade %s: %w", gradeID, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlite: checking rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperror.NotFound("grade", gradeID)
		}

		if err := recomputeGPA(ctx, tx, studentID); err != nil {
			return err
		}

		student, err = getStudent(ctx, tx, studentID)
		return err
	})
	return student, err
}

// requireStudent fails with NotFound("student") when the id doesn't exist.
func requireStudent(ctx context.Context, q querier, id string) error {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM students WHERE id = ?`, id).Scan(&exists)
	if err == sql.ErrNoRows {
		return apperror.NotFound("student", id)
	}
	if err != nil {
		return fmt.Errorf("sqlite: checking student %s: %w", id, err)
	}
	return nil
}

// recomputeGPA re-derives the stored GPA from the current ledger and
// refreshes updated_at. Must run inside the transaction that changed the
// ledger — that's what makes the invariant hold under concurrent writers.
func recomputeGPA(ctx context.Context, q querier, studentID string) error {
	grades, err := loadGrades(ctx, q, studentID)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx,
		`UPDATE students SET gpa = ?, updated_at = ? WHERE id = ?`,
		model.ComputeGPA(grades), time.Now(), studentID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating gpa for %s: %w", studentID, err)
	}
	return nil
}

// Overview computes the fleet-wide statistics in four queries over the live
// store — never cached, so the numbers always match the current records.
func (db *DB) Overview(ctx context.Context) (*model.StatsOverview, error) {
	stats := &model.StatsOverview{MajorStats: []model.MajorCount{}}

	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(CASE WHEN status = ? THEN 1 END),
		        COUNT(CASE WHEN status = ? THEN 1 END)
		 FROM students`,
		model.StatusActive, model.StatusGraduated,
	).Scan(&stats.TotalStudents, &stats.ActiveStudents, &stats.GraduatedStudents)
	if err != nil {
		return nil, fmt.Errorf("sqlite: counting students: %w", err)
	}

	// Students with no grades sit at GPA 0 by the invariant; they carry no
	// academic signal, so the average covers gpa > 0 only. COALESCE turns
	// "no qualifying students" into 0 rather than NULL.
	err = db.conn.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(gpa), 0) FROM students WHERE gpa > 0`,
	).Scan(&stats.AvgGPA)
	if err != nil {
		return nil, fmt.Errorf("sqlite: averaging gpa: %w", err)
	}

	// Top 5 majors; the secondary ORDER BY major makes count ties
	// deterministic between calls.
	rows, err := db.conn.QueryContext(ctx,
		`SELECT major, COUNT(*) AS n FROM students
		 GROUP BY major ORDER BY n DESC, major ASC LIMIT 5`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: grouping majors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mc model.MajorCount
		if err := rows.Scan(&mc.Major, &mc.Count); err != nil {
			return nil, fmt.Errorf("sqlite: scanning major count: %w", err)
		}
		stats.MajorStats = append(stats.MajorStats, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating major counts: %w", err)
	}

	return stats, nil
}
