package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/campus-reservations/internal/model"
)

// StudentRepo reads the students table.  Accounts are provisioned by the
// university directory; this service never creates them.
type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

// GetByEmail fetches a student by normalized email.
func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (model.Student, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var s model.Student
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,student_id_no,email,password_hash FROM students WHERE email=? LIMIT 1",
		email).Scan(&s.ID, &s.StudentIDNo, &s.Email, &s.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, classify(err)
}

// GetByID fetches a student by UUID.
func (r *StudentRepo) GetByID(ctx context.Context, id string) (model.Student, error) {
	var s model.Student
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,student_id_no,email,password_hash FROM students WHERE id=? LIMIT 1",
		id).Scan(&s.ID, &s.StudentIDNo, &s.Email, &s.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrNotFound
	}
	return s, classify(err)
}
