package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/campus-reservations/internal/model"
)

// BalanceKind selects one of the prepaid balance tables.
type BalanceKind string

const (
	CafeteriaBalance BalanceKind = "cafeteria"
	SportsBalance    BalanceKind = "sports"
)

var balanceTables = map[BalanceKind]string{
	CafeteriaBalance: "cafeteria_balances",
	SportsBalance:    "sports_balances",
}

type BalanceRepo struct{ DB *sql.DB }

func NewBalanceRepo(db *sql.DB) *BalanceRepo { return &BalanceRepo{DB: db} }

// GetByStudent returns the student's balance row of the given kind, or nil
// when the student has never been credited.
func (r *BalanceRepo) GetByStudent(ctx context.Context, kind BalanceKind, studentID string) (*model.Balance, error) {
	table, ok := balanceTables[kind]
	if !ok {
		return nil, fmt.Errorf("unknown balance kind %q", kind)
	}
	var b model.Balance
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,student_id,balance FROM "+table+" WHERE student_id=? LIMIT 1",
		studentID).Scan(&b.ID, &b.StudentID, &b.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &b, nil
}
