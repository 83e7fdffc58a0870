package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/campus-reservations/internal/model"
)

type MealTypeRepo struct{ DB *sql.DB }

func NewMealTypeRepo(db *sql.DB) *MealTypeRepo { return &MealTypeRepo{DB: db} }

// List returns every meal type ordered by id.
func (r *MealTypeRepo) List(ctx context.Context) ([]model.MealType, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id,name FROM meal_types ORDER BY id")
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []model.MealType{}
	for rows.Next() {
		var m model.MealType
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, classify(err)
		}
		out = append(out, m)
	}
	return out, classify(rows.Err())
}
