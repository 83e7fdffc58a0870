package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/campus-reservations/internal/model"
)

// FacilityRepo reads sports facilities joined with their facility type.
type FacilityRepo struct{ DB *sql.DB }

func NewFacilityRepo(db *sql.DB) *FacilityRepo { return &FacilityRepo{DB: db} }

const facilitySelect = `SELECT f.id, f.name, f.status, f.location_details,
       t.id, t.name, t.opening_time, t.closing_time, t.slot_duration_minutes
    FROM sports_facilities f
    JOIN sports_facility_types t ON t.id = f.facility_type_id`

// ListAvailable returns facilities whose status is available and whose
// type is active, ordered by type then facility name.
func (r *FacilityRepo) ListAvailable(ctx context.Context) ([]model.Facility, error) {
	q := facilitySelect + `
    WHERE f.status = 'available' AND t.is_active = TRUE
    ORDER BY t.name, f.name`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := []model.Facility{}
	for rows.Next() {
		var f model.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Status, &f.LocationDetails,
			&f.TypeID, &f.TypeName, &f.OpeningTime, &f.ClosingTime, &f.SlotMinutes); err != nil {
			return nil, classify(err)
		}
		out = append(out, f)
	}
	return out, classify(rows.Err())
}

// Rules returns the slot rule of facility id.  Unknown facilities and
// facilities that are not bookable yield ErrNotFound.
func (r *FacilityRepo) Rules(ctx context.Context, id uint64) (model.FacilityRules, error) {
	const q = `SELECT f.id, t.opening_time, t.closing_time, t.slot_duration_minutes
    FROM sports_facilities f
    JOIN sports_facility_types t ON t.id = f.facility_type_id
    WHERE f.id = ? AND f.status = 'available' AND t.is_active = TRUE`
	var fr model.FacilityRules
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&fr.FacilityID, &fr.OpeningTime, &fr.ClosingTime, &fr.SlotMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return fr, ErrNotFound
	}
	return fr, classify(err)
}
