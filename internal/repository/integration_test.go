//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/campus-reservations/internal/database"
	"github.com/iliyamo/campus-reservations/internal/model"
)

// openIntegrationDB connects to MYSQL_TEST_DSN (which must include
// parseTime=true) and applies the schema.
func openIntegrationDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("MYSQL_TEST_DSN")
	if dsn == "" {
		t.Skip("MYSQL_TEST_DSN not set")
	}
	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

func seed(t *testing.T, db *sql.DB) uint64 {
	t.Helper()
	ctx := context.Background()
	for _, id := range []string{alice, bob} {
		_, err := db.ExecContext(ctx, `INSERT IGNORE INTO students (id, student_id_no, email, password_hash) VALUES (?, ?, ?, 'x')`,
			id, id[:8], id+"@test")
		require.NoError(t, err)
	}
	res, err := db.ExecContext(ctx, `INSERT INTO sports_facility_types (name, opening_time, closing_time, slot_duration_minutes)
		VALUES (?, '09:00:00', '11:00:00', 60)`, "it-"+time.Now().Format("150405.000000"))
	require.NoError(t, err)
	typeID, _ := res.LastInsertId()
	res, err = db.ExecContext(ctx, `INSERT INTO sports_facilities (facility_type_id, name) VALUES (?, 'Court')`, typeID)
	require.NoError(t, err)
	fid, _ := res.LastInsertId()
	return uint64(fid)
}

func TestIntegrationConcurrentCancel(t *testing.T) {
	db := openIntegrationDB(t)
	fid := seed(t, db)
	repo := NewSportsRepo(db)
	ctx := context.Background()

	start := time.Date(2030, 1, 2, 9, 0, 0, 0, time.UTC)
	r, err := repo.Create(ctx, alice, fid, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = repo.Create(ctx, bob, fid, start, start.Add(time.Hour))
	require.ErrorIs(t, err, ErrDuplicateBooking)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.Cancel(ctx, r.ID, alice)
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, conflict)

	// The start is free again once the booking is cancelled.
	again, err := repo.Create(ctx, bob, fid, start, start.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, again.Status)

	booked, err := repo.BookedStartTimes(ctx, fid, start.Add(-time.Hour), start.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, booked, 1)
}
