package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// ErrHallNotFound indicates that a hall was not located in the DB.
var ErrHallNotFound = errors.New("hall not found")

// RowLayout describes one row of a hall layout at creation time.
type RowLayout struct {
	RowNumber uint32 `json:"row_number"`
	SeatCount uint32 `json:"seat_count"`
	SeatType  string `json:"seat_type"`
}

// HallRepo manages halls together with their rows and seats.  Seats
// are created once at hall setup and never modified afterwards; the
// only way to remove them is deleting the whole hall.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

// CreateWithLayout inserts a hall, its rows and their seats in one
// transaction.  Row numbers are taken from the layout as given; each
// row's seats are numbered 1..SeatCount.  An empty seat type defaults
// to STANDARD.
func (r *HallRepo) CreateWithLayout(ctx context.Context, h *model.Hall, layout []RowLayout) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := tx.ExecContext(ctx, `INSERT INTO halls (name) VALUES (?)`, h.Name)
	if err != nil {
		return err
	}
	hallID, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(hallID)
	for _, row := range layout {
		rowRes, err := tx.ExecContext(ctx,
			`INSERT INTO hall_rows (hall_id, row_number, seat_count) VALUES (?, ?, ?)`,
			h.ID, row.RowNumber, row.SeatCount)
		if err != nil {
			return err
		}
		rowID, err := rowRes.LastInsertId()
		if err != nil {
			return err
		}
		seatType := row.SeatType
		if seatType == "" {
			seatType = "STANDARD"
		}
		if row.SeatCount == 0 {
			continue
		}
		query := `INSERT INTO seats (row_id, seat_number, seat_type) VALUES `
		args := make([]interface{}, 0, int(row.SeatCount)*3)
		for n := uint32(1); n <= row.SeatCount; n++ {
			if n > 1 {
				query += ","
			}
			query += "(?, ?, ?)"
			args = append(args, rowID, n, seatType)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID retrieves a hall by id, returning ErrHallNotFound when it
// does not exist.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, name FROM halls WHERE id = ?`
	var h model.Hall
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns all halls in the region.
func (r *HallRepo) List(ctx context.Context) ([]model.Hall, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM halls ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Hall, 0)
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, err
		}
		result = append(result, h)
	}
	return result, rows.Err()
}

// Delete removes a hall together with its rows and seats.  The
// cascade is explicit and transactional so the hall never loses part
// of its layout.  Deletion is blocked with ErrConflict while shows
// are still scheduled in the hall.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	var showCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE hall_id = ?`, id).Scan(&showCount); err != nil {
		return err
	}
	if showCount > 0 {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM seats WHERE row_id IN (SELECT id FROM hall_rows WHERE hall_id = ?)`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM hall_rows WHERE hall_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM halls WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrHallNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
