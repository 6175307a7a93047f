package repository

import (
	"context"
	"database/sql"
	"errors"
)

// ErrBookingNotFound is returned by Get for an unknown id.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo handles the booking log.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo {
	return &BookingRepo{db: db}
}

func (r *BookingRepo) Insert(ctx context.Context, b Booking) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO bookings(id, kind, target, summary, trade_json, booked_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.Kind, b.Target, b.Summary, b.TradeJSON, b.BookedAt)
	return err
}

func (r *BookingRepo) Get(ctx context.Context, id string) (Booking, error) {
	var b Booking
	err := r.db.QueryRowContext(ctx, `
	SELECT id, kind, target, summary, trade_json, booked_at FROM bookings WHERE id = ?
	`, id).Scan(&b.ID, &b.Kind, &b.Target, &b.Summary, &b.TradeJSON, &b.BookedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, ErrBookingNotFound
	}
	return b, err
}

// List returns the most recent bookings first. limit <= 0 returns all.
func (r *BookingRepo) List(ctx context.Context, limit int) ([]Booking, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, kind, target, summary, trade_json, booked_at
	FROM bookings ORDER BY booked_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Kind, &b.Target, &b.Summary, &b.TradeJSON, &b.BookedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
