package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/stickerbot/order"
)

const insertOrderQuery = `
	INSERT INTO orders (user_id, username, quantity, format, total_price, file_ids)
	VALUES ($1, $2, $3, $4, $5, $6)`

// PostgresSink stores completed orders in the orders table. It is the durable
// alternative to the CSV log.
type PostgresSink struct {
	db *sqlx.DB
}

// NewPostgresSink wraps an already connected database handle.
func NewPostgresSink(db *sqlx.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Save implements order.Sink.
func (s *PostgresSink) Save(ctx context.Context, rec order.Record) error {
	_, err := s.db.ExecContext(ctx, insertOrderQuery,
		rec.UserID,
		rec.Username,
		rec.Quantity,
		rec.Format,
		rec.Total,
		strings.Join(rec.FileIDs, FileIDSeparator),
	)
	if err != nil {
		return fmt.Errorf("postgres sink: insert order: %w", err)
	}
	return nil
}
