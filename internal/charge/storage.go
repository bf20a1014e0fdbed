package charge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage persists charges keyed by id. Implementations must serialize
// status transitions per charge id; Settle relies on the status precondition
// being checked atomically with the update.
type Storage interface {
	Create(ctx context.Context, c *Charge) error
	Charge(ctx context.Context, id uuid.UUID) (*Charge, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) error
}

type storage struct {
	db *gorm.DB
}

func NewStorage(db *gorm.DB) Storage {
	return storage{db: db}
}

func (s storage) Create(ctx context.Context, c *Charge) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("could not create charge: %w", err)
	}
	return nil
}

func (s storage) Charge(ctx context.Context, id uuid.UUID) (*Charge, error) {
	c := &Charge{}
	if err := s.db.WithContext(ctx).First(c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s storage) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) error {
	// The status precondition lives in the WHERE clause so concurrent
	// transitions on the same id serialize in the database.
	result := s.db.WithContext(ctx).
		Model(&Charge{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "status_updated_at": at})
	if result.Error != nil {
		return fmt.Errorf("could not update charge status: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if _, err := s.Charge(ctx, id); err != nil {
		return err
	}
	return ErrInvalidTransition
}
