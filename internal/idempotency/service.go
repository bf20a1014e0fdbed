package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/juniorwebyte/ploutos-sub000/internal/errorutil"
	"gorm.io/gorm"
)

var ErrNotFound = errorutil.New("idempotency record not found")

// Record stores the request fingerprint and response of an already processed
// idempotent call.
type Record struct {
	ID         string `gorm:"primaryKey"`
	Request    string
	Response   string
	StatusCode int

	CreatedAt time.Time
}

func (Record) TableName() string {
	return "idempotency_records"
}

type Service interface {
	Response(ctx context.Context, id string) (*Record, error)
	Create(ctx context.Context, rec *Record) error
}

type service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return service{db: db}
}

func (s service) Response(ctx context.Context, id string) (*Record, error) {
	rec := &Record{}
	if err := s.db.WithContext(ctx).First(rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s service) Create(ctx context.Context, rec *Record) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("could not create idempotency record: %w", err)
	}
	return nil
}
