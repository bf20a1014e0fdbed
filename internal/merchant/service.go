package merchant

import (
	"context"
	"errors"
	"fmt"

	"github.com/juniorwebyte/ploutos-sub000/internal/errorutil"
	"github.com/juniorwebyte/ploutos-sub000/internal/pixkey"
	"github.com/juniorwebyte/ploutos-sub000/internal/timeutil"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errorutil.New("merchant configuration not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) Service {
	return Service{db: db}
}

// Config returns the active merchant configuration.
func (s Service) Config(ctx context.Context) (*Config, error) {
	c := &Config{}
	if err := s.db.WithContext(ctx).Order("created_at").First(c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// Save validates the configured Pix key and upserts the configuration. An
// invalid key is rejected here so it can never reach payload assembly.
func (s Service) Save(ctx context.Context, c *Config) error {
	if err := pixkey.Validate(c.PixKey, c.PixKeyType); err != nil {
		return err
	}

	c.UpdatedAt = timeutil.Now()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("could not save merchant configuration: %w", err)
	}
	return nil
}
