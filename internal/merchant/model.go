package merchant

import (
	"time"

	"github.com/google/uuid"
	"github.com/juniorwebyte/ploutos-sub000/internal/pixkey"
)

// Config is the merchant configuration read once per charge creation and
// snapshotted into the charge, so later edits never change an issued payload.
type Config struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string
	City       string
	PixKey     string
	PixKeyType pixkey.Type

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Config) TableName() string {
	return "merchant_configs"
}
