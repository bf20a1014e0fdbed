package charge

import (
	"time"

	"github.com/google/uuid"
	"github.com/juniorwebyte/ploutos-sub000/internal/pixkey"
)

// TTL is the fixed charge lifetime, by protocol convention. It is not
// configurable per charge.
const TTL = 5 * time.Minute

type Status string

const (
	StatusActive  Status = "ACTIVE"
	StatusSettled Status = "SETTLED"
)

// Charge is one issued, time-boxed payment request. It is created once and
// its payload is never recomputed; the only stored transition is
// ACTIVE -> SETTLED.
type Charge struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Amount      string
	Description string
	Status      Status
	Payload     string
	TxID        string
	Merchant    Merchant `gorm:"serializer:json"`

	CreatedAt       time.Time
	ExpiresAt       time.Time
	StatusUpdatedAt time.Time
}

func (Charge) TableName() string {
	return "charges"
}

// Expired reports whether the charge payload should no longer be honored.
// Expiration is derived from the clock, never stored, so callers pass now
// explicitly.
func (c Charge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Merchant is the configuration snapshot taken when the charge was created.
type Merchant struct {
	Name    string      `json:"name"`
	City    string      `json:"city"`
	Key     string      `json:"key"`
	KeyType pixkey.Type `json:"key_type"`
}
