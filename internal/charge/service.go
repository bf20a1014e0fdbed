package charge

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/juniorwebyte/ploutos-sub000/internal/brcode"
	"github.com/juniorwebyte/ploutos-sub000/internal/errorutil"
	"github.com/juniorwebyte/ploutos-sub000/internal/merchant"
	"github.com/juniorwebyte/ploutos-sub000/internal/pixkey"
	"github.com/juniorwebyte/ploutos-sub000/internal/timeutil"
)

type Service struct {
	storage Storage
}

func NewService(storage Storage) Service {
	return Service{storage: storage}
}

// Create validates the merchant configuration, assembles the BR Code payload
// and persists the resulting charge. cfg is snapshotted into the charge so
// configuration edits never retroactively change an issued payload.
func (s Service) Create(ctx context.Context, amount, description string, cfg merchant.Config) (*Charge, error) {
	if err := pixkey.Validate(cfg.PixKey, cfg.PixKeyType); err != nil {
		return nil, errorutil.Format("%w: %w", ErrInvalidMerchantKey, err)
	}

	amount, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	now := timeutil.Now()

	c := &Charge{
		ID:          id,
		Amount:      amount,
		Description: brcode.NormalizeField(description, brcode.MaxDescriptionLen),
		Status:      StatusActive,
		TxID:        transactionID(id),
		Merchant: Merchant{
			Name:    cfg.Name,
			City:    cfg.City,
			Key:     cfg.PixKey,
			KeyType: cfg.PixKeyType,
		},
		CreatedAt:       now,
		ExpiresAt:       now.Add(TTL),
		StatusUpdatedAt: now,
	}

	payload, err := brcode.Encode(brcode.Options{
		Key:          cfg.PixKey,
		KeyType:      cfg.PixKeyType,
		Amount:       amount,
		MerchantName: cfg.Name,
		MerchantCity: cfg.City,
		TxID:         c.TxID,
		Description:  c.Description,
	})
	if err != nil {
		if errors.Is(err, brcode.ErrEmptyField) {
			return nil, errorutil.Format("%w: %w", ErrEmptyRequiredField, err)
		}
		if errors.Is(err, brcode.ErrInvalidAmount) {
			return nil, errorutil.Format("%w: %w", ErrInvalidAmount, err)
		}
		return nil, err
	}
	c.Payload = payload

	if err := s.storage.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "charge created", "charge_id", c.ID, "amount", c.Amount, "expires_at", c.ExpiresAt)
	return c, nil
}

// Charge fetches a charge by id. Ids that are not valid UUIDs are reported
// as not found rather than as a distinct error.
func (s Service) Charge(ctx context.Context, id string) (*Charge, error) {
	chargeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.storage.Charge(ctx, chargeID)
}

// Settle transitions an active charge to SETTLED, standing in for the
// confirmation channel of a real banking backend. Settling an already
// settled charge returns ErrInvalidTransition; an unknown id returns
// ErrNotFound.
func (s Service) Settle(ctx context.Context, id string) (*Charge, error) {
	chargeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := s.storage.UpdateStatus(ctx, chargeID, StatusActive, StatusSettled, timeutil.Now()); err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "charge settled", "charge_id", chargeID)
	return s.storage.Charge(ctx, chargeID)
}

// transactionID derives the protocol-level transaction reference from the
// charge id: hyphens removed, uppercased, capped at the field limit.
func transactionID(id uuid.UUID) string {
	txID := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	if len(txID) > brcode.MaxTxIDLen {
		txID = txID[:brcode.MaxTxIDLen]
	}
	return txID
}
