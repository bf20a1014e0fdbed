package charge_test

import (
	"context"
	"testing"
	"time"

	"github.com/juniorwebyte/ploutos-sub000/internal/brcode"
	"github.com/juniorwebyte/ploutos-sub000/internal/charge"
	"github.com/juniorwebyte/ploutos-sub000/internal/merchant"
	"github.com/juniorwebyte/ploutos-sub000/internal/pixkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMerchantConfig() merchant.Config {
	return merchant.Config{
		Name:       "Loja Ploutos",
		City:       "São Paulo",
		PixKey:     "123e4567-e89b-12d3-a456-426614174000",
		PixKeyType: pixkey.TypeRandom,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	c, err := service.Create(ctx, "29.9", "Assinatura mensal", testMerchantConfig())
	require.NoError(t, err)

	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", c.ID.String())
	assert.Equal(t, "29.90", c.Amount)
	assert.Equal(t, charge.StatusActive, c.Status)
	assert.Equal(t, c.CreatedAt.Add(charge.TTL), c.ExpiresAt)
	assert.False(t, c.Expired(c.CreatedAt))
	assert.True(t, c.Expired(c.CreatedAt.Add(charge.TTL)))
	assert.True(t, c.Expired(c.CreatedAt.Add(6*time.Minute)))

	// The merchant configuration is snapshotted into the charge.
	assert.Equal(t, "Loja Ploutos", c.Merchant.Name)
	assert.Equal(t, "São Paulo", c.Merchant.City)
	assert.Equal(t, pixkey.TypeRandom, c.Merchant.KeyType)

	// The payload is a valid BR Code correlated to the charge.
	code, err := brcode.Parse(c.Payload)
	require.NoError(t, err)
	assert.Equal(t, "29.90", code.Amount)
	assert.Equal(t, c.TxID, code.TransactionID)
	assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", code.Key)

	got, err := service.Charge(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, c.Payload, got.Payload)
}

func TestService_Create_TxIDDerivedFromID(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	c, err := service.Create(ctx, "10", "", testMerchantConfig())
	require.NoError(t, err)

	assert.Len(t, c.TxID, brcode.MaxTxIDLen)
	assert.NotContains(t, c.TxID, "-")
}

func TestService_Create_InvalidAmount(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	for _, amount := range []string{"0", "-5", "", "abc"} {
		_, err := service.Create(ctx, amount, "", testMerchantConfig())
		assert.ErrorIs(t, err, charge.ErrInvalidAmount, amount)
	}
}

func TestService_Create_InvalidMerchantKey(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	cfg := testMerchantConfig()
	cfg.PixKey = "1234567890"
	cfg.PixKeyType = pixkey.TypeCPF

	_, err := service.Create(ctx, "10.00", "", cfg)
	assert.ErrorIs(t, err, charge.ErrInvalidMerchantKey)
}

func TestService_Create_EmptyRequiredField(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	cfg := testMerchantConfig()
	cfg.City = "   "

	_, err := service.Create(ctx, "10.00", "", cfg)
	assert.ErrorIs(t, err, charge.ErrEmptyRequiredField)
}

func TestService_Settle(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	c, err := service.Create(ctx, "10.00", "", testMerchantConfig())
	require.NoError(t, err)

	settled, err := service.Settle(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, charge.StatusSettled, settled.Status)

	// The transition is monotonic: a second settle is rejected.
	_, err = service.Settle(ctx, c.ID.String())
	assert.ErrorIs(t, err, charge.ErrInvalidTransition)
}

func TestService_Settle_Unknown(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	_, err := service.Settle(ctx, "123e4567-e89b-12d3-a456-426614174000")
	assert.ErrorIs(t, err, charge.ErrNotFound)

	_, err = service.Settle(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, charge.ErrNotFound)
}

func TestService_Charge_Unknown(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	_, err := service.Charge(ctx, "123e4567-e89b-12d3-a456-426614174000")
	assert.ErrorIs(t, err, charge.ErrNotFound)
}

func TestService_PayloadImmutableAfterSettle(t *testing.T) {
	ctx := context.Background()
	service := charge.NewService(charge.NewMemoryStorage())

	c, err := service.Create(ctx, "10.00", "", testMerchantConfig())
	require.NoError(t, err)

	settled, err := service.Settle(ctx, c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, c.Payload, settled.Payload)
	assert.Equal(t, c.ExpiresAt, settled.ExpiresAt)
}
