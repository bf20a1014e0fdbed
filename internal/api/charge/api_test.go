package charge_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	chargeapi "github.com/juniorwebyte/ploutos-sub000/internal/api/charge"
	"github.com/juniorwebyte/ploutos-sub000/internal/charge"
	"github.com/juniorwebyte/ploutos-sub000/internal/idempotency"
	"github.com/juniorwebyte/ploutos-sub000/internal/merchant"
	"github.com/juniorwebyte/ploutos-sub000/internal/pixkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMerchantSource struct {
	cfg *merchant.Config
	err error
}

func (s stubMerchantSource) Config(context.Context) (*merchant.Config, error) {
	return s.cfg, s.err
}

type stubRenderer struct{}

func (stubRenderer) Render(payload string) ([]byte, error) {
	return []byte("png:" + payload), nil
}

type memoryIdempotency struct {
	mu      sync.Mutex
	records map[string]idempotency.Record
}

func (s *memoryIdempotency) Response(_ context.Context, id string) (*idempotency.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, idempotency.ErrNotFound
	}
	return &rec, nil
}

func (s *memoryIdempotency) Create(_ context.Context, rec *idempotency.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.ID] = *rec
	return nil
}

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	mux := http.NewServeMux()
	chargeapi.NewServer(
		"http://localhost",
		charge.NewService(charge.NewMemoryStorage()),
		stubMerchantSource{cfg: &merchant.Config{
			Name:       "Loja Ploutos",
			City:       "Sao Paulo",
			PixKey:     "123e4567-e89b-12d3-a456-426614174000",
			PixKeyType: pixkey.TypeRandom,
		}},
		&memoryIdempotency{records: make(map[string]idempotency.Record)},
		stubRenderer{},
	).RegisterRoutes(mux)
	return mux
}

func createCharge(t *testing.T, mux *http.ServeMux, body string) map[string]any {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/charges", bytes.NewReader([]byte(body)))
	req.Header.Set("X-Idempotency-Key", "key-"+body)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestServer_CreateAndGet(t *testing.T) {
	mux := newTestMux(t)

	resp := createCharge(t, mux, `{"amount":"29.9","description":"Assinatura"}`)
	assert.Equal(t, "29.90", resp["amount"])
	assert.Equal(t, "ACTIVE", resp["status"])
	assert.Equal(t, false, resp["expired"])
	assert.NotEmpty(t, resp["payload"])
	assert.NotEmpty(t, resp["expiresAt"])

	req := httptest.NewRequest(http.MethodGet, "/charges/"+resp["id"].(string), nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, resp["payload"], got["payload"])
}

func TestServer_Settle(t *testing.T) {
	mux := newTestMux(t)

	resp := createCharge(t, mux, `{"amount":"10.00"}`)
	id := resp["id"].(string)

	req := httptest.NewRequest(http.MethodPost, "/charges/"+id+"/settle", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var settled map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settled))
	assert.Equal(t, "SETTLED", settled["status"])

	// Second settle is rejected.
	req = httptest.NewRequest(http.MethodPost, "/charges/"+id+"/settle", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_CreateRejections(t *testing.T) {
	mux := newTestMux(t)

	for _, body := range []string{`{"amount":"0"}`, `{"amount":"-5"}`, `{"amount":"abc"}`} {
		req := httptest.NewRequest(http.MethodPost, "/charges", bytes.NewReader([]byte(body)))
		req.Header.Set("X-Idempotency-Key", "key-"+body)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, body)
	}
}

func TestServer_GetUnknown(t *testing.T) {
	mux := newTestMux(t)

	req := httptest.NewRequest(http.MethodGet, "/charges/123e4567-e89b-12d3-a456-426614174000", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_QRCode(t *testing.T) {
	mux := newTestMux(t)

	resp := createCharge(t, mux, `{"amount":"10.00"}`)

	req := httptest.NewRequest(http.MethodGet, "/charges/"+resp["id"].(string)+"/qrcode", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "png:"+resp["payload"].(string), w.Body.String())
}
