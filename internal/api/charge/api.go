// Package charge exposes the charge lifecycle over HTTP: creation, status
// queries, settlement and the QR rendering of the BR Code payload.
package charge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/juniorwebyte/ploutos-sub000/internal/api"
	"github.com/juniorwebyte/ploutos-sub000/internal/charge"
	"github.com/juniorwebyte/ploutos-sub000/internal/idempotency"
	"github.com/juniorwebyte/ploutos-sub000/internal/merchant"
	"github.com/juniorwebyte/ploutos-sub000/internal/qrcode"
	"github.com/juniorwebyte/ploutos-sub000/internal/timeutil"
	"github.com/rs/cors"
)

// MerchantSource supplies the configuration snapshotted into each charge.
type MerchantSource interface {
	Config(ctx context.Context) (*merchant.Config, error)
}

type Server struct {
	host               string
	service            charge.Service
	merchantSource     MerchantSource
	idempotencyService idempotency.Service
	renderer           qrcode.Renderer
}

func NewServer(
	host string,
	service charge.Service,
	merchantSource MerchantSource,
	idempotencyService idempotency.Service,
	renderer qrcode.Renderer,
) Server {
	return Server{
		host:               host,
		service:            service,
		merchantSource:     merchantSource,
		idempotencyService: idempotencyService,
		renderer:           renderer,
	}
}

func (s Server) RegisterRoutes(mux *http.ServeMux) {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.host},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
	})

	wrap := func(h http.Handler) http.Handler {
		return c.Handler(api.InteractionIDMiddleware(h))
	}

	idempotent := idempotency.Middleware(s.idempotencyService)
	mux.Handle("POST /charges", wrap(idempotent(http.HandlerFunc(s.create))))
	mux.Handle("GET /charges/{id}", wrap(http.HandlerFunc(s.get)))
	mux.Handle("POST /charges/{id}/settle", wrap(http.HandlerFunc(s.settle)))
	mux.Handle("GET /charges/{id}/qrcode", wrap(http.HandlerFunc(s.renderQR)))
}

type createRequest struct {
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

type chargeResponse struct {
	ID          string            `json:"id"`
	Amount      string            `json:"amount"`
	Description string            `json:"description,omitempty"`
	Status      charge.Status     `json:"status"`
	Expired     bool              `json:"expired"`
	Payload     string            `json:"payload"`
	TxID        string            `json:"txId"`
	CreatedAt   timeutil.DateTime `json:"createdAt"`
	ExpiresAt   timeutil.DateTime `json:"expiresAt"`
}

func (s Server) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, r, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "malformed request body"))
		return
	}

	cfg, err := s.merchantSource.Config(r.Context())
	if err != nil {
		writeResponseError(w, r, err)
		return
	}

	c, err := s.service.Create(r.Context(), req.Amount, req.Description, *cfg)
	if err != nil {
		writeResponseError(w, r, err)
		return
	}

	api.WriteJSON(w, newChargeResponse(c), http.StatusCreated)
}

func (s Server) get(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.Charge(r.Context(), r.PathValue("id"))
	if err != nil {
		writeResponseError(w, r, err)
		return
	}

	api.WriteJSON(w, newChargeResponse(c), http.StatusOK)
}

func (s Server) settle(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.Settle(r.Context(), r.PathValue("id"))
	if err != nil {
		writeResponseError(w, r, err)
		return
	}

	api.WriteJSON(w, newChargeResponse(c), http.StatusOK)
}

func (s Server) renderQR(w http.ResponseWriter, r *http.Request) {
	c, err := s.service.Charge(r.Context(), r.PathValue("id"))
	if err != nil {
		writeResponseError(w, r, err)
		return
	}

	png, err := s.renderer.Render(c.Payload)
	if err != nil {
		writeResponseError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func newChargeResponse(c *charge.Charge) chargeResponse {
	return chargeResponse{
		ID:          c.ID.String(),
		Amount:      c.Amount,
		Description: c.Description,
		Status:      c.Status,
		Expired:     c.Expired(timeutil.Now()),
		Payload:     c.Payload,
		TxID:        c.TxID,
		CreatedAt:   timeutil.NewDateTime(c.CreatedAt),
		ExpiresAt:   timeutil.NewDateTime(c.ExpiresAt),
	}
}

func writeResponseError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, charge.ErrNotFound):
		api.WriteError(w, r, api.NewError("CHARGE_NOT_FOUND", http.StatusNotFound, err.Error()))
	case errors.Is(err, charge.ErrInvalidAmount):
		api.WriteError(w, r, api.NewError("INVALID_AMOUNT", http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, charge.ErrInvalidMerchantKey):
		api.WriteError(w, r, api.NewError("INVALID_MERCHANT_KEY", http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, charge.ErrEmptyRequiredField):
		api.WriteError(w, r, api.NewError("EMPTY_REQUIRED_FIELD", http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, charge.ErrInvalidTransition):
		api.WriteError(w, r, api.NewError("INVALID_TRANSITION", http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, merchant.ErrNotFound):
		api.WriteError(w, r, api.NewError("MERCHANT_NOT_CONFIGURED", http.StatusUnprocessableEntity, err.Error()))
	default:
		api.WriteError(w, r, err)
	}
}
