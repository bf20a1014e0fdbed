package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type CtxKey string

const CtxKeyInteractionID CtxKey = "interaction_id"

const headerInteractionID = "X-Interaction-ID"

// InteractionIDMiddleware tags every request with an interaction id, echoed
// back in the response and attached to every log record through the context.
func InteractionIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		interactionID := r.Header.Get(headerInteractionID)
		if _, err := uuid.Parse(interactionID); err != nil {
			interactionID = uuid.NewString()
		}

		w.Header().Set(headerInteractionID, interactionID)
		ctx := context.WithValue(r.Context(), CtxKeyInteractionID, interactionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
