package transport

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// TurnIDHeader carries the turn id on requests and responses.
const TurnIDHeader = "X-Turn-Id"

type turnIDKey struct{}

// TurnIDFromContext returns the turn ID from context, if present.
func TurnIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(turnIDKey{}).(string)
	return id, ok
}

// TurnIDMiddleware tags each request with a turn id, reusing a caller
// supplied one when it parses as a UUID.
func TurnIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(TurnIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(TurnIDHeader, id)
		ctx := context.WithValue(r.Context(), turnIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
