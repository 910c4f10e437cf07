package transport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/rpggio/sommelier/internal/domain/session"
	"github.com/rpggio/sommelier/internal/domain/turn"
)

// TurnHandler runs one dispatcher turn.
type TurnHandler interface {
	Handle(ctx context.Context, req turn.Request) turn.Outcome
}

// Options wires the HTTP surfaces.
type Options struct {
	Turns TurnHandler
	// Auth guards every route except /health. Nil disables auth.
	Auth func(http.Handler) http.Handler
	// MCP is mounted at /mcp when set.
	MCP http.Handler
	// AllowedOrigins enables CORS for browser clients. Empty disables it.
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	turns  TurnHandler
	logger *slog.Logger
}

// turnParams is the params object of a webhook call. The JSON-RPC method is
// the intent name.
type turnParams struct {
	Slots   map[string]any  `json:"slots"`
	Session session.Payload `json:"session"`
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{turns: opts.Turns, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version", TurnIDHeader},
			ExposedHeaders: []string{"Mcp-Session-Id", TurnIDHeader},
			MaxAge:         300,
		}))
	}
	r.Use(TurnIDMiddleware)
	r.Get("/health", srv.handleHealth)

	r.Group(func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Post("/rpc", srv.handleRPC)
		if opts.MCP != nil {
			r.Handle("/mcp", opts.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, codeOf(err), err.Error(), nil)
		return
	}

	var params turnParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			WriteError(w, req.ID, ErrInvalidParams, "params must be an object with slots and session", nil)
			return
		}
	}

	start := time.Now()
	out := s.turns.Handle(r.Context(), turn.Request{
		Intent:  turn.Intent(req.Method),
		Slots:   turn.NormalizeSlots(params.Slots),
		Session: params.Session,
	})
	if out.Session == nil {
		out.Session = session.Payload{}
	}

	turnID, _ := TurnIDFromContext(r.Context())
	caller, _ := CallerFromContext(r.Context())
	s.logger.Info("turn handled",
		slog.String("turn_id", turnID),
		slog.String("intent", req.Method),
		slog.String("caller", caller),
		slog.Bool("end_session", out.EndSession),
		slog.Duration("elapsed", time.Since(start)),
	)

	WriteResult(w, req.ID, out)
}
