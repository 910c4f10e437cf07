package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const (
	callerKey contextKey = iota
	conversationIDKey
)

// getCaller extracts the authenticated caller from context.
func getCaller(ctx context.Context) string {
	v, _ := ctx.Value(callerKey).(string)
	return v
}

// getConversationID extracts the conversation ID from context.
func getConversationID(ctx context.Context) string {
	v, _ := ctx.Value(conversationIDKey).(string)
	return v
}

// TokenVerifier maps a bearer token to a caller name.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(verifier TokenVerifier) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: missing headers", ErrUnauthorized)
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
			}

			caller, err := verifier.Verify(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
			}

			ctx = context.WithValue(ctx, callerKey, caller)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware tags every request with a fixed caller when auth is disabled.
func noAuthMiddleware(caller string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, callerKey, caller)
			return next(ctx, method, req)
		}
	}
}

// sessionMiddleware picks up a conversation ID for logging from the
// Mcp-Session-Id header (HTTP) or _meta.conversation_id (stdio). It has no
// bearing on the dispatcher session map.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var id string

			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				id = extra.Header.Get("Mcp-Session-Id")
			}

			// Some notifications carry nil params behind a non-nil interface.
			if id == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if v, ok := meta["conversation_id"].(string); ok {
								id = v
							}
						}
					}()
				}
			}

			if id != "" {
				ctx = context.WithValue(ctx, conversationIDKey, id)
			}

			return next(ctx, method, req)
		}
	}
}
