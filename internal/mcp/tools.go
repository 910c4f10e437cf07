package mcp

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/sommelier/internal/domain/session"
	"github.com/rpggio/sommelier/internal/domain/turn"
)

// TurnInput is one utterance as recognized by the voice front end.
type TurnInput struct {
	Intent  string          `json:"intent" jsonschema:"intent name, see sommelier://docs/intents"`
	Slots   map[string]any  `json:"slots,omitempty" jsonschema:"slot values keyed by slot name; plain strings or objects with a value field"`
	Session session.Payload `json:"session,omitempty" jsonschema:"session map returned by the previous turn, sent back unchanged"`
}

type emptyInput struct{}

// IntentList names every intent handle_turn dispatches.
type IntentList struct {
	Intents []string `json:"intents"`
}

// CatalogSummary describes the catalog behind the assistant.
type CatalogSummary struct {
	Version string `json:"version"`
	Wines   int    `json:"wines"`
}

func registerTools(server *sdkmcp.Server, cfg Config) {
	logger := cfg.Logger

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "handle_turn",
		Description: "Run one conversational turn and return what to say plus the next session map.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in TurnInput) (*sdkmcp.CallToolResult, turn.Outcome, error) {
		if in.Intent == "" {
			return nil, turn.Outcome{}, MapError(fmt.Errorf("%w: intent is required", ErrInvalidInput))
		}
		req := turn.Request{
			Intent:  turn.Intent(in.Intent),
			Slots:   turn.NormalizeSlots(in.Slots),
			Session: in.Session,
		}
		out := cfg.Turns.Handle(ctx, req)
		if out.Session == nil {
			out.Session = session.Payload{}
		}
		logger.Info("turn handled",
			slog.String("intent", in.Intent),
			slog.String("caller", getCaller(ctx)),
			slog.String("conversation_id", getConversationID(ctx)),
			slog.Bool("end_session", out.EndSession),
		)
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_intents",
		Description: "List the intent names handle_turn understands.",
	}, func(context.Context, *sdkmcp.CallToolRequest, emptyInput) (*sdkmcp.CallToolResult, IntentList, error) {
		all := turn.Intents()
		out := IntentList{Intents: make([]string, 0, len(all))}
		for _, intent := range all {
			out.Intents = append(out.Intents, string(intent))
		}
		return nil, out, nil
	})

	if cfg.Catalog != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "catalog_info",
			Description: "Report the catalog version and how many wines it holds.",
		}, func(context.Context, *sdkmcp.CallToolRequest, emptyInput) (*sdkmcp.CallToolResult, CatalogSummary, error) {
			return nil, CatalogSummary{Version: cfg.Catalog.Version(), Wines: cfg.Catalog.Len()}, nil
		})
	}
}
