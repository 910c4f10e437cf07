package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/sommelier/internal/domain/turn"
)

const serverInstructions = `sommelier is a voice-style wine assistant. Each user utterance is one turn.

Core concepts:
- Intent: what the user asked for (search, browse, ask about the current wine).
- Slots: named values pulled from the utterance (wine, wine_type, max_price, food, ...).
- Session: an opaque map you store between turns and send back unchanged.

Rules of engagement:
1) Call handle_turn with intent "LaunchRequest" and an empty session to start.
2) For every later utterance call handle_turn with the intent, its slots and the
   session returned by the previous call.
3) Speak spoken_text to the user. Show display_title and display_text when you
   have a screen. Stop when end_session is true.

Docs:
- sommelier://docs/intents (every intent and the slots it reads)
- sommelier://docs/conversation (how browsing and detail questions work)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "sommelier://docs/intents",
		Name:        "docs_intents",
		Title:       "Intents and slots",
		Description: "Every intent handle_turn accepts and the slots it reads.",
		Content:     intentsDoc(),
	},
	{
		URI:         "sommelier://docs/conversation",
		Name:        "docs_conversation",
		Title:       "Conversation flow",
		Description: "Searching, browsing a result list and asking about the current wine.",
		Content: `# Conversation flow

## Searching

Any search intent replaces the result list. At most five wines are kept,
best match first. When nothing matches, the list is cleared and the
assistant says so.

## Browsing

- AMAZON.NextIntent moves forward. At the last wine it says so and stays put.
- AMAZON.PreviousIntent moves back. At the first wine it says so and stays put.
- AMAZON.StartOverIntent returns to the first wine.
- AMAZON.RepeatIntent reads the current wine again.

Browsing without a search asks the user to search first.

## Details

wineActionDetailIntent reads the Action slot: price, rating, location or
description. Missing fields are reported as not available.

## Session

The session map is owned by the assistant. Send it back exactly as
received. Unknown keys are preserved.
`,
	},
}

func intentsDoc() string {
	reads := map[turn.Intent]string{
		turn.IntentWineSearch:    "Wine, plus any filter slot",
		turn.IntentSearchByType:  "WineType",
		turn.IntentSearchWinery:  "Winery",
		turn.IntentSearchRegion:  "Region",
		turn.IntentSearchPrice:   "MinPrice, MaxPrice",
		turn.IntentSearchRating:  "MinRating",
		turn.IntentSearchVintage: "Vintage",
		turn.IntentFoodPairing:   "Food",
		turn.IntentOccasion:      "Occasion",
		turn.IntentRandomWine:    "any filter slot (optional)",
		turn.IntentActionDetail:  "Action",
	}
	var b strings.Builder
	b.WriteString("# Intents\n\nFilter slots: WineType, Region, Winery, MinPrice, MaxPrice, MinRating, Vintage, Food, Occasion.\n\n")
	b.WriteString("| Intent | Slots |\n| --- | --- |\n")
	for _, intent := range turn.Intents() {
		slots := reads[intent]
		if slots == "" {
			slots = "none"
		}
		fmt.Fprintf(&b, "| %s | %s |\n", intent, slots)
	}
	return b.String()
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
