package integration_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/sommelier/internal/app"
	"github.com/rpggio/sommelier/internal/catalog"
	"github.com/rpggio/sommelier/internal/config"
	"github.com/rpggio/sommelier/internal/domain/session"
	"github.com/rpggio/sommelier/internal/domain/turn"
	"github.com/rpggio/sommelier/internal/sqlite"
)

// newTestEnv ingests the test catalog into a SQLite file and serves it with
// FTS as the ranked-match backend, the way a production deployment runs.
func newTestEnv(t *testing.T) *app.App {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "sommelier.db")

	db, err := sqlite.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	src, err := catalog.Load(ctx, catalog.JSONFile("../../testdata/wines.json"), nil)
	require.NoError(t, err)
	require.NoError(t, sqlite.NewWineRepository(db).Replace(ctx, src.Version(), src.All()))
	require.NoError(t, db.Close())

	cfg := config.Default()
	cfg.Catalog.Source = "sqlite"
	cfg.Catalog.DBPath = dbPath
	cfg.Search.Remote.Enabled = true
	cfg.Search.Remote.Provider = "sqlite"

	a, err := app.Build(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func handle(t *testing.T, a *app.App, payload session.Payload, intent turn.Intent, slots turn.Slots) turn.Outcome {
	t.Helper()
	return a.Turns.Handle(context.Background(), turn.Request{Intent: intent, Slots: slots, Session: payload})
}

func TestIntegration_FreeTextSearch(t *testing.T) {
	a := newTestEnv(t)

	cab := handle(t, a, nil, turn.IntentWineSearch, turn.Slots{turn.SlotWine: "Cabernet"})
	require.Equal(t, "Caymus Cabernet Sauvignon 2021", cab.DisplayTitle)
	require.Contains(t, cab.SpokenText, "I found Caymus Cabernet Sauvignon 2021.")

	both := handle(t, a, nil, turn.IntentWineSearch, turn.Slots{turn.SlotWine: "Vineyards"})
	require.Contains(t, both.SpokenText, "I found 2 wines. The first wine is Caymus Cabernet Sauvignon 2021.")
}

func TestIntegration_PriceRange(t *testing.T) {
	a := newTestEnv(t)

	out := handle(t, a, nil, turn.IntentSearchPrice, turn.Slots{turn.SlotMinPrice: "30", turn.SlotMaxPrice: "50"})
	require.Equal(t, "Willamette Valley Pinot Noir 2021", out.DisplayTitle)

	none := handle(t, a, nil, turn.IntentSearchPrice, turn.Slots{turn.SlotMinPrice: "50", turn.SlotMaxPrice: "30"})
	require.Contains(t, none.SpokenText, "couldn't find")
	require.NotContains(t, none.Session, session.KeyWineList)
}

func TestIntegration_RandomPickNoMatch(t *testing.T) {
	a := newTestEnv(t)

	out := handle(t, a, nil, turn.IntentRandomWine, turn.Slots{turn.SlotMaxPrice: "10"})
	require.Contains(t, out.SpokenText, "I'm sorry")
	require.False(t, out.EndSession)
}

// Turns from independent conversations interleave through one process
// without seeing each other's results.
func TestIntegration_IndependentSessions(t *testing.T) {
	a := newTestEnv(t)

	reds := handle(t, a, nil, turn.IntentSearchByType, turn.Slots{turn.SlotWineType: "red"})
	bubbles := handle(t, a, nil, turn.IntentSearchByType, turn.Slots{turn.SlotWineType: "sparkling"})

	var wg sync.WaitGroup
	results := make([]turn.Outcome, 2)
	for i, payload := range []session.Payload{reds.Session, bubbles.Session} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = a.Turns.Handle(context.Background(), turn.Request{Intent: turn.IntentNext, Session: payload})
		}()
	}
	wg.Wait()

	require.Equal(t, "Willamette Valley Pinot Noir 2021", results[0].DisplayTitle)
	require.Equal(t, "Veuve Clicquot Yellow Label Brut", results[1].DisplayTitle, "single result stays put")

	again := handle(t, a, reds.Session, turn.IntentRepeat, nil)
	require.Equal(t, "Caymus Cabernet Sauvignon 2021", again.DisplayTitle, "earlier payload is unchanged")
}
