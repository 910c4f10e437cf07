// Command check runs a short scripted conversation against the configured
// catalog and reports each step.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/rpggio/sommelier/internal/app"
	"github.com/rpggio/sommelier/internal/config"
	"github.com/rpggio/sommelier/internal/domain/session"
	"github.com/rpggio/sommelier/internal/domain/turn"
	"github.com/rpggio/sommelier/internal/domain/wine"
)

type step struct {
	name   string
	intent turn.Intent
	slots  turn.Slots
	check  func(turn.Outcome) error
}

func main() {
	catalogPath := flag.String("catalog", "", "JSON catalog to check instead of the configured one")
	query := flag.String("q", "", "run a single free-text search and print the results")
	verbose := flag.Bool("v", false, "print spoken text for each step")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		color.Red("config error: %v", err)
		os.Exit(1)
	}
	if *catalogPath != "" {
		cfg.Catalog.Source = "json"
		cfg.Catalog.Path = *catalogPath
	}

	ctx := context.Background()
	a, err := app.Build(ctx, cfg, nil)
	if err != nil {
		color.Red("failed to load: %v", err)
		os.Exit(1)
	}
	defer a.Close()

	color.Cyan("Catalog %s: %d wines", a.Catalog.Version(), a.Catalog.Len())

	if *query != "" {
		os.Exit(runQuery(ctx, a, *query))
	}
	if a.Catalog.Len() == 0 {
		color.Yellow("Catalog is empty, nothing to check")
		return
	}

	failed := 0
	var payload session.Payload
	for i, s := range script(a) {
		out := a.Turns.Handle(ctx, turn.Request{Intent: s.intent, Slots: s.slots, Session: payload})
		payload = out.Session

		label := fmt.Sprintf("%d. %s", i+1, s.name)
		if err := s.check(out); err != nil {
			failed++
			color.Red("FAIL %s: %v", label, err)
			fmt.Printf("     said: %q\n", out.SpokenText)
			continue
		}
		color.Green("PASS %s", label)
		if *verbose {
			fmt.Printf("     said: %q\n", out.SpokenText)
		}
	}

	if failed > 0 {
		color.Red("\n%d step(s) failed", failed)
		os.Exit(1)
	}
	color.Cyan("\nAll steps passed")
}

// script builds a conversation around the first wine in the catalog so the
// check works against any catalog.
func script(a *app.App) []step {
	first := a.Catalog.All()[0]

	spoken := func(out turn.Outcome) error {
		if strings.TrimSpace(out.SpokenText) == "" {
			return fmt.Errorf("no spoken text")
		}
		if out.EndSession {
			return fmt.Errorf("session ended unexpectedly")
		}
		return nil
	}
	showing := func(name string) func(turn.Outcome) error {
		return func(out turn.Outcome) error {
			if err := spoken(out); err != nil {
				return err
			}
			if out.DisplayTitle != name {
				return fmt.Errorf("showing %q, want %q", out.DisplayTitle, name)
			}
			return nil
		}
	}

	steps := []step{
		{name: "launch", intent: turn.IntentLaunch, check: spoken},
		{name: "search by name", intent: turn.IntentWineSearch, slots: turn.Slots{turn.SlotWine: first.Name}, check: showing(first.Name)},
	}
	for _, d := range []turn.Detail{turn.DetailPrice, turn.DetailRating, turn.DetailLocation, turn.DetailDescription} {
		steps = append(steps, step{
			name:   "ask " + string(d),
			intent: turn.IntentActionDetail,
			slots:  turn.Slots{turn.SlotAction: string(d)},
			check:  spoken,
		})
	}
	return append(steps,
		step{name: "repeat", intent: turn.IntentRepeat, check: showing(first.Name)},
		step{name: "next", intent: turn.IntentNext, check: spoken},
		step{name: "start over", intent: turn.IntentStartOver, check: showing(first.Name)},
		step{name: "random pick", intent: turn.IntentRandomWine, check: spoken},
		step{name: "help", intent: turn.IntentHelp, check: spoken},
		step{name: "stop", intent: turn.IntentStop, check: func(out turn.Outcome) error {
			if !out.EndSession {
				return fmt.Errorf("session still open")
			}
			return nil
		}},
	)
}

func runQuery(ctx context.Context, a *app.App, q string) int {
	results, err := a.Engine.Search(ctx, q, wine.Filters{})
	if err != nil {
		color.Red("search failed: %v", err)
		return 1
	}
	if len(results) == 0 {
		color.Yellow("No wines match %q", q)
		return 0
	}
	for i, w := range results {
		color.Green("%d. %s", i+1, w.Name)
		fmt.Printf("   %s\n", strings.Join(nonEmpty(w.Type, wine.Text(w.Winery), wine.Text(w.Region)), " | "))
	}
	return 0
}

func nonEmpty(values ...string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
