package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/sommelier/internal/domain/session"
	"github.com/rpggio/sommelier/internal/domain/wine"
)

// Service maps one normalized turn to a search, a cursor move, or a detail
// lookup. It keeps no state between turns.
type Service struct {
	engine SearchEngine
	logger *slog.Logger
}

// NewService creates a turn service.
func NewService(engine SearchEngine, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{engine: engine, logger: logger}
}

// Handle runs one turn. It never fails: every error becomes a spoken
// apology or clarification plus a re-prompt.
func (s *Service) Handle(ctx context.Context, req Request) (out Outcome) {
	cursor, err := session.FromPayload(req.Session)
	if err != nil {
		s.logger.Warn("discarding malformed session payload", "intent", req.Intent, "error", err)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("turn panicked", "intent", req.Intent, "panic", r)
			out = s.speak(msgGeneralError, msgGeneralError, cursor, req.Session)
		}
	}()

	out = s.dispatch(ctx, req, cursor)
	s.logger.Debug("turn handled",
		"intent", req.Intent,
		"state", cursor.State().String(),
		"position", cursor.Position(),
		"end_session", out.EndSession,
	)
	return out
}

func (s *Service) dispatch(ctx context.Context, req Request, cursor *session.Cursor) Outcome {
	slots := req.Slots
	switch req.Intent {
	case IntentLaunch:
		cursor.Reset()
		return s.speak(msgWelcome, msgWelcomeReprompt, cursor, req.Session)

	case IntentWineSearch:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			return s.engine.Search(ctx, slots.Get(SlotWine), slots.Filters())
		})
	case IntentSearchByType:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			return s.engine.ByType(ctx, slots.Get(SlotWineType))
		})
	case IntentSearchWinery:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			return s.engine.ByWinery(ctx, slots.Get(SlotWinery))
		})
	case IntentSearchRegion:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			return s.engine.ByRegion(ctx, slots.Get(SlotRegion))
		})
	case IntentSearchPrice:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			return s.engine.ByPriceRange(ctx, slots.Amount(SlotMinPrice), slots.Amount(SlotMaxPrice))
		})
	case IntentSearchRating:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			minRating := slots.Amount(SlotMinRating)
			if minRating == nil {
				return nil, wine.ErrInvalidQuery
			}
			return s.engine.ByRating(ctx, *minRating)
		})
	case IntentSearchVintage:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			year := slots.Year(SlotVintage)
			if year == nil {
				return nil, wine.ErrInvalidQuery
			}
			return s.engine.ByVintage(ctx, *year)
		})
	case IntentFoodPairing:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			return s.engine.ByPairing(ctx, slots.Get(SlotFood))
		})
	case IntentOccasion:
		return s.search(req, cursor, func() ([]wine.Wine, error) {
			return s.engine.ByOccasion(ctx, slots.Get(SlotOccasion))
		})
	case IntentRandomWine:
		return s.random(ctx, req, cursor)

	case IntentActionDetail:
		return s.detail(req, cursor)
	case IntentWineDetails:
		return s.browse(req, cursor, cursor.Current, func(w wine.Wine, _ error) string {
			return fmt.Sprintf("What would you like to know about %s? You can ask for the price, rating, location, or description.", w.Name)
		})
	case IntentNext:
		return s.browse(req, cursor, cursor.Next, func(w wine.Wine, err error) string {
			if errors.Is(err, session.ErrEndOfList) {
				return fmt.Sprintf("You're already at the last wine. The current wine is %s. %s", w.Name, msgAskAboutIt)
			}
			return fmt.Sprintf("The next wine is %s. %s", w.Name, msgAskAboutIt)
		})
	case IntentPrevious:
		return s.browse(req, cursor, cursor.Previous, func(w wine.Wine, err error) string {
			if errors.Is(err, session.ErrStartOfList) {
				return fmt.Sprintf("You're already at the first wine. The current wine is %s. %s", w.Name, msgAskAboutIt)
			}
			return fmt.Sprintf("The previous wine is %s. %s", w.Name, msgAskAboutIt)
		})
	case IntentStartOver:
		return s.browse(req, cursor, cursor.Restart, func(w wine.Wine, _ error) string {
			return fmt.Sprintf("Starting over. The first wine is %s. %s", w.Name, msgAskAboutIt)
		})
	case IntentRepeat:
		return s.browse(req, cursor, cursor.Current, func(w wine.Wine, _ error) string {
			return fmt.Sprintf("The current wine is %s. %s", w.Name, msgAskAboutIt)
		})

	case IntentHelp:
		return s.speak(msgHelp, msgHelp, cursor, req.Session)
	case IntentCancel, IntentStop:
		cursor.Reset()
		out := s.speak(msgGoodbye, "", cursor, req.Session)
		out.EndSession = true
		return out
	case IntentSessionEnded:
		cursor.Reset()
		return Outcome{
			DisplayTitle: CardTitle,
			Session:      cursor.Save(req.Session),
			EndSession:   true,
		}

	case IntentFallback:
		return s.speak(msgFallback, msgFallback, cursor, req.Session)
	default:
		s.logger.Info("unknown intent", "intent", req.Intent)
		return s.speak(msgFallback, msgFallback, cursor, req.Session)
	}
}

func (s *Service) search(req Request, cursor *session.Cursor, run func() ([]wine.Wine, error)) Outcome {
	results, err := run()
	switch {
	case errors.Is(err, wine.ErrInvalidQuery):
		prompt := clarifyPrompt(req.Intent)
		return s.speak(prompt, prompt, cursor, req.Session)
	case err != nil:
		s.logger.Error("search failed", "intent", req.Intent, "error", err)
		return s.speak(msgGeneralError, msgGeneralError, cursor, req.Session)
	}

	cursor.LoadResults(results)
	if len(results) == 0 {
		return s.speak(msgNotFound, msgWelcomeReprompt, cursor, req.Session)
	}
	return s.showWine(foundPhrase(results), results[0], cursor, req.Session)
}

func (s *Service) random(ctx context.Context, req Request, cursor *session.Cursor) Outcome {
	picked, err := s.engine.RandomPick(ctx, req.Slots.Filters())
	switch {
	case errors.Is(err, wine.ErrNoMatch):
		return s.speak(msgNoRandomMatch, msgWelcomeReprompt, cursor, req.Session)
	case err != nil:
		s.logger.Error("random pick failed", "error", err)
		return s.speak(msgGeneralError, msgGeneralError, cursor, req.Session)
	}

	cursor.LoadResults([]wine.Wine{picked})
	return s.showWine(fmt.Sprintf("How about %s? %s", picked.Name, msgAskAboutIt), picked, cursor, req.Session)
}

func (s *Service) detail(req Request, cursor *session.Cursor) Outcome {
	d, ok := ParseDetail(req.Slots.Get(SlotAction))
	if !ok {
		return s.speak(msgUnknownDetail, msgUnknownDetail, cursor, req.Session)
	}
	current, err := cursor.Current()
	if err != nil {
		return s.speak(msgSearchFirst, msgWelcomeReprompt, cursor, req.Session)
	}
	return s.showWine(detailPhrase(current, d), current, cursor, req.Session)
}

// browse runs a cursor move. Boundary signals still carry the current wine
// and are phrased by describe; an empty cursor asks for a search.
func (s *Service) browse(req Request, cursor *session.Cursor, move func() (wine.Wine, error), describe func(wine.Wine, error) string) Outcome {
	w, err := move()
	switch {
	case errors.Is(err, wine.ErrNoActiveSession):
		return s.speak(msgSearchFirst, msgWelcomeReprompt, cursor, req.Session)
	case err != nil && !errors.Is(err, session.ErrEndOfList) && !errors.Is(err, session.ErrStartOfList):
		s.logger.Error("cursor move failed", "intent", req.Intent, "error", err)
		return s.speak(msgGeneralError, msgGeneralError, cursor, req.Session)
	}
	return s.showWine(describe(w, err), w, cursor, req.Session)
}

func (s *Service) showWine(spoken string, w wine.Wine, cursor *session.Cursor, payload session.Payload) Outcome {
	footer := ""
	if cursor.Len() > 1 {
		footer = fmt.Sprintf("Wine %d of %d. Say next or previous to browse.", cursor.Position()+1, cursor.Len())
	}
	return Outcome{
		SpokenText:   spoken,
		Reprompt:     msgDetailReprompt,
		DisplayTitle: w.Name,
		DisplayText:  cardBody(summaryLine(w), w, footer),
		Session:      cursor.Save(payload),
	}
}

func (s *Service) speak(spoken, reprompt string, cursor *session.Cursor, payload session.Payload) Outcome {
	return Outcome{
		SpokenText:   spoken,
		Reprompt:     reprompt,
		DisplayTitle: CardTitle,
		DisplayText:  spoken,
		Session:      cursor.Save(payload),
	}
}
