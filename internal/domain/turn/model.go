package turn

import "github.com/rpggio/sommelier/internal/domain/session"

// Intent names a dispatcher intent or request type.
type Intent string

const (
	IntentLaunch        Intent = "LaunchRequest"
	IntentSessionEnded  Intent = "SessionEndedRequest"
	IntentWineSearch    Intent = "wineSearchIntent"
	IntentSearchByType  Intent = "searchByTypeIntent"
	IntentSearchWinery  Intent = "searchByWineryIntent"
	IntentSearchRegion  Intent = "searchByRegionIntent"
	IntentSearchPrice   Intent = "searchByPriceIntent"
	IntentSearchRating  Intent = "searchByRatingIntent"
	IntentSearchVintage Intent = "searchByVintageIntent"
	IntentFoodPairing   Intent = "foodPairingIntent"
	IntentOccasion      Intent = "occasionIntent"
	IntentRandomWine    Intent = "randomWineIntent"
	IntentActionDetail  Intent = "wineActionDetailIntent"
	IntentWineDetails   Intent = "getWineDetailsIntent"
	IntentNext          Intent = "AMAZON.NextIntent"
	IntentPrevious      Intent = "AMAZON.PreviousIntent"
	IntentStartOver     Intent = "AMAZON.StartOverIntent"
	IntentRepeat        Intent = "AMAZON.RepeatIntent"
	IntentHelp          Intent = "AMAZON.HelpIntent"
	IntentCancel        Intent = "AMAZON.CancelIntent"
	IntentStop          Intent = "AMAZON.StopIntent"
	IntentFallback      Intent = "AMAZON.FallbackIntent"
)

// Intents lists every intent the orchestrator handles, in a stable order.
func Intents() []Intent {
	return []Intent{
		IntentLaunch, IntentWineSearch, IntentSearchByType, IntentSearchWinery,
		IntentSearchRegion, IntentSearchPrice, IntentSearchRating, IntentSearchVintage,
		IntentFoodPairing, IntentOccasion, IntentRandomWine, IntentActionDetail,
		IntentWineDetails, IntentNext, IntentPrevious, IntentStartOver, IntentRepeat,
		IntentHelp, IntentCancel, IntentStop, IntentFallback, IntentSessionEnded,
	}
}

// Slot names.
const (
	SlotWine      = "Wine"
	SlotWineType  = "WineType"
	SlotWinery    = "Winery"
	SlotRegion    = "Region"
	SlotMinPrice  = "MinPrice"
	SlotMaxPrice  = "MaxPrice"
	SlotMinRating = "MinRating"
	SlotVintage   = "Vintage"
	SlotFood      = "Food"
	SlotOccasion  = "Occasion"
	SlotAction    = "Action"
)

// Slots maps slot names to sanitized values. Absent slots are missing keys.
type Slots map[string]string

// Request is one normalized dispatcher turn.
type Request struct {
	Intent  Intent          `json:"intent"`
	Slots   Slots           `json:"slots,omitempty"`
	Session session.Payload `json:"session,omitempty"`
}

// Outcome is the uniform turn response.
type Outcome struct {
	SpokenText   string          `json:"spoken_text"`
	Reprompt     string          `json:"reprompt,omitempty"`
	DisplayTitle string          `json:"display_title"`
	DisplayText  string          `json:"display_text"`
	Session      session.Payload `json:"session"`
	EndSession   bool            `json:"end_session"`
}
