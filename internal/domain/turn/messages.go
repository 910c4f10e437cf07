package turn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rpggio/sommelier/internal/domain/wine"
)

// CardTitle is the display title for turns without a current wine.
const CardTitle = "Wine Assistant, your Sommelier"

const (
	msgWelcome         = "You can ask Wine Assistant for wine information. Say, Find a wine by its winery and name."
	msgWelcomeReprompt = "You can ask me about a wine, then get details about the wine. What are you interested in?"
	msgHelp            = "Here are some things you can say: Find a wine by giving its name. Find a red wine under 30 dollars. Tell me its rating, price, location, or description. What would you like to do?"
	msgGoodbye         = "Happy to help, goodbye!"
	msgFallback        = "Sorry, I didn't catch that. You can search for a wine by name, type, winery, region, or price."
	msgNotFound        = "I'm sorry, I couldn't find that wine. Please try a different wine name or check the spelling."
	msgNoRandomMatch   = "I'm sorry, I couldn't find any wine that fits. Try a wider price range or a different type."
	msgGeneralError    = "I'm sorry, something went wrong. Please try again."
	msgSearchFirst     = "Please search for a wine first."
	msgUnknownDetail   = "I didn't understand what you want to know. You can ask for price, rating, location, or description."
	msgDetailReprompt  = "You can ask for the price, rating, location, or description, or say next."
	msgAskAboutIt      = "What would you like to know about it?"
)

var clarifyPrompts = map[Intent]string{
	IntentWineSearch:    "Which wine would you like me to find? You can say a wine name or a winery.",
	IntentSearchByType:  "What type of wine are you looking for? For example, red, white, or sparkling.",
	IntentSearchWinery:  "Which winery are you interested in?",
	IntentSearchRegion:  "Which region are you interested in?",
	IntentSearchPrice:   "What price range? For example, wines under 30 dollars.",
	IntentSearchRating:  "What minimum rating should I look for?",
	IntentSearchVintage: "Which vintage year are you interested in?",
	IntentFoodPairing:   "What food are you pairing the wine with?",
	IntentOccasion:      "What's the occasion?",
}

func clarifyPrompt(intent Intent) string {
	if p, ok := clarifyPrompts[intent]; ok {
		return p
	}
	return clarifyPrompts[IntentWineSearch]
}

func foundPhrase(results []wine.Wine) string {
	if len(results) == 1 {
		return fmt.Sprintf("I found %s. %s", results[0].Name, msgAskAboutIt)
	}
	return fmt.Sprintf("I found %d wines. The first wine is %s. %s", len(results), results[0].Name, msgAskAboutIt)
}

func detailPhrase(w wine.Wine, d Detail) string {
	switch d {
	case DetailPrice:
		if w.Price == nil {
			return fmt.Sprintf("I'm sorry, the price for %s is not available.", w.Name)
		}
		return fmt.Sprintf("The price of %s is $%.2f.", w.Name, *w.Price)
	case DetailRating:
		if w.Rating == nil {
			return fmt.Sprintf("I'm sorry, the rating for %s is not available.", w.Name)
		}
		return fmt.Sprintf("%s is rated %s points.", w.Name, formatNumber(*w.Rating))
	case DetailLocation:
		var parts []string
		for _, p := range []*string{w.Region, w.Country} {
			if p != nil {
				parts = append(parts, *p)
			}
		}
		if len(parts) == 0 {
			return fmt.Sprintf("I'm sorry, the location for %s is not available.", w.Name)
		}
		return fmt.Sprintf("%s is from %s.", w.Name, strings.Join(parts, ", "))
	case DetailDescription:
		if w.Description == nil {
			return fmt.Sprintf("I'm sorry, the description for %s is not available.", w.Name)
		}
		return fmt.Sprintf("Here's the description of %s: %s", w.Name, *w.Description)
	default:
		return msgUnknownDetail
	}
}

// cardBody renders the display text for a wine: a summary line, a compact
// meta line, optional winemaker's notes, and an optional footer.
func cardBody(summary string, w wine.Wine, footer string) string {
	var lines []string
	if s := strings.TrimSpace(summary); s != "" {
		lines = append(lines, s)
	}

	var meta []string
	if w.Type != "" {
		meta = append(meta, w.Type)
	}
	if w.AlcoholContent != nil {
		meta = append(meta, formatNumber(*w.AlcoholContent)+"% ABV")
	}
	if len(meta) > 0 {
		lines = append(lines, strings.Join(meta, " • "))
	}

	if notes := wine.Text(w.TastingNotes); notes != "" {
		lines = append(lines, "", "Winemaker's notes:", notes)
	}
	if footer != "" {
		lines = append(lines, "", footer)
	}
	return strings.Join(lines, "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// summaryLine describes a wine in one line using whatever is known.
func summaryLine(w wine.Wine) string {
	var b strings.Builder
	b.WriteString(w.Name)
	if w.Winery != nil {
		b.WriteString(" by " + *w.Winery)
	}
	if w.Region != nil {
		b.WriteString(", " + *w.Region)
	}
	b.WriteString(".")
	var facts []string
	if w.Price != nil {
		facts = append(facts, fmt.Sprintf("$%.2f", *w.Price))
	}
	if w.Rating != nil {
		facts = append(facts, "rated "+formatNumber(*w.Rating))
	}
	if len(facts) > 0 {
		b.WriteString(" " + strings.Join(facts, ", ") + ".")
	}
	return b.String()
}
