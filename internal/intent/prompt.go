package intent

import (
	"fmt"
	"strings"
	"time"

	"github.com/dharmasatrya/flightchat/pkg/airports"
)

const maxHistoryTurns = 6

func systemPrompt(today time.Time, history []Message) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a flight search assistant with deep knowledge of airports and geography.

TODAY'S DATE: %s

CONVERSATION:
%s

ROUND TRIP DETECTION:
Look for: "round trip", "return", "coming back", two dates (2/5-2/8), date ranges.
If detected, set BOTH "date" AND "return_date".

REGIONAL SEARCHES:
When the user asks about a region instead of a specific city, set
"destination" to a list of that region's hub airports:
`, today.Format("January 2, 2006"), historyContext(history))

	for _, region := range airports.Regions() {
		fmt.Fprintf(&b, "- %s: %s\n", region, strings.Join(airports.HubsForRegion(region), ", "))
	}

	b.WriteString("\nCITY MAPPINGS:\n")
	for _, city := range airports.Cities() {
		fmt.Fprintf(&b, "- %s: %s\n", city, strings.Join(airports.AirportsForCity(city), ", "))
	}

	b.WriteString(`
OUTPUT MODES:

1) SEARCH - perform a flight search:
{"action": "search", "search_type": "standard" or "multi_airport",
 "origin": "JFK", "destination": "CDG" or ["CDG", "LHR", "AMS"],
 "date": "2026-02-05", "return_date": "2026-02-08" or null,
 "exclude_airlines": [], "checked_airports": ["CDG", "LHR", "AMS"]}

2) CLARIFY - need more information or answering a question about the
search process:
{"action": "clarify", "message": "..."}

3) ERROR - the request cannot be understood:
{"action": "error", "message": "..."}

KEY RULES:
- Airport codes are IATA codes, uppercase.
- Dates are YYYY-MM-DD.
- For regional queries list which airports you checked in checked_airports.
- Answer follow-up questions about the search conversationally via CLARIFY.
- Return ONLY valid JSON, no markdown.`)

	return b.String()
}

func historyContext(history []Message) string {
	if len(history) == 0 {
		return "No prior context"
	}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	lines := make([]string, len(history))
	for i, msg := range history {
		lines[i] = msg.Role + ": " + msg.Content
	}
	return strings.Join(lines, "\n")
}
