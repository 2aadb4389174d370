package intent

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightchat/internal/models"
)

// envelope mirrors the JSON object the extractor is prompted to emit.
type envelope struct {
	Action          string                 `json:"action"`
	SearchType      string                 `json:"search_type"`
	Origin          string                 `json:"origin"`
	Destination     models.DestinationList `json:"destination"`
	Date            string                 `json:"date"`
	ReturnDate      string                 `json:"return_date"`
	ExcludeAirlines []string               `json:"exclude_airlines"`
	CheckedAirports []string               `json:"checked_airports"`
	Message         string                 `json:"message"`
}

// ParseResult decodes one raw model completion. Models wrap their JSON in
// prose or markdown fences often enough that the outermost {...} object is
// located first; anything unparsable after that is a hard error for the
// turn.
func ParseResult(raw string) (*Result, error) {
	jsonText, err := locateJSON(raw)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal([]byte(jsonText), &env); err != nil {
		return nil, fmt.Errorf("intent: decode response: %w", err)
	}

	switch env.Action {
	case "clarify":
		return &Result{Action: ActionClarify, Message: env.Message}, nil
	case "error":
		return &Result{Action: ActionError, Message: env.Message}, nil
	case "search":
		return searchResult(env)
	case "":
		// Some completions omit the action field but still carry a usable
		// search object.
		if env.Origin != "" && len(env.Destination) > 0 {
			return searchResult(env)
		}
		return nil, errors.New("intent: response has no action")
	default:
		return nil, fmt.Errorf("intent: unrecognized action %q", env.Action)
	}
}

func searchResult(env envelope) (*Result, error) {
	return &Result{
		Action: ActionSearch,
		Criteria: &models.SearchCriteria{
			Origin:          strings.ToUpper(env.Origin),
			Destination:     upperAll(env.Destination),
			Date:            env.Date,
			ReturnDate:      env.ReturnDate,
			ExcludeAirlines: env.ExcludeAirlines,
		},
		CheckedAirports: env.CheckedAirports,
	}, nil
}

func upperAll(codes models.DestinationList) models.DestinationList {
	out := make(models.DestinationList, len(codes))
	for i, c := range codes {
		out[i] = strings.ToUpper(c)
	}
	return out
}

func locateJSON(raw string) (string, error) {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("intent: no JSON object in response")
	}
	return cleaned[start : end+1], nil
}
