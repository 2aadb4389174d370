package intent

import (
	"context"

	"github.com/dharmasatrya/flightchat/internal/models"
)

type Action string

const (
	ActionSearch  Action = "search"
	ActionClarify Action = "clarify"
	ActionError   Action = "error"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the structured outcome of one extraction turn. Criteria is set
// only for ActionSearch; Message carries clarification or error text.
type Result struct {
	Action          Action
	Criteria        *models.SearchCriteria
	Message         string
	CheckedAirports []string
}

// Extractor turns a free-text query plus bounded conversation history into
// search criteria or a conversational reply. The LLM behind it is a
// non-deterministic oracle; tests substitute a deterministic stub.
type Extractor interface {
	Extract(ctx context.Context, query string, history []Message) (*Result, error)
}
