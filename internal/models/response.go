package models

const (
	ModeSearch          = "search"
	ModeClarify         = "clarify"
	ModeError           = "error"
	ModeReturnSelection = "return_selection"
)

type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
}

type ChatResponse struct {
	SessionID        string        `json:"session_id"`
	Mode             string        `json:"mode"`
	Message          string        `json:"message,omitempty"`
	Results          []FlightOffer `json:"results,omitempty"`
	SearchedAirports []string      `json:"searched_airports,omitempty"`
}

type ReturnFlightsResponse struct {
	Mode    string        `json:"mode"`
	Message string        `json:"message,omitempty"`
	Results []FlightOffer `json:"results"`
}

// BookingResponse always carries a usable URL; Warning is set when the
// provider gave no direct link and the URL is a generic fallback.
type BookingResponse struct {
	URL     string `json:"url"`
	Warning string `json:"warning,omitempty"`
}

type SearchMetadata struct {
	TotalResults          int      `json:"total_results"`
	DestinationsQueried   int      `json:"destinations_queried"`
	DestinationsSucceeded int      `json:"destinations_succeeded"`
	SkippedDestinations   []string `json:"skipped_destinations,omitempty"`
	SearchTimeMs          int64    `json:"search_time_ms"`
	CacheHit              bool     `json:"cache_hit"`
}

type SearchResponse struct {
	SearchCriteria SearchCriteria `json:"search_criteria"`
	Metadata       SearchMetadata `json:"metadata"`
	Offers         []FlightOffer  `json:"offers"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
