package models

import "encoding/json"

// DestinationList accepts either a single airport code or a list of codes.
// The intent extractor answers regional queries ("cheapest to Europe") with
// a list of candidate hubs and point-to-point queries with one code.
type DestinationList []string

func (d *DestinationList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*d = nil
		} else {
			*d = DestinationList{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*d = DestinationList(many)
	return nil
}

// SearchCriteria is the structured query produced by the intent extractor.
// It is immutable once handed to a search; continuation lookups echo its
// values verbatim rather than re-deriving them.
type SearchCriteria struct {
	Origin          string          `json:"origin"`
	Destination     DestinationList `json:"destination"`
	Date            string          `json:"date"`
	ReturnDate      string          `json:"return_date,omitempty"`
	ExcludeAirlines []string        `json:"exclude_airlines,omitempty"`
}

func (c *SearchCriteria) Validate() error {
	if c.Origin == "" {
		return ErrMissingOrigin
	}
	if len(c.Destination) == 0 {
		return ErrMissingDestination
	}
	if c.Date == "" {
		return ErrMissingDate
	}
	return nil
}

func (c *SearchCriteria) RoundTrip() bool {
	return c.ReturnDate != ""
}

func (c *SearchCriteria) MultiDestination() bool {
	return len(c.Destination) > 1
}

type SearchFilters struct {
	PriceMin        *float64 `json:"price_min,omitempty"`
	PriceMax        *float64 `json:"price_max,omitempty"`
	MaxStops        *int     `json:"max_stops,omitempty"`
	Airlines        []string `json:"airlines,omitempty"`
	ExcludeAirlines []string `json:"exclude_airlines,omitempty"`
	MaxDuration     *int     `json:"max_duration,omitempty"`
}

// SearchRequest is the body of the direct (non-conversational) search
// endpoint.
type SearchRequest struct {
	Origin        string          `json:"origin"`
	Destination   DestinationList `json:"destination"`
	DepartureDate string          `json:"departure_date"`
	ReturnDate    string          `json:"return_date,omitempty"`
	Filters       *SearchFilters  `json:"filters,omitempty"`
	SortBy        string          `json:"sort_by,omitempty"`
	SortOrder     string          `json:"sort_order,omitempty"`
}

func (r *SearchRequest) Validate() error {
	if r.Origin == "" {
		return ErrMissingOrigin
	}
	if len(r.Destination) == 0 {
		return ErrMissingDestination
	}
	if r.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	if r.SortBy == "" {
		r.SortBy = "price"
	}
	if r.SortOrder == "" {
		r.SortOrder = "asc"
	}
	return nil
}

func (r *SearchRequest) Criteria() SearchCriteria {
	return SearchCriteria{
		Origin:      r.Origin,
		Destination: r.Destination,
		Date:        r.DepartureDate,
		ReturnDate:  r.ReturnDate,
	}
}

// ReturnFlightsRequest asks for the return options paired with a selected
// outbound leg. The provider requires the original route and dates next to
// the departure token.
type ReturnFlightsRequest struct {
	DepartureToken string `json:"departure_token"`
	DepartureID    string `json:"departure_id"`
	ArrivalID      string `json:"arrival_id"`
	OutboundDate   string `json:"outbound_date"`
	ReturnDate     string `json:"return_date"`
}

func (r *ReturnFlightsRequest) Validate() error {
	if r.DepartureToken == "" {
		return ErrMissingDepartureToken
	}
	if r.DepartureID == "" || r.ArrivalID == "" {
		return ErrMissingRouteContext
	}
	if r.OutboundDate == "" {
		return ErrMissingDepartureDate
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin         ValidationError = "origin is required"
	ErrMissingDestination    ValidationError = "destination is required"
	ErrMissingDate           ValidationError = "date is required"
	ErrMissingDepartureDate  ValidationError = "departure_date is required"
	ErrMissingDepartureToken ValidationError = "departure_token is required"
	ErrMissingRouteContext   ValidationError = "departure_id and arrival_id are required"
	ErrMissingBookingToken   ValidationError = "booking token is required"
)
