package models

type Layover struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Duration int    `json:"duration"`
}

// FlightOffer is the normalized itinerary shown to the user and passed back
// into the booking flow. For the outbound leg of a round trip, BookingToken
// holds the provider's departure token and DepartureID/ArrivalID/
// OutboundDate/ReturnDate echo the original search context verbatim; the
// provider rejects continuation lookups whose context does not match the
// original search.
type FlightOffer struct {
	Airline          string    `json:"airline"`
	AirlineCode      string    `json:"airline_code"`
	Price            float64   `json:"price"`
	DurationMinutes  int       `json:"duration"`
	Stops            int       `json:"stops"`
	Layovers         []Layover `json:"layovers,omitempty"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    string    `json:"departure_time"`
	ArrivalTime      string    `json:"arrival_time"`
	BookingToken     string    `json:"booking_token"`
	DepartureID      string    `json:"departure_id,omitempty"`
	ArrivalID        string    `json:"arrival_id,omitempty"`
	OutboundDate     string    `json:"outbound_date,omitempty"`
	ReturnDate       string    `json:"return_date,omitempty"`
	IsRoundTrip      bool      `json:"is_round_trip"`
	Aircraft         string    `json:"aircraft,omitempty"`
	Destination      string    `json:"destination,omitempty"`
	BestValueScore   float64   `json:"best_value_score,omitempty"`
}

// RequiresReturnSelection reports whether the offer's token is a departure
// token that must be resolved into return options before it can be booked.
func (o *FlightOffer) RequiresReturnSelection() bool {
	return o.IsRoundTrip && o.ReturnDate != ""
}

// HasBookingContext reports whether the offer carries everything the
// provider needs for a continuation lookup.
func (o *FlightOffer) HasBookingContext() bool {
	return o.BookingToken != "" && o.DepartureID != "" && o.ArrivalID != "" && o.OutboundDate != ""
}
