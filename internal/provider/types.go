package provider

// Wire types for the flight-data API. The schema is external and loose:
// any field may be absent, and one-way itineraries carry a booking_token
// while round-trip outbound legs carry a departure_token instead.

type SearchData struct {
	BestFlights    []RawOffer      `json:"best_flights"`
	OtherFlights   []RawOffer      `json:"other_flights"`
	BookingOptions []BookingOption `json:"booking_options"`
	SearchMetadata ResultMetadata  `json:"search_metadata"`
	Error          string          `json:"error"`
}

// Offers returns best and other itineraries concatenated, best first.
func (d *SearchData) Offers() []RawOffer {
	offers := make([]RawOffer, 0, len(d.BestFlights)+len(d.OtherFlights))
	offers = append(offers, d.BestFlights...)
	offers = append(offers, d.OtherFlights...)
	return offers
}

type RawOffer struct {
	Flights        []RawLeg     `json:"flights"`
	Layovers       []RawLayover `json:"layovers"`
	TotalDuration  int          `json:"total_duration"`
	Price          float64      `json:"price"`
	BookingToken   string       `json:"booking_token"`
	DepartureToken string       `json:"departure_token"`
}

type RawLeg struct {
	DepartureAirport RawAirport `json:"departure_airport"`
	ArrivalAirport   RawAirport `json:"arrival_airport"`
	Duration         int        `json:"duration"`
	Airline          string     `json:"airline"`
	AirlineLogo      string     `json:"airline_logo"`
	FlightNumber     string     `json:"flight_number"`
	Airplane         string     `json:"airplane"`
}

type RawAirport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

type RawLayover struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// BookingOption's link field naming is inconsistent across responses;
// callers try Link, then BookingRequest.URL, then URL.
type BookingOption struct {
	Link           string          `json:"link"`
	URL            string          `json:"url"`
	BookingRequest *BookingRequest `json:"booking_request"`
}

type BookingRequest struct {
	URL      string `json:"url"`
	PostData string `json:"post_data"`
}

type ResultMetadata struct {
	GoogleFlightsURL string `json:"google_flights_url"`
}
