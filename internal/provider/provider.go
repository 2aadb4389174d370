package provider

import "context"

// FlightQuery describes a one-way or round-trip availability search.
type FlightQuery struct {
	Origin       string
	Destination  string
	OutboundDate string
	ReturnDate   string
}

// ReturnQuery resolves the outbound leg of a round trip into its paired
// return options. The provider requires the original route and dates next
// to the departure token; omitting them is a defined error on its side.
type ReturnQuery struct {
	DepartureToken string
	DepartureID    string
	ArrivalID      string
	OutboundDate   string
	ReturnDate     string
}

// BookingQuery resolves a final booking token into booking options.
type BookingQuery struct {
	BookingToken string
	DepartureID  string
	ArrivalID    string
	OutboundDate string
	ReturnDate   string
}

type Provider interface {
	SearchFlights(ctx context.Context, query FlightQuery) ([]RawOffer, error)
	ReturnFlights(ctx context.Context, query ReturnQuery) ([]RawOffer, error)
	BookingOptions(ctx context.Context, query BookingQuery) (*SearchData, error)
}

type ProviderError struct {
	Operation string
	Err       error
}

func (e *ProviderError) Error() string {
	return e.Operation + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(operation string, err error) *ProviderError {
	return &ProviderError{
		Operation: operation,
		Err:       err,
	}
}
