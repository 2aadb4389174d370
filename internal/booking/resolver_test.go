package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/provider"
)

type stubProvider struct {
	returnOffers []provider.RawOffer
	returnErr    error
	bookingData  *provider.SearchData
	bookingErr   error
	lastBooking  provider.BookingQuery
	lastReturn   provider.ReturnQuery
}

func (s *stubProvider) SearchFlights(ctx context.Context, query provider.FlightQuery) ([]provider.RawOffer, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) ReturnFlights(ctx context.Context, query provider.ReturnQuery) ([]provider.RawOffer, error) {
	s.lastReturn = query
	return s.returnOffers, s.returnErr
}

func (s *stubProvider) BookingOptions(ctx context.Context, query provider.BookingQuery) (*provider.SearchData, error) {
	s.lastBooking = query
	return s.bookingData, s.bookingErr
}

func returnRequest() models.ReturnFlightsRequest {
	return models.ReturnFlightsRequest{
		DepartureToken: "dep-tok",
		DepartureID:    "JFK",
		ArrivalID:      "CDG",
		OutboundDate:   "2026-02-05",
		ReturnDate:     "2026-02-08",
	}
}

func returnLeg(token string) provider.RawOffer {
	return provider.RawOffer{
		Flights: []provider.RawLeg{
			{
				DepartureAirport: provider.RawAirport{ID: "CDG", Time: "2026-02-08 10:00"},
				ArrivalAirport:   provider.RawAirport{ID: "JFK", Time: "2026-02-08 13:30"},
				Airline:          "Air France",
			},
		},
		Price:        820,
		BookingToken: token,
	}
}

func TestReturnOffers_EchoesSearchContext(t *testing.T) {
	stub := &stubProvider{returnOffers: []provider.RawOffer{returnLeg("final-tok")}}
	resolver := NewResolver(stub)

	offers, err := resolver.ReturnOffers(context.Background(), returnRequest())
	require.NoError(t, err)
	require.Len(t, offers, 1)

	assert.Equal(t, "dep-tok", stub.lastReturn.DepartureToken)
	assert.Equal(t, "JFK", stub.lastReturn.DepartureID)
	assert.Equal(t, "CDG", stub.lastReturn.ArrivalID)
	assert.Equal(t, "2026-02-05", stub.lastReturn.OutboundDate)
	assert.Equal(t, "2026-02-08", stub.lastReturn.ReturnDate)

	offer := offers[0]
	assert.True(t, offer.IsRoundTrip)
	assert.Equal(t, "final-tok", offer.BookingToken)
	assert.Equal(t, "CDG", offer.DepartureAirport)
	assert.Equal(t, "JFK", offer.ArrivalAirport)
	assert.False(t, offer.RequiresReturnSelection())
}

func TestReturnOffers_DropsUnbookableCandidates(t *testing.T) {
	stub := &stubProvider{returnOffers: []provider.RawOffer{
		returnLeg("final-tok"),
		returnLeg(""),
	}}
	resolver := NewResolver(stub)

	offers, err := resolver.ReturnOffers(context.Background(), returnRequest())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "final-tok", offers[0].BookingToken)
}

func TestReturnOffers_EmptyIsNotError(t *testing.T) {
	resolver := NewResolver(&stubProvider{})

	offers, err := resolver.ReturnOffers(context.Background(), returnRequest())
	require.NoError(t, err)
	assert.Empty(t, offers)
}

func TestResolveURL_DirectLink(t *testing.T) {
	stub := &stubProvider{bookingData: &provider.SearchData{
		BookingOptions: []provider.BookingOption{{Link: "https://airline.example/checkout"}},
	}}
	resolver := NewResolver(stub)

	result := resolver.ResolveURL(context.Background(), provider.BookingQuery{BookingToken: "tok"})
	assert.Equal(t, "https://airline.example/checkout", result.URL)
	assert.Empty(t, result.Warning)
}

func TestResolveURL_BookingRequestFallback(t *testing.T) {
	stub := &stubProvider{bookingData: &provider.SearchData{
		BookingOptions: []provider.BookingOption{{
			BookingRequest: &provider.BookingRequest{URL: "https://provider.example/book"},
		}},
	}}
	resolver := NewResolver(stub)

	result := resolver.ResolveURL(context.Background(), provider.BookingQuery{BookingToken: "tok"})
	assert.Equal(t, "https://provider.example/book", result.URL)
	assert.Empty(t, result.Warning)
}

func TestResolveURL_SearchPageFallback(t *testing.T) {
	stub := &stubProvider{bookingData: &provider.SearchData{
		SearchMetadata: provider.ResultMetadata{GoogleFlightsURL: "https://provider.example/results"},
	}}
	resolver := NewResolver(stub)

	result := resolver.ResolveURL(context.Background(), provider.BookingQuery{BookingToken: "tok"})
	assert.Equal(t, "https://provider.example/results", result.URL)
	assert.Empty(t, result.Warning)
}

func TestResolveURL_NothingAvailable(t *testing.T) {
	stub := &stubProvider{bookingData: &provider.SearchData{}}
	resolver := NewResolver(stub)

	result := resolver.ResolveURL(context.Background(), provider.BookingQuery{BookingToken: "tok"})
	assert.Equal(t, FallbackSearchURL, result.URL)
	assert.NotEmpty(t, result.Warning)
}

func TestResolveURL_TransportFailureDegrades(t *testing.T) {
	stub := &stubProvider{bookingErr: errors.New("connection refused")}
	resolver := NewResolver(stub)

	result := resolver.ResolveURL(context.Background(), provider.BookingQuery{BookingToken: "tok"})
	assert.Equal(t, FallbackSearchURL, result.URL)
	assert.NotEmpty(t, result.Warning)
}
