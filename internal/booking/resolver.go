package booking

import (
	"context"
	"log"

	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/normalize"
	"github.com/dharmasatrya/flightchat/internal/provider"
)

// FallbackSearchURL is the last-resort redirect when the provider gives no
// usable booking link at all. Booking failures are non-fatal: the caller
// always gets something bookable.
const FallbackSearchURL = "https://www.google.com/travel/flights"

const fallbackWarning = "no direct booking link available; redirecting to a generic flight search"

type Resolver struct {
	provider provider.Provider
}

func NewResolver(p provider.Provider) *Resolver {
	return &Resolver{provider: p}
}

// ReturnOffers resolves the departure token of a selected outbound leg into
// its paired return options. Every returned offer carries a final, directly
// bookable token; candidates without one are dropped. Zero candidates is an
// empty list, not an error.
func (r *Resolver) ReturnOffers(ctx context.Context, req models.ReturnFlightsRequest) ([]models.FlightOffer, error) {
	raw, err := r.provider.ReturnFlights(ctx, provider.ReturnQuery{
		DepartureToken: req.DepartureToken,
		DepartureID:    req.DepartureID,
		ArrivalID:      req.ArrivalID,
		OutboundDate:   req.OutboundDate,
		ReturnDate:     req.ReturnDate,
	})
	if err != nil {
		return nil, err
	}

	offers := make([]models.FlightOffer, 0, len(raw))
	for _, ro := range raw {
		// Return legs fly the route backwards; the search context is only
		// a fallback for missing leg airports here.
		offer := normalize.Offer(ro, normalize.Context{
			Origin:      req.ArrivalID,
			Destination: req.DepartureID,
			Date:        req.OutboundDate,
		})
		if offer == nil {
			continue
		}

		offer.IsRoundTrip = true
		offer.DepartureID = req.DepartureID
		offer.ArrivalID = req.ArrivalID
		offer.OutboundDate = req.OutboundDate
		// ReturnDate stays empty: the token on a return offer is final and
		// needs no further continuation lookup.
		offers = append(offers, *offer)
	}

	return offers, nil
}

type URLResult struct {
	URL     string
	Warning string
}

// ResolveURL turns a final booking token into a checkout redirect. The
// provider's schema is inconsistent, so link extraction is an ordered
// fallback chain: the first option's direct link, its booking-request URL,
// its generic url field, then the provider's search-page URL. Transport
// failures and empty responses degrade to the generic fallback with a
// warning; this never returns an error.
func (r *Resolver) ResolveURL(ctx context.Context, query provider.BookingQuery) URLResult {
	data, err := r.provider.BookingOptions(ctx, query)
	if err != nil {
		log.Printf("Booking lookup failed, degrading to fallback URL: %v", err)
		return URLResult{URL: FallbackSearchURL, Warning: fallbackWarning}
	}

	if link := firstBookingLink(data.BookingOptions); link != "" {
		return URLResult{URL: link}
	}

	if data.SearchMetadata.GoogleFlightsURL != "" {
		log.Println("No direct booking link; using provider search page")
		return URLResult{URL: data.SearchMetadata.GoogleFlightsURL}
	}

	return URLResult{URL: FallbackSearchURL, Warning: fallbackWarning}
}

func firstBookingLink(options []provider.BookingOption) string {
	if len(options) == 0 {
		return ""
	}

	opt := options[0]
	switch {
	case opt.Link != "":
		return opt.Link
	case opt.BookingRequest != nil && opt.BookingRequest.URL != "":
		return opt.BookingRequest.URL
	case opt.URL != "":
		return opt.URL
	}
	return ""
}
