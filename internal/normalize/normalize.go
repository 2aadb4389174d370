package normalize

import (
	"regexp"

	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/provider"
)

// Carrier code embedded in the airline logo URL, e.g. ".../airlines/AF.png".
var airlineCodePattern = regexp.MustCompile(`airlines/([A-Za-z0-9]{2})`)

// Context supplies the search values an offer falls back to when the raw
// payload omits its own, and the values echoed onto round-trip outbound
// offers for the provider's continuation lookup.
type Context struct {
	Origin      string
	Destination string
	Date        string
	ReturnDate  string
}

// Offer converts one raw itinerary into a FlightOffer. It returns nil when
// the itinerary has no legs or no usable token; callers filter nil out
// rather than treating it as an error.
//
// Stops is always the number of reported layovers, not len(legs)-1: the
// provider can report a technical stop without a layover record.
func Offer(raw provider.RawOffer, sctx Context) *models.FlightOffer {
	if len(raw.Flights) == 0 {
		return nil
	}

	roundTrip := sctx.ReturnDate != ""
	token := raw.BookingToken
	if roundTrip {
		// Outbound legs of a round trip carry a departure token in place
		// of a booking token.
		token = raw.DepartureToken
	}
	if token == "" {
		return nil
	}

	firstLeg := raw.Flights[0]
	lastLeg := raw.Flights[len(raw.Flights)-1]

	departureAirport := firstLeg.DepartureAirport.ID
	if departureAirport == "" {
		departureAirport = sctx.Origin
	}
	arrivalAirport := lastLeg.ArrivalAirport.ID
	if arrivalAirport == "" {
		arrivalAirport = sctx.Destination
	}

	layovers := make([]models.Layover, len(raw.Layovers))
	for i, l := range raw.Layovers {
		layovers[i] = models.Layover{
			ID:       l.ID,
			Name:     l.Name,
			Duration: l.Duration,
		}
	}

	duration := raw.TotalDuration
	if duration == 0 {
		duration = firstLeg.Duration
	}

	// Round-trip offers echo the search origin verbatim: the provider's
	// continuation lookup fails when the context differs from the
	// original search.
	departureID := departureAirport
	if roundTrip {
		departureID = sctx.Origin
	}

	offer := &models.FlightOffer{
		Airline:          firstLeg.Airline,
		AirlineCode:      AirlineCode(firstLeg.AirlineLogo),
		Price:            raw.Price,
		DurationMinutes:  duration,
		Stops:            len(raw.Layovers),
		Layovers:         layovers,
		DepartureAirport: departureAirport,
		ArrivalAirport:   arrivalAirport,
		DepartureTime:    firstLeg.DepartureAirport.Time,
		ArrivalTime:      lastLeg.ArrivalAirport.Time,
		BookingToken:     token,
		DepartureID:      departureID,
		ArrivalID:        arrivalAirport,
		OutboundDate:     sctx.Date,
		IsRoundTrip:      roundTrip,
		Aircraft:         firstLeg.Airplane,
	}
	if roundTrip {
		offer.ReturnDate = sctx.ReturnDate
	}

	return offer
}

// Offers normalizes a batch, dropping malformed entries.
func Offers(raw []provider.RawOffer, sctx Context) []models.FlightOffer {
	offers := make([]models.FlightOffer, 0, len(raw))
	for _, r := range raw {
		if offer := Offer(r, sctx); offer != nil {
			offers = append(offers, *offer)
		}
	}
	return offers
}

// AirlineCode extracts the two-character carrier code from an airline logo
// URL. A missing or unrecognized logo yields an empty string; it never
// fails the offer.
func AirlineCode(logoURL string) string {
	match := airlineCodePattern.FindStringSubmatch(logoURL)
	if match == nil {
		return ""
	}
	return match[1]
}
