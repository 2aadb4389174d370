package aggregator

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/normalize"
	"github.com/dharmasatrya/flightchat/internal/provider"
	"github.com/dharmasatrya/flightchat/internal/ratelimit"
)

const DefaultMaxDestinations = 15

type Config struct {
	// MaxDestinations bounds the fan-out of one logical search; excess
	// destinations are dropped, not an error.
	MaxDestinations int
	RateLimiter     *ratelimit.KeyedLimiter
}

type Aggregator struct {
	provider provider.Provider
	config   Config
}

// DestinationResult groups the offers found for one destination airport.
type DestinationResult struct {
	Destination   string
	Offers        []models.FlightOffer
	CheapestPrice float64
}

type Result struct {
	// Offers is the merged union across destinations, price-ascending.
	// Ties keep the original per-destination discovery order.
	Offers []models.FlightOffer
	// Destinations holds only destinations that yielded offers, ranked by
	// cheapest price.
	Destinations []DestinationResult
	Queried      int
	Succeeded    int
	// Skipped lists destinations dropped by the MaxDestinations cap.
	Skipped []string
}

func NewAggregator(p provider.Provider, config Config) *Aggregator {
	if config.MaxDestinations <= 0 {
		config.MaxDestinations = DefaultMaxDestinations
	}
	return &Aggregator{
		provider: p,
		config:   config,
	}
}

// Search runs the criteria against every candidate destination. For a
// single destination a provider failure is the caller's error; across
// multiple destinations each query is isolated and a failed or empty
// destination is silently excluded. Zero offers overall is an empty
// result, not an error.
func (a *Aggregator) Search(ctx context.Context, criteria models.SearchCriteria) (*Result, error) {
	destinations := []string(criteria.Destination)

	var skipped []string
	if len(destinations) > a.config.MaxDestinations {
		skipped = destinations[a.config.MaxDestinations:]
		destinations = destinations[:a.config.MaxDestinations]
	}

	if len(destinations) == 1 {
		offers, err := a.searchDestination(ctx, criteria, destinations[0])
		if err != nil {
			return nil, err
		}
		sortByPrice(offers)

		result := &Result{
			Offers:    offers,
			Queried:   1,
			Succeeded: 1,
			Skipped:   skipped,
		}
		if len(offers) > 0 {
			result.Destinations = []DestinationResult{{
				Destination:   destinations[0],
				Offers:        offers,
				CheapestPrice: offers[0].Price,
			}}
		}
		return result, nil
	}

	type destResult struct {
		index  int
		offers []models.FlightOffer
		err    error
	}

	resultCh := make(chan destResult, len(destinations))
	var wg sync.WaitGroup

	for i, dest := range destinations {
		wg.Add(1)
		go func(index int, dest string) {
			defer wg.Done()
			offers, err := a.searchDestination(ctx, criteria, dest)
			resultCh <- destResult{index: index, offers: offers, err: err}
		}(i, dest)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	ordered := make([]destResult, len(destinations))
	succeeded := 0
	for dr := range resultCh {
		ordered[dr.index] = dr
		if dr.err != nil {
			log.Printf("Destination %s failed: %v", destinations[dr.index], dr.err)
		} else {
			succeeded++
		}
	}

	result := &Result{
		Offers:    make([]models.FlightOffer, 0),
		Queried:   len(destinations),
		Succeeded: succeeded,
		Skipped:   skipped,
	}

	// Tag each offer with its destination before merging so the origin
	// group stays recoverable after the flatten.
	for i, dr := range ordered {
		if dr.err != nil || len(dr.offers) == 0 {
			continue
		}
		dest := destinations[i]
		for j := range dr.offers {
			dr.offers[j].Destination = dest
		}
		result.Destinations = append(result.Destinations, DestinationResult{
			Destination:   dest,
			Offers:        dr.offers,
			CheapestPrice: cheapestPrice(dr.offers),
		})
		result.Offers = append(result.Offers, dr.offers...)
	}

	sort.SliceStable(result.Destinations, func(i, j int) bool {
		return result.Destinations[i].CheapestPrice < result.Destinations[j].CheapestPrice
	})
	sortByPrice(result.Offers)

	return result, nil
}

func (a *Aggregator) searchDestination(ctx context.Context, criteria models.SearchCriteria, destination string) ([]models.FlightOffer, error) {
	if a.config.RateLimiter != nil {
		if err := a.config.RateLimiter.Wait(ctx, destination); err != nil {
			return nil, err
		}
	}

	raw, err := a.provider.SearchFlights(ctx, provider.FlightQuery{
		Origin:       criteria.Origin,
		Destination:  destination,
		OutboundDate: criteria.Date,
		ReturnDate:   criteria.ReturnDate,
	})
	if err != nil {
		return nil, err
	}

	return normalize.Offers(raw, normalize.Context{
		Origin:      criteria.Origin,
		Destination: destination,
		Date:        criteria.Date,
		ReturnDate:  criteria.ReturnDate,
	}), nil
}

func sortByPrice(offers []models.FlightOffer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].Price < offers[j].Price
	})
}

func cheapestPrice(offers []models.FlightOffer) float64 {
	cheapest := offers[0].Price
	for _, o := range offers[1:] {
		if o.Price < cheapest {
			cheapest = o.Price
		}
	}
	return cheapest
}
