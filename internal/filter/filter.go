package filter

import (
	"sort"
	"strings"

	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/ranking"
)

// Apply filters and orders offers for the direct search endpoint. All sort
// modes are stable so equal keys keep their discovery order.
func Apply(offers []models.FlightOffer, filters *models.SearchFilters, sortBy, sortOrder string) []models.FlightOffer {
	filtered := applyFilters(offers, filters)

	if sortBy == "best_value" {
		filtered = ranking.CalculateScores(filtered)
	}

	return applySort(filtered, sortBy, sortOrder)
}

// ExcludeAirlines drops offers operated by any of the named carriers,
// matching either the airline name or the two-letter code.
func ExcludeAirlines(offers []models.FlightOffer, exclude []string) []models.FlightOffer {
	if len(exclude) == 0 {
		return offers
	}

	result := make([]models.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if !airlineMatches(o, exclude) {
			result = append(result, o)
		}
	}
	return result
}

func airlineMatches(o models.FlightOffer, airlines []string) bool {
	for _, a := range airlines {
		if strings.EqualFold(o.AirlineCode, a) || strings.EqualFold(o.Airline, a) {
			return true
		}
	}
	return false
}

func applyFilters(offers []models.FlightOffer, filters *models.SearchFilters) []models.FlightOffer {
	if filters == nil {
		return offers
	}

	result := make([]models.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if matchesFilters(o, filters) {
			result = append(result, o)
		}
	}
	return result
}

func matchesFilters(o models.FlightOffer, filters *models.SearchFilters) bool {
	if filters.PriceMin != nil && o.Price < *filters.PriceMin {
		return false
	}
	if filters.PriceMax != nil && o.Price > *filters.PriceMax {
		return false
	}

	if filters.MaxStops != nil && o.Stops > *filters.MaxStops {
		return false
	}

	if len(filters.Airlines) > 0 && !airlineMatches(o, filters.Airlines) {
		return false
	}
	if len(filters.ExcludeAirlines) > 0 && airlineMatches(o, filters.ExcludeAirlines) {
		return false
	}

	if filters.MaxDuration != nil && o.DurationMinutes > *filters.MaxDuration {
		return false
	}

	return true
}

func applySort(offers []models.FlightOffer, sortBy, sortOrder string) []models.FlightOffer {
	if len(offers) == 0 {
		return offers
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	switch strings.ToLower(sortBy) {
	case "duration":
		sort.SliceStable(offers, func(i, j int) bool {
			if ascending {
				return offers[i].DurationMinutes < offers[j].DurationMinutes
			}
			return offers[i].DurationMinutes > offers[j].DurationMinutes
		})

	case "stops":
		sort.SliceStable(offers, func(i, j int) bool {
			if ascending {
				return offers[i].Stops < offers[j].Stops
			}
			return offers[i].Stops > offers[j].Stops
		})

	case "best_value":
		sort.SliceStable(offers, func(i, j int) bool {
			if ascending {
				return offers[i].BestValueScore < offers[j].BestValueScore
			}
			return offers[i].BestValueScore > offers[j].BestValueScore
		})

	default:
		// price
		sort.SliceStable(offers, func(i, j int) bool {
			if ascending {
				return offers[i].Price < offers[j].Price
			}
			return offers[i].Price > offers[j].Price
		})
	}

	return offers
}
