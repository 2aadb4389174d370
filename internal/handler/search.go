package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightchat/internal/aggregator"
	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/filter"
	"github.com/dharmasatrya/flightchat/internal/models"
)

// SearchHandler serves the direct structured search endpoint for callers
// that already have criteria and want filtering/sorting without the
// conversational layer.
type SearchHandler struct {
	aggregator *aggregator.Aggregator
	cache      cache.Cache
}

func NewSearchHandler(agg *aggregator.Aggregator, c cache.Cache) *SearchHandler {
	return &SearchHandler{
		aggregator: agg,
		cache:      c,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.SearchRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	if err := req.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	criteria := req.Criteria()

	if !criteria.MultiDestination() {
		if cached, found := h.cache.Get(ctx, criteria); found {
			filtered := filter.Apply(cached, req.Filters, req.SortBy, req.SortOrder)
			return c.JSON(http.StatusOK, models.SearchResponse{
				SearchCriteria: criteria,
				Metadata: models.SearchMetadata{
					TotalResults:          len(filtered),
					DestinationsQueried:   1,
					DestinationsSucceeded: 1,
					SearchTimeMs:          time.Since(startTime).Milliseconds(),
					CacheHit:              true,
				},
				Offers: filtered,
			})
		}
	}

	result, err := h.aggregator.Search(ctx, criteria)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "search_error",
			Message: "Failed to search flights: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	if !criteria.MultiDestination() {
		_ = h.cache.Set(ctx, criteria, result.Offers)
	}

	filtered := filter.Apply(result.Offers, req.Filters, req.SortBy, req.SortOrder)

	return c.JSON(http.StatusOK, models.SearchResponse{
		SearchCriteria: criteria,
		Metadata: models.SearchMetadata{
			TotalResults:          len(filtered),
			DestinationsQueried:   result.Queried,
			DestinationsSucceeded: result.Succeeded,
			SkippedDestinations:   result.Skipped,
			SearchTimeMs:          time.Since(startTime).Milliseconds(),
			CacheHit:              false,
		},
		Offers: filtered,
	})
}

func HealthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
