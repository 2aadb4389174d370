package handler

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightchat/internal/aggregator"
	"github.com/dharmasatrya/flightchat/internal/booking"
	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/filter"
	"github.com/dharmasatrya/flightchat/internal/intent"
	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/provider"
	"github.com/dharmasatrya/flightchat/internal/session"
	"github.com/dharmasatrya/flightchat/pkg/airports"
	"github.com/dharmasatrya/flightchat/pkg/currency"
)

const (
	historyTurns   = 6
	maxChatResults = 10
)

type ChatHandler struct {
	extractor  intent.Extractor
	aggregator *aggregator.Aggregator
	resolver   *booking.Resolver
	sessions   *session.Store
	cache      cache.Cache
}

func NewChatHandler(e intent.Extractor, agg *aggregator.Aggregator, r *booking.Resolver, s *session.Store, c cache.Cache) *ChatHandler {
	return &ChatHandler{
		extractor:  e,
		aggregator: agg,
		resolver:   r,
		sessions:   s,
		cache:      c,
	}
}

// Chat runs one conversational turn: extract intent, then either answer
// conversationally or run the search and present offers.
func (h *ChatHandler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	if strings.TrimSpace(req.Query) == "" {
		return badRequest(c, "validation_error", "query is required")
	}

	sess := h.sessions.GetOrCreate(req.SessionID)
	history := sess.RecentHistory(historyTurns)
	sess.AddMessage("user", req.Query)

	result, err := h.extractor.Extract(ctx, req.Query, history)
	if err != nil {
		// Extraction failure is a hard error for this turn only; the
		// session stays usable.
		log.Printf("Intent extraction failed: %v", err)
		return c.JSON(http.StatusOK, models.ChatResponse{
			SessionID: sess.ID,
			Mode:      models.ModeError,
			Message:   "Sorry, I couldn't work out what you're looking for. Could you rephrase that?",
		})
	}

	switch result.Action {
	case intent.ActionClarify:
		sess.AddMessage("assistant", result.Message)
		return c.JSON(http.StatusOK, models.ChatResponse{
			SessionID: sess.ID,
			Mode:      models.ModeClarify,
			Message:   result.Message,
		})
	case intent.ActionError:
		sess.AddMessage("assistant", result.Message)
		return c.JSON(http.StatusOK, models.ChatResponse{
			SessionID: sess.ID,
			Mode:      models.ModeError,
			Message:   result.Message,
		})
	}

	criteria := *result.Criteria
	if criteria.Date == "" {
		criteria.Date = time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	}
	if err := criteria.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}
	if !airports.ValidCode(criteria.Origin) {
		return badRequest(c, "validation_error", fmt.Sprintf("origin %q is not an airport code", criteria.Origin))
	}

	sess.BeginSearch()

	offers, searched, err := h.runSearch(c, criteria)
	if err != nil {
		sess.Fail()
		msg := "Search failed: " + err.Error()
		sess.AddMessage("assistant", msg)
		return c.JSON(http.StatusOK, models.ChatResponse{
			SessionID: sess.ID,
			Mode:      models.ModeError,
			Message:   msg,
		})
	}

	offers = filter.ExcludeAirlines(offers, criteria.ExcludeAirlines)

	if len(offers) == 0 {
		sess.PresentOffers(nil)
		msg := noFlightsMessage(criteria)
		sess.AddMessage("assistant", msg)
		return c.JSON(http.StatusOK, models.ChatResponse{
			SessionID: sess.ID,
			Mode:      models.ModeClarify,
			Message:   msg,
		})
	}

	if len(offers) > maxChatResults {
		offers = offers[:maxChatResults]
	}
	sess.PresentOffers(offers)

	msg := searchMessage(criteria, searched)
	sess.AddMessage("assistant", msg)

	return c.JSON(http.StatusOK, models.ChatResponse{
		SessionID:        sess.ID,
		Mode:             models.ModeSearch,
		Message:          msg,
		Results:          offers,
		SearchedAirports: searched,
	})
}

// runSearch consults the cache for single-destination queries and the
// aggregator otherwise. It returns the per-destination price summary for
// multi-destination searches.
func (h *ChatHandler) runSearch(c echo.Context, criteria models.SearchCriteria) ([]models.FlightOffer, []string, error) {
	ctx := c.Request().Context()

	if !criteria.MultiDestination() {
		if cached, ok := h.cache.Get(ctx, criteria); ok {
			return cached, nil, nil
		}
	}

	result, err := h.aggregator.Search(ctx, criteria)
	if err != nil {
		return nil, nil, err
	}

	if !criteria.MultiDestination() {
		_ = h.cache.Set(ctx, criteria, result.Offers)
		return result.Offers, nil, nil
	}

	searched := make([]string, len(result.Destinations))
	for i, d := range result.Destinations {
		searched[i] = fmt.Sprintf("%s (%s)", d.Destination, currency.FormatUSD(d.CheapestPrice))
	}
	return result.Offers, searched, nil
}

type SelectRequest struct {
	Index int `json:"index"`
}

// SelectOutbound advances a round-trip session: the chosen outbound offer's
// departure token plus its echoed route context resolve into the paired
// return options.
func (h *ChatHandler) SelectOutbound(c echo.Context) error {
	ctx := c.Request().Context()

	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "session_not_found",
			Message: "Unknown session",
			Code:    http.StatusNotFound,
		})
	}

	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	returnReq, err := sess.SelectOutbound(req.Index)
	if err != nil {
		return badRequest(c, "selection_error", err.Error())
	}

	offers, err := h.resolver.ReturnOffers(ctx, returnReq)
	if err != nil {
		sess.Fail()
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch return flights: " + err.Error(),
			Code:    http.StatusBadGateway,
		})
	}

	sess.PresentReturnOptions(offers)

	return c.JSON(http.StatusOK, models.ChatResponse{
		SessionID: sess.ID,
		Mode:      models.ModeReturnSelection,
		Message:   fmt.Sprintf("Found %d return flight options. Prices shown are total round trip.", len(offers)),
		Results:   offers,
	})
}

// SelectReturn finishes the round-trip flow: the chosen return offer's
// token is final and resolves straight to a booking URL. The booking step
// never hard-fails; worst case is a generic redirect with a warning.
func (h *ChatHandler) SelectReturn(c echo.Context) error {
	ctx := c.Request().Context()

	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "session_not_found",
			Message: "Unknown session",
			Code:    http.StatusNotFound,
		})
	}

	var req SelectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}

	offer, err := sess.SelectReturn(req.Index)
	if err != nil {
		return badRequest(c, "selection_error", err.Error())
	}

	query := provider.BookingQuery{
		BookingToken: offer.BookingToken,
		DepartureID:  offer.DepartureID,
		ArrivalID:    offer.ArrivalID,
		OutboundDate: offer.OutboundDate,
	}
	if outbound := sess.SelectedOutbound(); outbound != nil {
		query.ReturnDate = outbound.ReturnDate
	}

	result := h.resolver.ResolveURL(ctx, query)
	sess.Finish()

	return c.JSON(http.StatusOK, models.BookingResponse{
		URL:     result.URL,
		Warning: result.Warning,
	})
}

func searchMessage(criteria models.SearchCriteria, searched []string) string {
	if criteria.MultiDestination() {
		summary := strings.Join(searched, ", ")
		if criteria.RoundTrip() {
			return fmt.Sprintf("Round trip flights from %s\nOutbound: %s | Return: %s\n\nSearched %d airports: %s\n\nComplete packages (price includes return):",
				criteria.Origin, criteria.Date, criteria.ReturnDate, len(searched), summary)
		}
		return fmt.Sprintf("One-way flights from %s on %s\n\nSearched %d airports: %s",
			criteria.Origin, criteria.Date, len(searched), summary)
	}

	destination := criteria.Destination[0]
	if criteria.RoundTrip() {
		return fmt.Sprintf("Round trip flights\n%s → %s\nOutbound: %s | Return: %s\n\nComplete packages (price includes return):",
			criteria.Origin, destination, criteria.Date, criteria.ReturnDate)
	}
	return fmt.Sprintf("One-way flights: %s → %s on %s", criteria.Origin, destination, criteria.Date)
}

func noFlightsMessage(criteria models.SearchCriteria) string {
	return fmt.Sprintf("I checked %s but couldn't find any flights. Would you like to try different dates or destinations?",
		strings.Join(criteria.Destination, ", "))
}

func badRequest(c echo.Context, kind, message string) error {
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   kind,
		Message: message,
		Code:    http.StatusBadRequest,
	})
}
