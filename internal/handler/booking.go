package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/flightchat/internal/booking"
	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/provider"
)

// BookingHandler serves the stateless return-flight and booking-link
// endpoints used by clients that keep selection state on their side.
type BookingHandler struct {
	resolver *booking.Resolver
}

func NewBookingHandler(r *booking.Resolver) *BookingHandler {
	return &BookingHandler{resolver: r}
}

func (h *BookingHandler) ReturnFlights(c echo.Context) error {
	ctx := c.Request().Context()

	var req models.ReturnFlightsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid_request", "Failed to parse request body: "+err.Error())
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, "validation_error", err.Error())
	}

	offers, err := h.resolver.ReturnOffers(ctx, req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "upstream_error",
			Message: "Failed to fetch return flights: " + err.Error(),
			Code:    http.StatusBadGateway,
		})
	}

	return c.JSON(http.StatusOK, models.ReturnFlightsResponse{
		Mode:    models.ModeReturnSelection,
		Message: fmt.Sprintf("Found %d return flight options. Prices shown are total round trip.", len(offers)),
		Results: offers,
	})
}

// Booking resolves a final token into a redirect URL. This endpoint never
// reports a hard failure: a transport error or a linkless response both
// degrade to a generic search URL with a warning.
func (h *BookingHandler) Booking(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		return badRequest(c, "validation_error", models.ErrMissingBookingToken.Error())
	}

	result := h.resolver.ResolveURL(ctx, provider.BookingQuery{
		BookingToken: token,
		DepartureID:  c.QueryParam("departure_id"),
		ArrivalID:    c.QueryParam("arrival_id"),
		OutboundDate: c.QueryParam("outbound_date"),
		ReturnDate:   c.QueryParam("return_date"),
	})

	return c.JSON(http.StatusOK, models.BookingResponse{
		URL:     result.URL,
		Warning: result.Warning,
	})
}
