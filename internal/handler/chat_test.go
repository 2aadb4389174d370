package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightchat/internal/aggregator"
	"github.com/dharmasatrya/flightchat/internal/booking"
	"github.com/dharmasatrya/flightchat/internal/cache"
	"github.com/dharmasatrya/flightchat/internal/intent"
	"github.com/dharmasatrya/flightchat/internal/models"
	"github.com/dharmasatrya/flightchat/internal/provider"
	"github.com/dharmasatrya/flightchat/internal/session"
)

type stubExtractor struct {
	result *intent.Result
	err    error
}

func (s *stubExtractor) Extract(ctx context.Context, query string, history []intent.Message) (*intent.Result, error) {
	return s.result, s.err
}

type fakeFlightProvider struct {
	searchOffers map[string][]provider.RawOffer
	searchErr    map[string]error
	returnOffers []provider.RawOffer
	returnErr    error
	bookingData  *provider.SearchData
	bookingErr   error

	lastReturn  provider.ReturnQuery
	lastBooking provider.BookingQuery
}

func (f *fakeFlightProvider) SearchFlights(ctx context.Context, q provider.FlightQuery) ([]provider.RawOffer, error) {
	if err, ok := f.searchErr[q.Destination]; ok {
		return nil, err
	}
	return f.searchOffers[q.Destination], nil
}

func (f *fakeFlightProvider) ReturnFlights(ctx context.Context, q provider.ReturnQuery) ([]provider.RawOffer, error) {
	f.lastReturn = q
	return f.returnOffers, f.returnErr
}

func (f *fakeFlightProvider) BookingOptions(ctx context.Context, q provider.BookingQuery) (*provider.SearchData, error) {
	f.lastBooking = q
	return f.bookingData, f.bookingErr
}

func rawOffer(price float64, departureToken, bookingToken string) provider.RawOffer {
	return provider.RawOffer{
		Flights: []provider.RawLeg{{
			DepartureAirport: provider.RawAirport{ID: "JFK", Name: "John F. Kennedy"},
			ArrivalAirport:   provider.RawAirport{ID: "CDG", Name: "Charles de Gaulle"},
			Duration:         470,
			Airline:          "Delta",
		}},
		TotalDuration:  470,
		Price:          price,
		DepartureToken: departureToken,
		BookingToken:   bookingToken,
	}
}

func newChatTestHandler(extractor intent.Extractor, p provider.Provider) (*ChatHandler, *session.Store) {
	store := session.NewStore()
	agg := aggregator.NewAggregator(p, aggregator.Config{})
	resolver := booking.NewResolver(p)
	h := NewChatHandler(extractor, agg, resolver, store, cache.NewNoOpCache())
	return h, store
}

func postJSON(t *testing.T, h echo.HandlerFunc, body string, params map[string]string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return rec, h(c)
}

func TestChat_OneWaySearchEndsTurn(t *testing.T) {
	extractor := &stubExtractor{result: &intent.Result{
		Action: intent.ActionSearch,
		Criteria: &models.SearchCriteria{
			Origin:      "JFK",
			Destination: models.DestinationList{"CDG"},
			Date:        "2026-02-05",
		},
	}}
	p := &fakeFlightProvider{searchOffers: map[string][]provider.RawOffer{
		"CDG": {rawOffer(450, "", "book-1")},
	}}
	h, store := newChatTestHandler(extractor, p)

	rec, err := postJSON(t, h.Chat, `{"query":"flights to paris"}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ModeSearch, resp.Mode)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "book-1", resp.Results[0].BookingToken)
	assert.False(t, resp.Results[0].IsRoundTrip)

	sess, ok := store.Get(resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, session.StateIdle, sess.State())
}

func TestChat_RoundTripFlowThroughBooking(t *testing.T) {
	extractor := &stubExtractor{result: &intent.Result{
		Action: intent.ActionSearch,
		Criteria: &models.SearchCriteria{
			Origin:      "JFK",
			Destination: models.DestinationList{"CDG"},
			Date:        "2026-02-05",
			ReturnDate:  "2026-02-08",
		},
	}}
	p := &fakeFlightProvider{
		searchOffers: map[string][]provider.RawOffer{
			"CDG": {rawOffer(850, "dep-1", "")},
		},
		returnOffers: []provider.RawOffer{rawOffer(850, "", "final-1")},
		bookingData: &provider.SearchData{
			BookingOptions: []provider.BookingOption{{Link: "https://airline.example/book"}},
		},
	}
	h, store := newChatTestHandler(extractor, p)

	// 1. Search opens outbound selection.
	rec, err := postJSON(t, h.Chat, `{"query":"round trip to paris"}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ModeSearch, resp.Mode)
	require.Len(t, resp.Results, 1)
	assert.True(t, resp.Results[0].RequiresReturnSelection())

	sess, ok := store.Get(resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, session.StateOutboundSelect, sess.State())

	// 2. Outbound selection resolves return options from the echoed context.
	rec, err = postJSON(t, h.SelectOutbound, `{"index":0}`, map[string]string{"id": resp.SessionID})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "dep-1", p.lastReturn.DepartureToken)
	assert.Equal(t, "JFK", p.lastReturn.DepartureID)
	assert.Equal(t, "2026-02-05", p.lastReturn.OutboundDate)
	assert.Equal(t, "2026-02-08", p.lastReturn.ReturnDate)

	var returnResp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &returnResp))
	assert.Equal(t, models.ModeReturnSelection, returnResp.Mode)
	require.Len(t, returnResp.Results, 1)
	assert.False(t, returnResp.Results[0].RequiresReturnSelection())
	assert.Equal(t, session.StateReturnSelect, sess.State())

	// 3. Return selection resolves the booking URL and closes the session.
	rec, err = postJSON(t, h.SelectReturn, `{"index":0}`, map[string]string{"id": resp.SessionID})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "final-1", p.lastBooking.BookingToken)
	assert.Equal(t, "2026-02-08", p.lastBooking.ReturnDate)

	var bookResp models.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookResp))
	assert.Equal(t, "https://airline.example/book", bookResp.URL)
	assert.Empty(t, bookResp.Warning)
	assert.Equal(t, session.StateIdle, sess.State())
}

func TestChat_MultiDestinationPartialFailure(t *testing.T) {
	extractor := &stubExtractor{result: &intent.Result{
		Action: intent.ActionSearch,
		Criteria: &models.SearchCriteria{
			Origin:      "JFK",
			Destination: models.DestinationList{"CDG", "LHR", "AMS"},
			Date:        "2026-02-05",
		},
	}}
	p := &fakeFlightProvider{
		searchOffers: map[string][]provider.RawOffer{
			"CDG": {rawOffer(450, "", "cdg-1")},
			"LHR": {rawOffer(380, "", "lhr-1")},
		},
		searchErr: map[string]error{"AMS": errors.New("rate limited")},
	}
	h, _ := newChatTestHandler(extractor, p)

	rec, err := postJSON(t, h.Chat, `{"query":"cheapest to europe"}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ModeSearch, resp.Mode)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 380.0, resp.Results[0].Price)
	assert.Equal(t, []string{"LHR ($380)", "CDG ($450)"}, resp.SearchedAirports)
}

func TestChat_ClarifyPassesThrough(t *testing.T) {
	extractor := &stubExtractor{result: &intent.Result{
		Action:  intent.ActionClarify,
		Message: "Where are you flying from?",
	}}
	h, _ := newChatTestHandler(extractor, &fakeFlightProvider{})

	rec, err := postJSON(t, h.Chat, `{"query":"flights to paris"}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ModeClarify, resp.Mode)
	assert.Equal(t, "Where are you flying from?", resp.Message)
	assert.Empty(t, resp.Results)
}

func TestChat_ExtractionFailureKeepsSessionUsable(t *testing.T) {
	extractor := &stubExtractor{err: errors.New("model unavailable")}
	h, store := newChatTestHandler(extractor, &fakeFlightProvider{})

	rec, err := postJSON(t, h.Chat, `{"query":"???"}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ModeError, resp.Mode)

	sess, ok := store.Get(resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, session.StateIdle, sess.State())
}

func TestChat_NoFlightsAsksToAdjust(t *testing.T) {
	extractor := &stubExtractor{result: &intent.Result{
		Action: intent.ActionSearch,
		Criteria: &models.SearchCriteria{
			Origin:      "JFK",
			Destination: models.DestinationList{"CDG"},
			Date:        "2026-02-05",
		},
	}}
	h, _ := newChatTestHandler(extractor, &fakeFlightProvider{})

	rec, err := postJSON(t, h.Chat, `{"query":"flights to paris"}`, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.ModeClarify, resp.Mode)
	assert.Contains(t, resp.Message, "couldn't find any flights")
}

func TestChat_InvalidOriginRejected(t *testing.T) {
	extractor := &stubExtractor{result: &intent.Result{
		Action: intent.ActionSearch,
		Criteria: &models.SearchCriteria{
			Origin:      "New York",
			Destination: models.DestinationList{"CDG"},
			Date:        "2026-02-05",
		},
	}}
	h, _ := newChatTestHandler(extractor, &fakeFlightProvider{})

	rec, err := postJSON(t, h.Chat, `{"query":"flights to paris"}`, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectOutbound_UnknownSession(t *testing.T) {
	h, _ := newChatTestHandler(&stubExtractor{}, &fakeFlightProvider{})

	rec, err := postJSON(t, h.SelectOutbound, `{"index":0}`, map[string]string{"id": "nope"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectOutbound_WrongStateRejected(t *testing.T) {
	h, store := newChatTestHandler(&stubExtractor{}, &fakeFlightProvider{})
	sess := store.GetOrCreate("")

	rec, err := postJSON(t, h.SelectOutbound, `{"index":0}`, map[string]string{"id": sess.ID})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectOutbound_ReturnFetchFailureAbortsFlow(t *testing.T) {
	extractor := &stubExtractor{result: &intent.Result{
		Action: intent.ActionSearch,
		Criteria: &models.SearchCriteria{
			Origin:      "JFK",
			Destination: models.DestinationList{"CDG"},
			Date:        "2026-02-05",
			ReturnDate:  "2026-02-08",
		},
	}}
	p := &fakeFlightProvider{
		searchOffers: map[string][]provider.RawOffer{
			"CDG": {rawOffer(850, "dep-1", "")},
		},
		returnErr: errors.New("upstream down"),
	}
	h, store := newChatTestHandler(extractor, p)

	rec, err := postJSON(t, h.Chat, `{"query":"round trip to paris"}`, nil)
	require.NoError(t, err)
	var resp models.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec, err = postJSON(t, h.SelectOutbound, `{"index":0}`, map[string]string{"id": resp.SessionID})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	sess, ok := store.Get(resp.SessionID)
	require.True(t, ok)
	assert.Equal(t, session.StateIdle, sess.State())
}
