package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://serpapi.com/search.json"

	tripTypeRoundTrip = "1"
	tripTypeOneWay    = "2"
)

type SerpAPIConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SerpAPIProvider queries the Google Flights engine through SerpAPI.
type SerpAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewSerpAPIProvider(cfg SerpAPIConfig) (*SerpAPIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("serpapi: api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &SerpAPIProvider{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

func (p *SerpAPIProvider) SearchFlights(ctx context.Context, query FlightQuery) ([]RawOffer, error) {
	params := p.baseParams()
	params.Set("departure_id", query.Origin)
	params.Set("arrival_id", query.Destination)
	params.Set("outbound_date", query.OutboundDate)
	if query.ReturnDate != "" {
		params.Set("type", tripTypeRoundTrip)
		params.Set("return_date", query.ReturnDate)
	} else {
		params.Set("type", tripTypeOneWay)
	}

	data, err := p.fetch(ctx, "search flights", params)
	if err != nil {
		return nil, err
	}
	return data.Offers(), nil
}

func (p *SerpAPIProvider) ReturnFlights(ctx context.Context, query ReturnQuery) ([]RawOffer, error) {
	params := p.baseParams()
	params.Set("departure_token", query.DepartureToken)
	params.Set("departure_id", query.DepartureID)
	params.Set("arrival_id", query.ArrivalID)
	params.Set("outbound_date", query.OutboundDate)
	if query.ReturnDate != "" {
		params.Set("type", tripTypeRoundTrip)
		params.Set("return_date", query.ReturnDate)
	}

	data, err := p.fetch(ctx, "return flights", params)
	if err != nil {
		return nil, err
	}
	return data.Offers(), nil
}

func (p *SerpAPIProvider) BookingOptions(ctx context.Context, query BookingQuery) (*SearchData, error) {
	params := p.baseParams()
	params.Set("booking_token", query.BookingToken)
	params.Set("departure_id", query.DepartureID)
	params.Set("arrival_id", query.ArrivalID)
	params.Set("outbound_date", query.OutboundDate)
	if query.ReturnDate != "" {
		params.Set("type", tripTypeRoundTrip)
		params.Set("return_date", query.ReturnDate)
	} else {
		// Force one-way mode so the provider does not reject the lookup
		// with a "return date required" error.
		params.Set("type", tripTypeOneWay)
	}

	return p.fetch(ctx, "booking options", params)
}

func (p *SerpAPIProvider) baseParams() url.Values {
	params := url.Values{}
	params.Set("engine", "google_flights")
	params.Set("api_key", p.apiKey)
	params.Set("currency", "USD")
	params.Set("hl", "en")
	params.Set("gl", "us")
	return params
}

func (p *SerpAPIProvider) fetch(ctx context.Context, operation string, params url.Values) (*SearchData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, NewProviderError(operation, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, NewProviderError(operation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProviderError(operation, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, NewProviderError(operation, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body))
	}

	var data SearchData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, NewProviderError(operation, err)
	}

	if data.Error != "" {
		return nil, NewProviderError(operation, errors.New(data.Error))
	}

	return &data, nil
}
