package session

import (
	"fmt"
	"sync"

	"github.com/dharmasatrya/flightchat/internal/intent"
	"github.com/dharmasatrya/flightchat/internal/models"
)

type State string

const (
	StateIdle           State = "idle"
	StateSearching      State = "searching"
	StateOutboundSelect State = "outbound_selection"
	StateReturnSelect   State = "return_selection"
	StateBooking        State = "booking"
)

// Session holds one user's conversation transcript and the outbound/return
// selection state machine. Every transition is user-triggered; a failed
// step reports why and falls back to Idle rather than retrying.
type Session struct {
	ID string

	mu            sync.Mutex
	state         State
	history       []intent.Message
	offers        []models.FlightOffer
	selected      *models.FlightOffer
	returnOptions []models.FlightOffer
}

func New(id string) *Session {
	return &Session{
		ID:    id,
		state: StateIdle,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) AddMessage(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, intent.Message{Role: role, Content: content})
}

// RecentHistory returns up to n of the latest transcript turns.
func (s *Session) RecentHistory(n int) []intent.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.history
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]intent.Message, len(history))
	copy(out, history)
	return out
}

// BeginSearch marks the session as mid-search and clears previous
// selection state.
func (s *Session) BeginSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateSearching
	s.offers = nil
	s.selected = nil
	s.returnOptions = nil
}

// PresentOffers records the search results. Round-trip outbound offers
// open the outbound-selection step; one-way results end the turn.
func (s *Session) PresentOffers(offers []models.FlightOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offers = offers
	s.selected = nil
	s.returnOptions = nil

	for i := range offers {
		if offers[i].RequiresReturnSelection() {
			s.state = StateOutboundSelect
			return
		}
	}
	s.state = StateIdle
}

// SelectOutbound picks an outbound offer and builds the return-leg lookup
// from the context echoed onto it. An offer without a departure token or
// complete route context aborts the step without any provider call.
func (s *Session) SelectOutbound(index int) (models.ReturnFlightsRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateOutboundSelect {
		return models.ReturnFlightsRequest{}, fmt.Errorf("session: no outbound selection in progress (state %s)", s.state)
	}
	if index < 0 || index >= len(s.offers) {
		return models.ReturnFlightsRequest{}, fmt.Errorf("session: offer index %d out of range", index)
	}

	offer := s.offers[index]
	if !offer.RequiresReturnSelection() || !offer.HasBookingContext() {
		s.state = StateIdle
		return models.ReturnFlightsRequest{}, fmt.Errorf("session: offer is missing booking context")
	}

	s.selected = &offer
	return models.ReturnFlightsRequest{
		DepartureToken: offer.BookingToken,
		DepartureID:    offer.DepartureID,
		ArrivalID:      offer.ArrivalID,
		OutboundDate:   offer.OutboundDate,
		ReturnDate:     offer.ReturnDate,
	}, nil
}

// PresentReturnOptions moves the session into return selection.
func (s *Session) PresentReturnOptions(offers []models.FlightOffer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.returnOptions = offers
	s.state = StateReturnSelect
}

// SelectReturn picks one return offer; its token is directly bookable.
func (s *Session) SelectReturn(index int) (models.FlightOffer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReturnSelect {
		return models.FlightOffer{}, fmt.Errorf("session: no return selection in progress (state %s)", s.state)
	}
	if index < 0 || index >= len(s.returnOptions) {
		return models.FlightOffer{}, fmt.Errorf("session: offer index %d out of range", index)
	}

	offer := s.returnOptions[index]
	if offer.BookingToken == "" {
		s.state = StateIdle
		return models.FlightOffer{}, fmt.Errorf("session: return offer has no booking token")
	}

	s.state = StateBooking
	return offer, nil
}

// SelectedOutbound returns the outbound offer chosen earlier in the flow.
func (s *Session) SelectedOutbound() *models.FlightOffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	offer := *s.selected
	return &offer
}

// Finish closes the booking step and returns the session to Idle.
func (s *Session) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
}

// Fail aborts whatever step was in progress.
func (s *Session) Fail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.selected = nil
	s.returnOptions = nil
}
