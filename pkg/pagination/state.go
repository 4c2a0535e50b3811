package pagination

import "fmt"

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 5

// PageRequest is a single offset/limit window.
type PageRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// String renders the request for logs and cache keys.
func (r PageRequest) String() string {
	return fmt.Sprintf("limit=%d offset=%d", r.Limit, r.Offset)
}

// Status is the coarse state of a loader.
type Status string

const (
	// StatusIdle accepts the next page request.
	StatusIdle Status = "idle"

	// StatusLoading has a fetch in flight.
	StatusLoading Status = "loading"

	// StatusComplete has loaded every record. Terminal.
	StatusComplete Status = "complete"
)

// State is an immutable snapshot of a loader's pagination bookkeeping.
type State struct {
	// PageSize is the fixed limit sent with every request.
	PageSize int

	// Offset is the start position of the next request.
	Offset int

	// Loaded is the number of accumulated records.
	Loaded int

	// Loading is set while a fetch is in flight.
	Loading bool

	// HasMore is false once a short page (or a known total) proved the end.
	HasMore bool
}

// NewState returns the state of a freshly mounted loader.
func NewState(pageSize int) State {
	return State{
		PageSize: pageSize,
		HasMore:  true,
	}
}

// Status reports the coarse state.
func (s State) Status() Status {
	switch {
	case s.Loading:
		return StatusLoading
	case !s.HasMore:
		return StatusComplete
	default:
		return StatusIdle
	}
}

// CanRequest reports whether a page request would be accepted.
func (s State) CanRequest() bool {
	return !s.Loading && s.HasMore
}

// rejection returns the guard error for a state that refuses requests.
func (s State) rejection() error {
	switch {
	case s.Loading:
		return ErrFetchInFlight
	case !s.HasMore:
		return ErrNoMorePages
	default:
		return nil
	}
}

// EventKind identifies what happened to the loader.
type EventKind int

const (
	// EventRequest asks for the next page.
	EventRequest EventKind = iota

	// EventPageLoaded reports a settled, successful fetch.
	EventPageLoaded

	// EventFetchFailed reports a settled, failed fetch.
	EventFetchFailed
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventRequest:
		return "request"
	case EventPageLoaded:
		return "page_loaded"
	case EventFetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Event is the input of Transition.
type Event struct {
	Kind EventKind

	// Received is the number of records merged (EventPageLoaded only).
	Received int

	// Total is the size of the full result set when the source knows it,
	// or -1 when it does not.
	Total int
}

// Request returns an EventRequest.
func Request() Event {
	return Event{Kind: EventRequest, Total: -1}
}

// PageLoaded returns an EventPageLoaded for n received records with an unknown total.
func PageLoaded(n int) Event {
	return Event{Kind: EventPageLoaded, Received: n, Total: -1}
}

// PageLoadedOf returns an EventPageLoaded for n received records out of total.
func PageLoadedOf(n, total int) Event {
	return Event{Kind: EventPageLoaded, Received: n, Total: total}
}

// FetchFailed returns an EventFetchFailed.
func FetchFailed() Event {
	return Event{Kind: EventFetchFailed, Total: -1}
}

// EffectKind identifies the side effect a transition asks for.
type EffectKind int

const (
	// EffectNone asks for nothing.
	EffectNone EffectKind = iota

	// EffectFetch asks the coordinator to issue Effect.Request.
	EffectFetch
)

// Effect is the output side effect of Transition.
type Effect struct {
	Kind    EffectKind
	Request PageRequest
}

// Transition applies an event to a state and returns the next state together
// with the side effect the caller must perform. It never mutates its input.
//
//	Idle(hasMore)  --request-->        Loading            (fetch limit/offset)
//	Loading        --N == pageSize-->  Idle(hasMore)      offset += pageSize
//	Loading        --N < pageSize-->   Idle(complete)     offset unchanged
//	Loading        --failure-->        Idle(prior hasMore)
//
// Events that do not apply to the current state leave it unchanged.
func Transition(s State, ev Event) (State, Effect) {
	switch ev.Kind {
	case EventRequest:
		if !s.CanRequest() {
			return s, Effect{Kind: EffectNone}
		}
		s.Loading = true
		return s, Effect{
			Kind:    EffectFetch,
			Request: PageRequest{Limit: s.PageSize, Offset: s.Offset},
		}

	case EventPageLoaded:
		if !s.Loading {
			return s, Effect{Kind: EffectNone}
		}
		s.Loading = false
		n := ev.Received
		if n < 0 {
			n = 0
		}
		s.Loaded += n
		if ev.Total >= 0 {
			// A known total decides the end, short pages included.
			s.Offset += n
			s.HasMore = s.Loaded < ev.Total
			return s, Effect{Kind: EffectNone}
		}
		if n == s.PageSize {
			s.Offset += s.PageSize
		} else {
			s.HasMore = false
		}
		return s, Effect{Kind: EffectNone}

	case EventFetchFailed:
		if !s.Loading {
			return s, Effect{Kind: EffectNone}
		}
		s.Loading = false
		return s, Effect{Kind: EffectNone}

	default:
		return s, Effect{Kind: EffectNone}
	}
}
