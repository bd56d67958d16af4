package bot

import (
	"strings"

	"github.com/silvercase/attendance-backend/pkg/validator"
)

// EventKind classifies an incoming chat update.
type EventKind int

const (
	EventText EventKind = iota
	EventPhoto
	EventLocation
)

// Event is a transport-neutral chat update.
type Event struct {
	ChatID    int64
	Kind      EventKind
	Text      string
	FileID    string
	Latitude  float64
	Longitude float64
}

// ActionType is the routing decision for an event.
type ActionType int

const (
	ActionIgnore ActionType = iota
	ActionGreet
	ActionLink
	ActionIngestPhoto
	ActionIngestLocation
)

// Router decides what to do with a chat event without touching any state.
type Router struct {
	phones *validator.PhoneValidator
}

// NewRouter creates a new router
func NewRouter(phones *validator.PhoneValidator) *Router {
	return &Router{phones: phones}
}

// Route maps an event to an action. /start greets, other commands are
// dropped, numeric text long enough to be a phone number attempts a link,
// and any other text is ignored.
func (r *Router) Route(ev Event) ActionType {
	switch ev.Kind {
	case EventPhoto:
		return ActionIngestPhoto
	case EventLocation:
		return ActionIngestLocation
	case EventText:
		text := strings.TrimSpace(ev.Text)
		if text == "/start" {
			return ActionGreet
		}
		if strings.HasPrefix(text, "/") {
			return ActionIgnore
		}
		if r.phones.IsLinkCode(text) {
			return ActionLink
		}
		return ActionIgnore
	default:
		return ActionIgnore
	}
}
