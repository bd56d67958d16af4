package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/silvercase/attendance-backend/internal/services"
)

// Listener long-polls the Telegram API and feeds updates through the router
// into the reconciler. A failing update is logged and skipped; the loop only
// exits when the context is cancelled.
type Listener struct {
	api         *tgbotapi.BotAPI
	router      *Router
	reconciler  *services.ReconcilerService
	pollTimeout int
	logger      *logrus.Logger
}

// NewListener creates a new listener
func NewListener(api *tgbotapi.BotAPI, router *Router, reconciler *services.ReconcilerService, pollTimeout int, logger *logrus.Logger) *Listener {
	return &Listener{
		api:         api,
		router:      router,
		reconciler:  reconciler,
		pollTimeout: pollTimeout,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = l.pollTimeout

	updates := l.api.GetUpdatesChan(cfg)

	l.logger.WithField("bot", l.api.Self.UserName).Info("Telegram listener started")

	for {
		select {
		case <-ctx.Done():
			l.api.StopReceivingUpdates()
			l.logger.Info("Telegram listener stopped")
			return
		case update, ok := <-updates:
			if !ok {
				l.logger.Warn("Telegram update channel closed")
				return
			}
			l.handleUpdate(update)
		}
	}
}

func (l *Listener) handleUpdate(update tgbotapi.Update) {
	ev, ok := eventFromUpdate(update)
	if !ok {
		return
	}

	var err error
	switch l.router.Route(ev) {
	case ActionGreet:
		err = l.reconciler.HandleStart(ev.ChatID)
	case ActionLink:
		err = l.reconciler.HandleLinkAttempt(ev.ChatID, ev.Text)
	case ActionIngestPhoto:
		err = l.reconciler.HandlePhoto(ev.ChatID, ev.FileID)
	case ActionIngestLocation:
		err = l.reconciler.HandleLocation(ev.ChatID, ev.Latitude, ev.Longitude)
	case ActionIgnore:
		return
	}

	if err != nil {
		l.logger.WithError(err).WithField("chat_id", ev.ChatID).Error("Failed to handle update")
	}
}

// eventFromUpdate flattens a Telegram update into an Event. Photo messages
// use the largest available size.
func eventFromUpdate(update tgbotapi.Update) (Event, bool) {
	msg := update.Message
	if msg == nil {
		return Event{}, false
	}

	ev := Event{ChatID: msg.Chat.ID}

	switch {
	case len(msg.Photo) > 0:
		ev.Kind = EventPhoto
		ev.FileID = msg.Photo[len(msg.Photo)-1].FileID
	case msg.Location != nil:
		ev.Kind = EventLocation
		ev.Latitude = msg.Location.Latitude
		ev.Longitude = msg.Location.Longitude
	case strings.TrimSpace(msg.Text) != "":
		ev.Kind = EventText
		ev.Text = msg.Text
	default:
		return Event{}, false
	}

	return ev, true
}
