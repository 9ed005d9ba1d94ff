package social

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// EventsChannel carries one JSON Event per successful graph mutation.
const EventsChannel = "graph.events"

// Event types published on EventsChannel.
const (
	EventConnectionCreated   = "connection_created"
	EventSubscribed          = "subscribed"
	EventBlocked             = "blocked"
	EventSubscriptionRemoved = "subscription_removed"
)

// Event describes one graph mutation. Actor performed the mutation,
// Subject is the far endpoint; both are emails.
type Event struct {
	Type    string    `json:"type"`
	Actor   string    `json:"actor"`
	Subject string    `json:"subject"`
	At      time.Time `json:"at"`
}

// publishEvent emits a mutation event. Best-effort: a publish failure is
// logged and never fails the operation that triggered it.
func (svc *Service) publishEvent(ctx context.Context, eventType, actor, subject string) {
	if svc.events == nil {
		return
	}
	payload, err := json.Marshal(&Event{
		Type:    eventType,
		Actor:   actor,
		Subject: subject,
		At:      time.Now().UTC(),
	})
	if err != nil {
		return
	}
	if err := svc.events.Publish(ctx, EventsChannel, string(payload)); err != nil {
		svc.logger.Warn("event publish failed",
			zap.String("type", eventType),
			zap.Error(err))
	}
}
