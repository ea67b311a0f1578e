package providers

import (
	"context"

	"github.com/DewyHRite/test.jamwathq.test-sub000/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ReviewEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ReviewEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelReviews is the channel for all review submissions
	EventChannelReviews = "reviews:activity"

	// EventChannelStatePrefix is the prefix for state-specific channels
	EventChannelStatePrefix = "state:"

	// EventChannelAgencyPrefix is the prefix for agency-specific channels
	EventChannelAgencyPrefix = "agency:"
)

// GetStateChannel returns the channel name for a specific state
func GetStateChannel(state string) string {
	return EventChannelStatePrefix + state
}

// GetAgencyChannel returns the channel name for a specific agency
func GetAgencyChannel(agencyID string) string {
	return EventChannelAgencyPrefix + agencyID
}
