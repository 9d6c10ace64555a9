package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kasuboski/snatcher/pkg/logger"
)

//go:generate mockgen -source=notify.go -destination=mocks/mock_notify.go -package=mocks Notifier

const (
	ReleaseUpdateStatus   = "release.update_status"
	ReleaseSnatched       = "release.snatched"
	ReleaseManualDownload = "release.manual_download"
)

// Event is a change the user interface should hear about
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	At      time.Time `json:"at"`
}

// NewEvent stamps a new event with a random id and the current time
func NewEvent(eventType, message string, data any) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Message: message,
		Data:    data,
		At:      time.Now().UTC(),
	}
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// Log writes events to the context logger
type Log struct{}

func (Log) Notify(ctx context.Context, event Event) error {
	log := logger.FromCtx(ctx)
	log.Infow("notify", "event", event.Type, "id", event.ID, "message", event.Message)
	return nil
}

// Multi sends each event to every notifier, returning the joined errors
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
