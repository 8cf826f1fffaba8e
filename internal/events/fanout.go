package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignite/audience-subscribe/internal/domain"
	"github.com/ignite/audience-subscribe/internal/pkg/logger"
)

// Sink accepts subscription events.
type Sink interface {
	Record(ctx context.Context, evt domain.SubscriptionEvent) error
}

// Fanout records each event to every sink. A failing sink does not stop the
// others; all failures are logged and joined into the returned error.
type Fanout struct {
	sinks []Sink
	log   logrus.FieldLogger
}

// NewFanout creates a Fanout. Nil sinks are skipped.
func NewFanout(log logrus.FieldLogger, sinks ...Sink) *Fanout {
	f := &Fanout{log: logger.OrDefault(log)}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Len returns the number of sinks.
func (f *Fanout) Len() int { return len(f.sinks) }

// Record implements subscription.EventSink.
func (f *Fanout) Record(ctx context.Context, evt domain.SubscriptionEvent) error {
	var errs []error
	for i, s := range f.sinks {
		if err := s.Record(ctx, evt); err != nil {
			f.log.WithFields(logrus.Fields{
				"sink":     fmt.Sprintf("%T", s),
				"index":    i,
				"event_id": evt.ID,
			}).WithError(err).Warn("events: sink failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
