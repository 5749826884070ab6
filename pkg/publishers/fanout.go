package publishers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrEventKind rejects events that carry no activity kind.
var ErrEventKind = errors.New("event kind is required")

// Fanout delivers gallery activity events to every configured sink.
type Fanout struct {
	sinks []Publisher
	now   func() time.Time
}

// NewFanout builds a fan-out over pubs. Nil entries are dropped.
func NewFanout(pubs []Publisher) *Fanout {
	f := &Fanout{now: time.Now}
	for _, p := range pubs {
		if p != nil {
			f.sinks = append(f.sinks, p)
		}
	}
	return f
}

// Publish delivers evt to every sink and reports how many accepted it.
// Events without a kind are rejected before delivery; a zero OccurredAt is
// stamped with the current time.
func (f *Fanout) Publish(ctx context.Context, evt Event) (int, error) {
	if f == nil || len(f.sinks) == 0 {
		return 0, nil
	}
	if evt.Kind == "" {
		return 0, ErrEventKind
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = f.now().UTC()
	}

	delivered := 0
	err := f.each("publish", func(p Publisher) error {
		if err := p.Publish(ctx, evt); err != nil {
			return err
		}
		delivered++
		return nil
	})
	return delivered, err
}

// Size returns the number of sinks.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.sinks)
}

// Close releases the clients held by sinks that own one.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	return f.each("close", func(p Publisher) error {
		if c, ok := p.(closer); ok {
			return c.Close()
		}
		return nil
	})
}

// each runs fn on every sink and joins the failures, labelled by sink.
func (f *Fanout) each(op string, fn func(Publisher) error) error {
	var errs []error
	for _, p := range f.sinks {
		if err := fn(p); err != nil {
			errs = append(errs, fmt.Errorf("%s %s publisher %q: %w", op, p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
