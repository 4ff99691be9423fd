package chat

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/metrics"
)

// Subscription is a live feed opened by Subscribe or WatchInbox.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel stops the feed and releases its backend listener. When Cancel
// returns no further callback will run. It is safe to call more than once,
// but not from inside the feed's own callback; cancel the context given to
// Subscribe or WatchInbox for that.
func (s *Subscription) Cancel() {
	s.cancel()
	<-s.done
}

// Done is closed once the feed has stopped, either through Cancel, through
// its context, or because the backend listener ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// runFeed delivers initial and then a freshly loaded value after every
// signal on changes. All callbacks run on a single goroutine.
func runFeed[T any](ctx context.Context, cancel context.CancelFunc, log zerolog.Logger, kind string,
	changes <-chan struct{}, release func(), initial T, load func(context.Context) (T, error), onUpdate func(T)) *Subscription {
	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	gauge := metrics.ActiveSubscriptions.WithLabelValues(kind)
	gauge.Inc()

	go func() {
		defer func() {
			cancel()
			// the listener is gone before Cancel or Done can observe the end
			release()
			gauge.Dec()
			log.Debug().Str("kind", kind).Msg("subscription closed")
			close(sub.done)
		}()
		log.Debug().Str("kind", kind).Msg("subscription opened")

		if ctx.Err() != nil {
			return
		}
		onUpdate(initial)

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					if ctx.Err() == nil {
						log.Error().Str("kind", kind).Msg("backend listener ended")
					}
					return
				}
				v, err := load(ctx)
				if ctx.Err() != nil {
					return
				}
				if err != nil {
					// Keep listening; the next change reloads.
					log.Warn().Err(err).Str("kind", kind).Msg("reload after change failed")
					continue
				}
				onUpdate(v)
			}
		}
	}()
	return sub
}

// Subscribe opens a live feed of the room log. onUpdate first receives the
// current messages and then the full ordered log after every change.
func (s *Service) Subscribe(ctx context.Context, roomID string, onUpdate func([]Message)) (*Subscription, error) {
	room, err := s.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	// Listen before the first read so no append slips between the two.
	changes, release, err := s.store.WatchRoom(ctx, room.ID)
	if err != nil {
		cancel()
		return nil, err
	}
	load := func(ctx context.Context) ([]Message, error) {
		return s.store.Messages(ctx, room.ID, 0)
	}
	initial, err := load(ctx)
	if err != nil {
		cancel()
		release()
		return nil, err
	}

	log := s.log.With().Str("room_id", room.ID).Logger()
	return runFeed(ctx, cancel, log, "room", changes, release, initial, load, onUpdate), nil
}
