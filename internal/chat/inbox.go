package chat

import (
	"context"
	"errors"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/metrics"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/normalize"
)

// Inbox computes the current inbox of userID: every room the user belongs to
// that has at least one message, newest conversation first.
//
// A room whose last message or partner metadata cannot be read is left out
// of the result instead of failing the whole call. Nothing is cached, so the
// next computation tries it again.
func (s *Service) Inbox(ctx context.Context, userID string) ([]InboxEntry, error) {
	user := normalize.ID(userID)
	if user == "" {
		return nil, ErrInvalidParticipants
	}

	rooms, err := s.store.RoomsFor(ctx, user)
	if err != nil {
		return nil, err
	}

	slots := make([]*InboxEntry, len(rooms))
	var g errgroup.Group
	g.SetLimit(s.inboxConcurrency)
	for i, room := range rooms {
		g.Go(func() error {
			slots[i] = s.inboxEntry(ctx, user, room)
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]InboxEntry, 0, len(slots))
	for _, e := range slots {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	sortInbox(entries)
	metrics.InboxRecomputes.Inc()
	return entries, nil
}

// inboxEntry returns nil when the room has no messages or a lookup failed.
func (s *Service) inboxEntry(ctx context.Context, user string, room Room) *InboxEntry {
	log := s.log.With().Str("room_id", room.ID).Str("user_id", user).Logger()

	other, ok := room.Participants.Other(user)
	if !ok {
		metrics.InboxOmitted.WithLabelValues("membership").Inc()
		log.Warn().Msg("room listed for a user who is not a participant")
		return nil
	}

	last, err := s.store.LastMessage(ctx, room.ID)
	if err != nil {
		metrics.InboxOmitted.WithLabelValues("last_message").Inc()
		log.Warn().Err(err).Msg("inbox: last message lookup failed, omitting room")
		return nil
	}
	if last == nil {
		return nil
	}

	info := UserInfo{ID: other}
	if s.dir != nil {
		got, err := s.dir.DisplayInfo(ctx, other)
		switch {
		case err == nil:
			info = got
		case errors.Is(err, ErrUserNotFound):
			// Rendered with a placeholder name and avatar.
		default:
			metrics.InboxOmitted.WithLabelValues("presence").Inc()
			log.Warn().Err(err).Str("other_id", other).Msg("inbox: presence lookup failed, omitting room")
			return nil
		}
	}

	return &InboxEntry{
		Room:               room,
		OtherParticipantID: other,
		Other:              info,
		LastMessage:        last,
		LastTimestamp:      last.Timestamp,
	}
}

// sortInbox orders entries by last activity, newest first. Equal timestamps
// fall back to the room id so repeated emissions keep the same order.
func sortInbox(entries []InboxEntry) {
	slices.SortFunc(entries, func(a, b InboxEntry) int {
		if c := b.LastTimestamp.Compare(a.LastTimestamp); c != 0 {
			return c
		}
		return strings.Compare(a.Room.ID, b.Room.ID)
	})
}

// WatchInbox opens a live inbox feed for userID. onUpdate first receives the
// current inbox and then a full recomputation after every message appended
// to one of the user's rooms and every new room that includes the user.
// A recomputation whose room listing fails is skipped and logged.
func (s *Service) WatchInbox(ctx context.Context, userID string, onUpdate func([]InboxEntry)) (*Subscription, error) {
	user := normalize.ID(userID)
	if user == "" {
		return nil, ErrInvalidParticipants
	}

	ctx, cancel := context.WithCancel(ctx)
	changes, release, err := s.store.WatchUser(ctx, user)
	if err != nil {
		cancel()
		return nil, err
	}
	load := func(ctx context.Context) ([]InboxEntry, error) {
		return s.Inbox(ctx, user)
	}
	initial, err := load(ctx)
	if err != nil {
		cancel()
		release()
		return nil, err
	}

	log := s.log.With().Str("user_id", user).Logger()
	return runFeed(ctx, cancel, log, "inbox", changes, release, initial, load, onUpdate), nil
}
