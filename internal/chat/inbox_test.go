package chat_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/memstore"
)

// flakyStore fails LastMessage for selected rooms.
type flakyStore struct {
	chat.Store
	mu   sync.Mutex
	fail map[string]bool
}

func (f *flakyStore) LastMessage(ctx context.Context, roomID string) (*chat.Message, error) {
	f.mu.Lock()
	fail := f.fail[roomID]
	f.mu.Unlock()
	if fail {
		return nil, chat.Unavailable("read last message", errors.New("connection reset"))
	}
	return f.Store.LastMessage(ctx, roomID)
}

func roomIDs(entries []chat.InboxEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.Room.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func mustAppend(t *testing.T, svc *chat.Service, roomID, sender, content string) {
	t.Helper()
	if _, err := svc.Append(context.Background(), roomID, sender, content); err != nil {
		t.Fatalf("Append(%s, %s) failed: %v", roomID, content, err)
	}
}

func TestInbox_ExcludesEmptyRoomsAndSortsByRecency(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	a, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	b, _ := svc.EnsureRoom(ctx, "J2", "C1", "E1")
	empty, _ := svc.EnsureRoom(ctx, "J3", "C1", "E1")

	mustAppend(t, svc, a.ID, "C1", "old")
	mustAppend(t, svc, b.ID, "E1", "new")

	inbox, err := svc.Inbox(ctx, "E1")
	if err != nil {
		t.Fatalf("Inbox failed: %v", err)
	}
	if got := roomIDs(inbox); !equalIDs(got, []string{b.ID, a.ID}) {
		t.Fatalf("unexpected inbox order: %v", got)
	}
	for _, e := range inbox {
		if e.Room.ID == empty.ID {
			t.Fatalf("room without messages must not appear")
		}
		if e.LastMessage == nil || !e.LastTimestamp.Equal(e.LastMessage.Timestamp) {
			t.Fatalf("entry without a consistent last message: %+v", e)
		}
	}

	// a new message in the oldest room moves it to the top
	mustAppend(t, svc, a.ID, "E1", "bump")
	inbox, _ = svc.Inbox(ctx, "E1")
	if got := roomIDs(inbox); !equalIDs(got, []string{a.ID, b.ID}) {
		t.Fatalf("expected bumped room first, got %v", got)
	}
	if inbox[0].LastMessage.Content != "bump" {
		t.Fatalf("expected last message 'bump', got %q", inbox[0].LastMessage.Content)
	}
}

func TestInbox_InvalidUser(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.Inbox(context.Background(), "  "); !errors.Is(err, chat.ErrInvalidParticipants) {
		t.Fatalf("expected ErrInvalidParticipants, got %v", err)
	}
}

func TestInbox_PresenceFailureOmitsRoomUntilNextComputation(t *testing.T) {
	ctx := context.Background()
	svc, _, dir := newService(t)

	withC1, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	withC2, _ := svc.EnsureRoom(ctx, "J1", "C2", "E1")
	mustAppend(t, svc, withC1.ID, "C1", "from c1")
	mustAppend(t, svc, withC2.ID, "C2", "from c2")

	dir.setFail("C2", true)
	inbox, err := svc.Inbox(ctx, "E1")
	if err != nil {
		t.Fatalf("partial failure must not fail the aggregation: %v", err)
	}
	if got := roomIDs(inbox); !equalIDs(got, []string{withC1.ID}) {
		t.Fatalf("expected only the healthy room, got %v", got)
	}

	dir.setFail("C2", false)
	inbox, _ = svc.Inbox(ctx, "E1")
	if got := roomIDs(inbox); !equalIDs(got, []string{withC2.ID, withC1.ID}) {
		t.Fatalf("omission must not be cached, got %v", got)
	}
}

func TestInbox_LastMessageFailureOmitsRoom(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyStore{Store: memstore.New(), fail: map[string]bool{}}
	svc := chat.NewService(flaky, newDirectory(), chat.WithInboxConcurrency(2))

	a, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	b, _ := svc.EnsureRoom(ctx, "J2", "C1", "E1")
	mustAppend(t, svc, a.ID, "C1", "a")
	mustAppend(t, svc, b.ID, "C1", "b")

	flaky.mu.Lock()
	flaky.fail[b.ID] = true
	flaky.mu.Unlock()

	inbox, err := svc.Inbox(ctx, "C1")
	if err != nil {
		t.Fatalf("Inbox failed: %v", err)
	}
	if got := roomIDs(inbox); !equalIDs(got, []string{a.ID}) {
		t.Fatalf("expected failing room to be omitted, got %v", got)
	}
}

func TestInbox_UnknownPartnerKeepsEntry(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E404")
	mustAppend(t, svc, room.ID, "C1", "anyone there?")

	inbox, err := svc.Inbox(ctx, "C1")
	if err != nil {
		t.Fatalf("Inbox failed: %v", err)
	}
	if len(inbox) != 1 {
		t.Fatalf("expected the room to stay listed, got %d entries", len(inbox))
	}
	if inbox[0].Other.ID != "E404" || inbox[0].Other.DisplayName != "" {
		t.Fatalf("expected placeholder info for unknown user, got %+v", inbox[0].Other)
	}
}

func TestInbox_WithoutDirectory(t *testing.T) {
	ctx := context.Background()
	svc := chat.NewService(memstore.New(), nil)

	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	mustAppend(t, svc, room.ID, "C1", "hi")

	inbox, _ := svc.Inbox(ctx, "E1")
	if len(inbox) != 1 || inbox[0].Other.ID != "C1" {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}
}

func TestWatchInbox_ReemitsOnAppendAndRoomCreation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	old, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	mustAppend(t, svc, old.ID, "C1", "first")

	rec := newRecorder[[]chat.InboxEntry]()
	sub, err := svc.WatchInbox(ctx, "E1", rec.record)
	if err != nil {
		t.Fatalf("WatchInbox failed: %v", err)
	}
	defer sub.Cancel()

	if got := roomIDs(rec.next(t)); !equalIDs(got, []string{old.ID}) {
		t.Fatalf("unexpected initial inbox: %v", got)
	}

	// a new room shows up once it carries a message
	fresh, _ := svc.EnsureRoom(ctx, "J2", "C2", "E1")
	mustAppend(t, svc, fresh.ID, "C2", "hello from c2")
	rec.waitFor(t, func(e []chat.InboxEntry) bool {
		return equalIDs(roomIDs(e), []string{fresh.ID, old.ID})
	})

	// appending to the oldest room moves it to the top
	mustAppend(t, svc, old.ID, "E1", "reply")
	got := rec.waitFor(t, func(e []chat.InboxEntry) bool {
		return equalIDs(roomIDs(e), []string{old.ID, fresh.ID})
	})
	if got[0].LastMessage.Content != "reply" {
		t.Fatalf("expected last message 'reply', got %q", got[0].LastMessage.Content)
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, emission := range rec.calls {
		for _, e := range emission {
			if e.LastMessage == nil {
				t.Fatalf("an emission contained a room without messages")
			}
		}
	}
}

func TestWatchInbox_CancelStopsCallbacks(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")

	rec := newRecorder[[]chat.InboxEntry]()
	sub, err := svc.WatchInbox(ctx, "C1", rec.record)
	if err != nil {
		t.Fatalf("WatchInbox failed: %v", err)
	}
	rec.next(t)
	sub.Cancel()
	before := rec.count()
	if n := store.Hub().Listeners("user:C1"); n != 0 {
		t.Fatalf("user listener still registered after Cancel: %d", n)
	}

	mustAppend(t, svc, room.ID, "E1", "ignored")
	if after := rec.count(); after != before {
		t.Fatalf("callback fired after Cancel: %d -> %d", before, after)
	}
}
