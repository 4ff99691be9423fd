package chat_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/memstore"
)

// fakeDirectory serves display info from a map and fails for ids in fail.
type fakeDirectory struct {
	mu    sync.Mutex
	users map[string]chat.UserInfo
	fail  map[string]bool
}

func (d *fakeDirectory) DisplayInfo(ctx context.Context, userID string) (chat.UserInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.fail[userID] {
		return chat.UserInfo{}, errors.New("directory offline")
	}
	u, ok := d.users[userID]
	if !ok {
		return chat.UserInfo{}, chat.ErrUserNotFound
	}
	return u, nil
}

func (d *fakeDirectory) setFail(userID string, fail bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fail[userID] = fail
}

func newDirectory() *fakeDirectory {
	return &fakeDirectory{
		users: map[string]chat.UserInfo{
			"C1": {ID: "C1", DisplayName: "Candidate One", AvatarURL: "https://img/c1.png"},
			"C2": {ID: "C2", DisplayName: "Candidate Two"},
			"E1": {ID: "E1", DisplayName: "Employer One"},
		},
		fail: map[string]bool{},
	}
}

func newService(t *testing.T) (*chat.Service, *memstore.Store, *fakeDirectory) {
	t.Helper()
	store := memstore.New()
	dir := newDirectory()
	return chat.NewService(store, dir), store, dir
}

// recorder collects feed emissions and lets tests wait for them.
type recorder[T any] struct {
	mu    sync.Mutex
	calls []T
	ch    chan T
}

func newRecorder[T any]() *recorder[T] {
	return &recorder[T]{ch: make(chan T, 64)}
}

func (r *recorder[T]) record(v T) {
	r.mu.Lock()
	r.calls = append(r.calls, v)
	r.mu.Unlock()
	r.ch <- v
}

func (r *recorder[T]) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *recorder[T]) next(t *testing.T) T {
	t.Helper()
	select {
	case v := <-r.ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for an emission")
	}
	var zero T
	return zero
}

// waitFor reads emissions until ok returns true.
func (r *recorder[T]) waitFor(t *testing.T, ok func(T) bool) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v := <-r.ch:
			if ok(v) {
				return v
			}
		case <-deadline:
			t.Fatalf("timed out waiting for a matching emission")
		}
	}
}

func contents(msgs []chat.Message) string {
	parts := make([]string, len(msgs))
	for i, m := range msgs {
		parts[i] = m.Content
	}
	return strings.Join(parts, ",")
}

func TestEnsureRoom_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	first, err := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	if err != nil {
		t.Fatalf("EnsureRoom failed: %v", err)
	}
	second, err := svc.EnsureRoom(ctx, "J1", "E1", "C1")
	if err != nil {
		t.Fatalf("EnsureRoom (reversed) failed: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected same room, got %s and %s", first.ID, second.ID)
	}
	if !first.CreatedAt.Equal(second.CreatedAt) {
		t.Fatalf("createdAt differs: %v vs %v", first.CreatedAt, second.CreatedAt)
	}
	rooms, _ := store.RoomsFor(ctx, "C1")
	if len(rooms) != 1 {
		t.Fatalf("expected exactly one stored room, got %d", len(rooms))
	}
}

func TestEnsureRoom_ValidationBeforeIO(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	if _, err := svc.EnsureRoom(ctx, "", "C1", "E1"); !errors.Is(err, chat.ErrMissingJobContext) {
		t.Fatalf("expected ErrMissingJobContext, got %v", err)
	}
	if _, err := svc.EnsureRoom(ctx, "J1", "C1", "C1"); !errors.Is(err, chat.ErrInvalidParticipants) {
		t.Fatalf("expected ErrInvalidParticipants, got %v", err)
	}
	if rooms, _ := store.RoomsFor(ctx, "C1"); len(rooms) != 0 {
		t.Fatalf("no room should have been stored, got %d", len(rooms))
	}
}

func TestAppend_RejectsBlankContent(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")

	for _, content := range []string{"", "   ", "\n\t "} {
		if _, err := svc.Append(ctx, room.ID, "C1", content); !errors.Is(err, chat.ErrEmptyMessage) {
			t.Fatalf("Append(%q): expected ErrEmptyMessage, got %v", content, err)
		}
	}
	msgs, _ := store.Messages(ctx, room.ID, 0)
	if len(msgs) != 0 {
		t.Fatalf("expected no stored messages, got %d", len(msgs))
	}
}

func TestAppend_Errors(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")

	if _, err := svc.Append(ctx, "J9_C1_E1", "C1", "hi"); !errors.Is(err, chat.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := svc.Append(ctx, room.ID, "C2", "hi"); !errors.Is(err, chat.ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
	long := strings.Repeat("x", chat.MaxContentLength+1)
	if _, err := svc.Append(ctx, room.ID, "C1", long); !errors.Is(err, chat.ErrMessageTooLong) {
		t.Fatalf("expected ErrMessageTooLong, got %v", err)
	}
}

func TestAppend_TrimsContent(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")

	msg, err := svc.Append(ctx, room.ID, " C1 ", "  Hello  ")
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if msg.Content != "Hello" || msg.SenderID != "C1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestHistory_ReturnsNewestInAscendingOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	for _, c := range []string{"1", "2", "3", "4"} {
		if _, err := svc.Append(ctx, room.ID, "E1", c); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	msgs, err := svc.History(ctx, room.ID, 3)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if got := contents(msgs); got != "2,3,4" {
		t.Fatalf("expected 2,3,4, got %s", got)
	}
}

func TestSubscribe_InitialStateAndOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")
	if _, err := svc.Append(ctx, room.ID, "C1", "first"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	rec := newRecorder[[]chat.Message]()
	sub, err := svc.Subscribe(ctx, room.ID, rec.record)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Cancel()

	if got := contents(rec.next(t)); got != "first" {
		t.Fatalf("initial emission should carry current state, got %q", got)
	}

	const n = 10
	for i := 0; i < n; i++ {
		if _, err := svc.Append(ctx, room.ID, "E1", string(rune('a'+i))); err != nil {
			t.Fatalf("Append %d failed: %v", i, err)
		}
	}

	final := rec.waitFor(t, func(m []chat.Message) bool { return len(m) == n+1 })
	if got := contents(final); got != "first,a,b,c,d,e,f,g,h,i,j" {
		t.Fatalf("unexpected order: %s", got)
	}
	for i := 1; i < len(final); i++ {
		if final[i].Timestamp.Before(final[i-1].Timestamp) {
			t.Fatalf("timestamps decrease at %d", i)
		}
	}
}

func TestSubscribe_UnknownRoom(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Subscribe(context.Background(), "J1_C1_E1", func([]chat.Message) {})
	if !errors.Is(err, chat.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestSubscribe_CancelStopsCallbacks(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")

	rec := newRecorder[[]chat.Message]()
	sub, err := svc.Subscribe(ctx, room.ID, rec.record)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	rec.next(t)

	if _, err := svc.Append(ctx, room.ID, "C1", "before cancel"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	rec.waitFor(t, func(m []chat.Message) bool { return len(m) == 1 })

	sub.Cancel()
	countAfterCancel := rec.count()

	if _, err := svc.Append(ctx, room.ID, "C1", "after cancel"); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	if got := rec.count(); got != countAfterCancel {
		t.Fatalf("callback fired after Cancel returned: %d -> %d", countAfterCancel, got)
	}
	select {
	case <-sub.Done():
	default:
		t.Fatalf("Done should be closed after Cancel")
	}

	if n := store.Hub().Listeners("room:" + room.ID); n != 0 {
		t.Fatalf("room listener still registered after Cancel: %d", n)
	}

	sub.Cancel() // idempotent
}

func TestSubscribe_RepeatedCancelLeavesNoListeners(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)
	room, _ := svc.EnsureRoom(ctx, "J1", "C1", "E1")

	for i := 0; i < 50; i++ {
		sub, err := svc.Subscribe(ctx, room.ID, func([]chat.Message) {})
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		sub.Cancel()
		if n := store.Hub().Listeners("room:" + room.ID); n != 0 {
			t.Fatalf("iteration %d: %d room listeners after Cancel", i, n)
		}
	}
}

func TestSubscribe_ContextCancellationEndsFeed(t *testing.T) {
	svc, _, _ := newService(t)
	room, _ := svc.EnsureRoom(context.Background(), "J1", "C1", "E1")

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := svc.Subscribe(ctx, room.ID, func([]chat.Message) {})
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatalf("feed did not stop after its context was cancelled")
	}
}

func TestScenario_CandidateAndEmployer(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	r1, err := chat.ResolveRoomID("J1", "C1", "E1")
	if err != nil {
		t.Fatalf("ResolveRoomID failed: %v", err)
	}
	r2, _ := chat.ResolveRoomID("J1", "E1", "C1")
	if r1 != r2 {
		t.Fatalf("both sides must resolve the same room: %s vs %s", r1, r2)
	}

	// both screens ensure the room at the same time
	var wg sync.WaitGroup
	rooms := make([]chat.Room, 2)
	for i, pair := range [][2]string{{"C1", "E1"}, {"E1", "C1"}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, err := svc.EnsureRoom(ctx, "J1", pair[0], pair[1])
			if err != nil {
				t.Errorf("EnsureRoom failed: %v", err)
			}
			rooms[i] = room
		}()
	}
	wg.Wait()
	if rooms[0].ID != r1 || rooms[1].ID != r1 || !rooms[0].CreatedAt.Equal(rooms[1].CreatedAt) {
		t.Fatalf("concurrent EnsureRoom diverged: %+v vs %+v", rooms[0], rooms[1])
	}

	if _, err := svc.Append(ctx, r1, "C1", "Hello"); err != nil {
		t.Fatalf("Append Hello failed: %v", err)
	}
	if _, err := svc.Append(ctx, r1, "E1", "Hi"); err != nil {
		t.Fatalf("Append Hi failed: %v", err)
	}

	rec := newRecorder[[]chat.Message]()
	sub, err := svc.Subscribe(ctx, r1, rec.record)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Cancel()
	if got := contents(rec.next(t)); got != "Hello,Hi" {
		t.Fatalf("expected Hello,Hi, got %s", got)
	}

	inbox, err := svc.Inbox(ctx, "E1")
	if err != nil {
		t.Fatalf("Inbox failed: %v", err)
	}
	if len(inbox) != 1 || inbox[0].Room.ID != r1 || inbox[0].LastMessage.Content != "Hi" {
		t.Fatalf("unexpected inbox: %+v", inbox)
	}
	if inbox[0].OtherParticipantID != "C1" || inbox[0].Other.DisplayName != "Candidate One" {
		t.Fatalf("unexpected other participant: %+v", inbox[0])
	}
}
