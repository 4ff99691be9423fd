package chat

import "context"

// Store is the real-time backend the core is built on. Implementations own
// write ordering: they assign message ids, timestamps and sequence numbers.
type Store interface {
	// CreateRoomIfAbsent stores room unless a room with the same id exists,
	// and returns the stored record and whether this call created it.
	// CreatedAt is assigned by the store on first creation and never
	// overwritten.
	CreateRoomIfAbsent(ctx context.Context, room Room) (Room, bool, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	RoomsFor(ctx context.Context, userID string) ([]Room, error)

	// AppendMessage atomically appends to the log of room. It fails with
	// ErrRoomNotFound if the room vanished.
	AppendMessage(ctx context.Context, room Room, senderID, content string) (Message, error)
	// Messages returns the newest limit messages of a room in ascending
	// order; limit <= 0 means the whole log.
	Messages(ctx context.Context, roomID string, limit int) ([]Message, error)
	// LastMessage returns nil when the room has no messages.
	LastMessage(ctx context.Context, roomID string) (*Message, error)

	// WatchRoom and WatchUser open a backend listener. The returned channel
	// receives a value after changes (several changes may collapse into one
	// value) and is closed once ctx is done or the listener fails. release
	// frees the listener before it returns; it is safe to call more than once.
	WatchRoom(ctx context.Context, roomID string) (changes <-chan struct{}, release func(), err error)
	WatchUser(ctx context.Context, userID string) (changes <-chan struct{}, release func(), err error)

	Ping(ctx context.Context) error
}

// Directory resolves display metadata for a user. It returns ErrUserNotFound
// for unknown users.
type Directory interface {
	DisplayInfo(ctx context.Context, userID string) (UserInfo, error)
}
