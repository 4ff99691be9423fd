package chat

import (
	"testing"
	"time"
)

func TestSortInbox_TiesBrokenByRoomID(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []InboxEntry{
		{Room: Room{ID: "J1_C3_E1"}, LastTimestamp: t0},
		{Room: Room{ID: "J1_C1_E1"}, LastTimestamp: t0},
		{Room: Room{ID: "J1_C9_E1"}, LastTimestamp: t0.Add(time.Minute)},
		{Room: Room{ID: "J1_C2_E1"}, LastTimestamp: t0},
	}

	want := []string{"J1_C9_E1", "J1_C1_E1", "J1_C2_E1", "J1_C3_E1"}
	for round := 0; round < 3; round++ {
		// reverse the input each round; the output must not change
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
		sortInbox(entries)
		for i, e := range entries {
			if e.Room.ID != want[i] {
				t.Fatalf("round %d: position %d = %s, want %s", round, i, e.Room.ID, want[i])
			}
		}
	}
}
