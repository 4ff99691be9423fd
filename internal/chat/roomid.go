package chat

import (
	"fmt"
	"strings"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/normalize"
)

// RoomIDSeparator joins the job id and the sorted participant ids. It may not
// appear inside any of them.
const RoomIDSeparator = "_"

// NewParticipants validates two user ids and returns them as a canonical pair.
func NewParticipants(a, b string) (Participants, error) {
	a, b = normalize.ID(a), normalize.ID(b)
	if a == "" || b == "" || a == b {
		return Participants{}, ErrInvalidParticipants
	}
	if strings.Contains(a, RoomIDSeparator) || strings.Contains(b, RoomIDSeparator) {
		return Participants{}, fmt.Errorf("%w: ids may not contain %q", ErrInvalidParticipants, RoomIDSeparator)
	}
	if b < a {
		a, b = b, a
	}
	return Participants{a, b}, nil
}

// ResolveRoomID derives the room id for a job and two participants. The
// result does not depend on the order of a and b, so both sides of a
// conversation arrive at the same room without coordinating.
func ResolveRoomID(jobID, a, b string) (string, error) {
	job := normalize.ID(jobID)
	if job == "" {
		return "", ErrMissingJobContext
	}
	if strings.Contains(job, RoomIDSeparator) {
		return "", fmt.Errorf("%w: job id %q contains %q", ErrMissingJobContext, job, RoomIDSeparator)
	}
	p, err := NewParticipants(a, b)
	if err != nil {
		return "", err
	}
	return job + RoomIDSeparator + p[0] + RoomIDSeparator + p[1], nil
}
