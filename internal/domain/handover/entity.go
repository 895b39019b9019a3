package handover

import "time"

// DefaultListLimit is the number of messages shown on the handover board.
const DefaultListLimit = 200

type Message struct {
	ID        string
	UserID    string
	Message   string
	ShiftDate time.Time
	CreatedAt time.Time

	// Joined fields
	UserName string
}
