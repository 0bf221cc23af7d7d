package domain

import "time"

// PendingEntry is a LogEntry that could not be appended to its week file
// and is held in the outbox until a later attempt succeeds.
type PendingEntry struct {
	ID        string
	Seq       int64
	Entry     LogEntry
	Attempts  int
	LastError string
	QueuedAt  time.Time
}

// Checkpoint is the persisted copy of the open session. SeenAt is the last
// time the tracker was known to be running.
type Checkpoint struct {
	Session Session
	SeenAt  time.Time
}
