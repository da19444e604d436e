package mailingest

import "context"

// Mailbox is an open session on the ingest folder.
type Mailbox interface {
	// FetchUnseen returns up to limit unseen messages in ascending UID order
	// without setting \Seen.
	FetchUnseen(ctx context.Context, limit int) ([]RawMessage, error)
	MarkSeen(ctx context.Context, uid uint32) error
	// Move moves a message to folder, creating the folder if needed.
	Move(ctx context.Context, uid uint32, folder string) error
	Close() error
}

// Connector opens a mailbox session. Dial or login failures are returned as errors.
type Connector interface {
	Connect(ctx context.Context) (Mailbox, error)
}

type Parser interface {
	Parse(raw []byte) (*InboundMessage, error)
}

// RunLock prevents overlapping runs. Acquire returns false when another run holds the lock.
type RunLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}
