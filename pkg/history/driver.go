package history

import "context"

// Driver handles durable storage of conversation memory.
//
// Drivers are pluggable via configuration:
//
//	{"history": {"provider": "file"}}   # or "sqlite"
//
// Load must degrade rather than fail: missing or corrupt storage yields an
// empty Memory so the assistant stays usable without its past. Save failures
// are reported to the caller, which logs them without aborting the chat turn.
type Driver interface {
	// Load reads the persisted memory, sanitizing and truncating it to
	// the MaxEntries cap.
	Load(ctx context.Context) (*Memory, error)

	// Save persists the full memory structure.
	Save(ctx context.Context, mem *Memory) error

	// Close releases driver resources.
	Close() error
}
