package outbox

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one pending row of the audit outbox.
type Entry struct {
	ID uuid.UUID
	// AggregateID keys the Kafka record so events for one wallet stay ordered
	// within a partition.
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}
