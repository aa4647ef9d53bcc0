package snapshots

//go:generate mockgen -destination=mock/mock_repository.go -package=mocksnapshots -source=interface.go

import (
	"context"
	"encoding/json"
	"time"
)

// Snapshot is the resumable state of one wizard session: the step the user
// is on and the character document as last saved.
type Snapshot struct {
	ID        string
	Step      int
	Character json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines the interface for snapshot persistence
type Repository interface {
	// Create stores a new snapshot, stamping both timestamps
	Create(ctx context.Context, snapshot *Snapshot) error

	// Get retrieves a snapshot by session ID
	Get(ctx context.Context, id string) (*Snapshot, error)

	// Update replaces an existing snapshot, stamping UpdatedAt
	Update(ctx context.Context, snapshot *Snapshot) error

	// Delete removes a snapshot
	Delete(ctx context.Context, id string) error

	// List returns every stored snapshot
	List(ctx context.Context) ([]*Snapshot, error)
}

//go:generate mockgen -destination=mock/mock_time_provider.go -package=mocksnapshots github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots TimeProvider

// TimeProvider supplies the current time for timestamps
type TimeProvider interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock returns a TimeProvider backed by the wall clock
func SystemClock() TimeProvider {
	return systemClock{}
}
