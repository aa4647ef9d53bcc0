package snapshots

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository keeps snapshots in process memory. Snapshots are lost
// on exit; it backs tests and the default CLI store.
type InMemoryRepository struct {
	mu           sync.RWMutex
	snapshots    map[string]*Snapshot
	timeProvider TimeProvider
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository(timeProvider TimeProvider) Repository {
	if timeProvider == nil {
		timeProvider = SystemClock()
	}
	return &InMemoryRepository{
		snapshots:    make(map[string]*Snapshot),
		timeProvider: timeProvider,
	}
}

// Create stores a new snapshot
func (r *InMemoryRepository) Create(ctx context.Context, snapshot *Snapshot) error {
	if err := checkSnapshot(snapshot); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.snapshots[snapshot.ID]; exists {
		return alreadyExists(snapshot.ID)
	}

	now := r.timeProvider.Now()
	snapshot.CreatedAt = now
	snapshot.UpdatedAt = now
	r.snapshots[snapshot.ID] = copySnapshot(snapshot)

	return nil
}

// Get retrieves a snapshot by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, exists := r.snapshots[id]
	if !exists {
		return nil, notFound(id)
	}
	return copySnapshot(snapshot), nil
}

// Update replaces an existing snapshot
func (r *InMemoryRepository) Update(ctx context.Context, snapshot *Snapshot) error {
	if err := checkSnapshot(snapshot); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.snapshots[snapshot.ID]
	if !exists {
		return notFound(snapshot.ID)
	}

	snapshot.CreatedAt = existing.CreatedAt
	snapshot.UpdatedAt = r.timeProvider.Now()
	r.snapshots[snapshot.ID] = copySnapshot(snapshot)

	return nil
}

// Delete removes a snapshot
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.snapshots[id]; !exists {
		return notFound(id)
	}
	delete(r.snapshots, id)

	return nil
}

// List returns every snapshot, oldest first
func (r *InMemoryRepository) List(ctx context.Context) ([]*Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Snapshot, 0, len(r.snapshots))
	for _, s := range r.snapshots {
		result = append(result, copySnapshot(s))
	}
	sortByCreated(result)

	return result, nil
}

func sortByCreated(list []*Snapshot) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
}
