package snapshots

import (
	"encoding/json"
	"time"

	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

// Data is the serialized form of a snapshot in Redis
type Data struct {
	ID        string          `json:"id"`
	Step      int             `json:"step"`
	Character json.RawMessage `json:"character"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func toData(s *Snapshot) *Data {
	return &Data{
		ID:        s.ID,
		Step:      s.Step,
		Character: s.Character,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func fromData(d *Data) *Snapshot {
	return &Snapshot{
		ID:        d.ID,
		Step:      d.Step,
		Character: d.Character,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func copySnapshot(s *Snapshot) *Snapshot {
	out := *s
	out.Character = append(json.RawMessage(nil), s.Character...)
	return &out
}

// checkSnapshot validates the fields every backend requires
func checkSnapshot(s *Snapshot) error {
	if s == nil {
		return dnderr.InvalidArgument("snapshot cannot be nil")
	}
	if s.ID == "" {
		return dnderr.InvalidArgument("snapshot ID is required")
	}
	if s.Step < 0 {
		return dnderr.InvalidArgumentf("snapshot step %d is negative", s.Step).
			WithMeta("session_id", s.ID)
	}
	if len(s.Character) == 0 || !json.Valid(s.Character) {
		return dnderr.InvalidArgumentf("snapshot %s has no valid character document", s.ID).
			WithMeta("session_id", s.ID)
	}
	return nil
}

func notFound(id string) error {
	return dnderr.NotFoundf("snapshot '%s' not found", id).
		WithMeta("session_id", id)
}

func alreadyExists(id string) error {
	return dnderr.AlreadyExistsf("snapshot '%s' already exists", id).
		WithMeta("session_id", id)
}
