// Package wizard runs character-creation sessions: it holds the character
// and the current step for each session, applies the sequencer rules on
// navigation and persists a snapshot after every transition.
package wizard

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/sequencer"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
	"github.com/KirkDiggler/wod-character-wizard/internal/sheet"
	"github.com/KirkDiggler/wod-character-wizard/internal/uuid"
)

// listConcurrency bounds how many snapshots List decodes at once
const listConcurrency = 8

// Session is one wizard run
type Session struct {
	ID        string
	Step      int
	Character *character.Character
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Screen resolves the screen for the session's current step
func (s *Session) Screen() (sequencer.Screen, error) {
	return sequencer.ResolveScreen(s.Step, s.Character)
}

// Summary is the listing view of a session
type Summary struct {
	ID        string    `json:"id"`
	Step      int       `json:"step"`
	Name      string    `json:"name"`
	Tribe     string    `json:"tribe"`
	Auspice   string    `json:"auspice"`
	Complete  bool      `json:"complete"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service defines the wizard session operations
type Service interface {
	// Start creates a session with an empty character on the intro step
	Start(ctx context.Context) (*Session, error)

	// Get loads a session, migrating and validating the stored character
	Get(ctx context.Context, id string) (*Session, error)

	// List summarizes every stored session. Sessions whose character no
	// longer validates are skipped.
	List(ctx context.Context) ([]*Summary, error)

	// Apply replaces the session character. The step stays put unless the
	// step table shrank below it.
	Apply(ctx context.Context, id string, c *character.Character) (*Session, error)

	// Advance moves to the next step, stopping at the final step
	Advance(ctx context.Context, id string) (*Session, error)

	// Back moves to the previous step, stopping at the intro
	Back(ctx context.Context, id string) (*Session, error)

	// JumpTo moves to target when the sequencer allows it. A refused jump
	// leaves the session unchanged and is not an error.
	JumpTo(ctx context.Context, id string, target int) (*Session, error)

	// Load replaces the session character with a saved character file.
	// On any failure the session keeps its previous character.
	Load(ctx context.Context, id string, data []byte) (*Session, error)

	// Reset puts an empty character back and returns to the intro
	Reset(ctx context.Context, id string) (*Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id string) error

	// Steps lists the stepper entries for the session
	Steps(ctx context.Context, id string) ([]sequencer.StepInfo, error)

	// CheckBudgets checks the session character's point budgets
	CheckBudgets(ctx context.Context, id string) error

	// Export fills form from the session character
	Export(ctx context.Context, id string, form sheet.Form, opts ...sheet.Option) (*sheet.Report, error)
}

// ServiceConfig holds configuration for the wizard service
type ServiceConfig struct {
	Repository    snapshots.Repository
	Catalog       *catalog.Catalog
	UUIDGenerator uuid.Generator
	// SheetOptions are applied before the options passed to Export
	SheetOptions []sheet.Option
}

type service struct {
	repository   snapshots.Repository
	catalog      *catalog.Catalog
	uuid         uuid.Generator
	sheetOptions []sheet.Option
}

// NewService creates a new wizard service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil {
		panic("ServiceConfig cannot be nil")
	}
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:   cfg.Repository,
		catalog:      cfg.Catalog,
		uuid:         cfg.UUIDGenerator,
		sheetOptions: cfg.SheetOptions,
	}
	if svc.catalog == nil {
		svc.catalog = catalog.Default()
	}
	if svc.uuid == nil {
		svc.uuid = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

// Start creates a session with an empty character on the intro step
func (s *service) Start(ctx context.Context) (*Session, error) {
	session := &Session{
		ID:        s.uuid.New(),
		Step:      0,
		Character: character.Empty(),
	}

	snapshot, err := toSnapshot(session)
	if err != nil {
		return nil, err
	}
	if err := s.repository.Create(ctx, snapshot); err != nil {
		return nil, dnderr.Wrap(err, "failed to create session").
			WithMeta("session_id", session.ID)
	}
	session.CreatedAt = snapshot.CreatedAt
	session.UpdatedAt = snapshot.UpdatedAt

	log.Printf("started wizard session %s", session.ID)
	return session, nil
}

// Get loads a session
func (s *service) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, dnderr.InvalidArgument("session ID is required")
	}

	snapshot, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.fromSnapshot(snapshot)
}

// List summarizes every stored session, oldest first
func (s *service) List(ctx context.Context) ([]*Summary, error) {
	stored, err := s.repository.List(ctx)
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list sessions")
	}

	summaries := make([]*Summary, len(stored))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, snapshot := range stored {
		g.Go(func() error {
			session, err := s.fromSnapshot(snapshot)
			if err != nil {
				log.Printf("skipping session %s: %v", snapshot.ID, err)
				return nil
			}
			summaries[i] = summarize(session)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*Summary, 0, len(summaries))
	for _, summary := range summaries {
		if summary != nil {
			out = append(out, summary)
		}
	}
	return out, nil
}

// Apply replaces the session character. Legacy fields follow whichever side
// of each pair the caller edited, and a tribe or auspice change re-derives the
// available gifts and drops picks the new pair no longer allows.
func (s *service) Apply(ctx context.Context, id string, c *character.Character) (*Session, error) {
	if c == nil {
		return nil, dnderr.InvalidArgument("character is required").
			WithMeta("session_id", id)
	}

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := session.Character
	next := c.ReconcileLegacy(prev)
	if next.Tribe != prev.Tribe {
		next = next.WithTribe(s.catalog, next.Tribe)
	}
	if next.Auspice != prev.Auspice {
		next = next.WithAuspice(s.catalog, next.Auspice)
	}
	next.SchemaVersion = character.CurrentSchemaVersion
	next, err = checked(next)
	if err != nil {
		return nil, err
	}

	session.Character = next
	session.Step = min(session.Step, sequencer.FinalStep(next))
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Advance moves to the next step
func (s *service) Advance(ctx context.Context, id string) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := min(sequencer.Advance(session.Step), sequencer.FinalStep(session.Character))
	return s.moveTo(ctx, session, next)
}

// Back moves to the previous step
func (s *service) Back(ctx context.Context, id string) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.moveTo(ctx, session, sequencer.Back(session.Step))
}

// JumpTo moves to target when the sequencer allows it
func (s *service) JumpTo(ctx context.Context, id string, target int) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := sequencer.JumpTo(session.Step, target, session.Character)
	if next != target {
		log.Printf("session %s: jump from step %d to %d refused", session.ID, session.Step, target)
	}
	return s.moveTo(ctx, session, next)
}

// Load replaces the session character with a saved character file
func (s *service) Load(ctx context.Context, id string, data []byte) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	loaded, err := Parse(s.catalog, data)
	if err != nil {
		if dnderr.IsSchemaViolation(err) {
			log.Printf("session %s: rejected character file with %d violation(s)",
				session.ID, len(dnderr.Violations(err)))
		}
		return nil, err
	}

	session.Character = loaded
	session.Step = min(session.Step, sequencer.FinalStep(loaded))
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	log.Printf("session %s: loaded character %q", session.ID, loaded.Name)
	return session, nil
}

// Reset puts an empty character back and returns to the intro
func (s *service) Reset(ctx context.Context, id string) (*Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Character = character.Empty()
	session.Step = 0
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Delete removes a session
func (s *service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dnderr.InvalidArgument("session ID is required")
	}
	return s.repository.Delete(ctx, id)
}

// Steps lists the stepper entries for the session
func (s *service) Steps(ctx context.Context, id string) ([]sequencer.StepInfo, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return sequencer.Steps(session.Character), nil
}

// CheckBudgets checks the session character's point budgets
func (s *service) CheckBudgets(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return session.Character.CheckBudgets(s.catalog)
}

// Export fills form from the session character
func (s *service) Export(ctx context.Context, id string, form sheet.Form, opts ...sheet.Option) (*sheet.Report, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	all := append(append([]sheet.Option{}, s.sheetOptions...), opts...)
	report, err := sheet.Export(session.Character, form, all...)
	if err != nil {
		return nil, err
	}
	if !report.Complete() {
		log.Printf("session %s: sheet export left %d field(s) unresolved", session.ID, len(report.Unresolved))
	}
	return report, nil
}

func (s *service) moveTo(ctx context.Context, session *Session, step int) (*Session, error) {
	if step == session.Step {
		return session, nil
	}
	session.Step = step
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *service) save(ctx context.Context, session *Session) error {
	snapshot, err := toSnapshot(session)
	if err != nil {
		return err
	}
	if err := s.repository.Update(ctx, snapshot); err != nil {
		return dnderr.Wrap(err, "failed to save session").
			WithMeta("session_id", session.ID)
	}
	session.CreatedAt = snapshot.CreatedAt
	session.UpdatedAt = snapshot.UpdatedAt
	return nil
}

func (s *service) fromSnapshot(snapshot *snapshots.Snapshot) (*Session, error) {
	c, err := Parse(s.catalog, snapshot.Character)
	if err != nil {
		return nil, dnderr.Wrap(err, "stored character is invalid").
			WithMeta("session_id", snapshot.ID)
	}
	return &Session{
		ID:        snapshot.ID,
		Step:      min(max(snapshot.Step, 0), sequencer.FinalStep(c)),
		Character: c,
		CreatedAt: snapshot.CreatedAt,
		UpdatedAt: snapshot.UpdatedAt,
	}, nil
}

func toSnapshot(session *Session) (*snapshots.Snapshot, error) {
	data, err := json.Marshal(session.Character)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to encode character").
			WithMeta("session_id", session.ID)
	}
	return &snapshots.Snapshot{
		ID:        session.ID,
		Step:      session.Step,
		Character: data,
	}, nil
}

func summarize(session *Session) *Summary {
	return &Summary{
		ID:        session.ID,
		Step:      session.Step,
		Name:      session.Character.Name,
		Tribe:     string(session.Character.Tribe),
		Auspice:   string(session.Character.Auspice),
		Complete:  sequencer.IsFinalUnlocked(session.Character),
		UpdatedAt: session.UpdatedAt,
	}
}
