package snapshots_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
	mocksnapshots "github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots/mock"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

type InMemoryRepoTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	timeProvider *mocksnapshots.MockTimeProvider
	repo         snapshots.Repository
	now          time.Time
}

func (s *InMemoryRepoTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.timeProvider = mocksnapshots.NewMockTimeProvider(s.ctrl)
	s.repo = snapshots.NewInMemoryRepository(s.timeProvider)
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *InMemoryRepoTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestInMemoryRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InMemoryRepoTestSuite))
}

func newSnapshot(id string, step int) *snapshots.Snapshot {
	return &snapshots.Snapshot{
		ID:        id,
		Step:      step,
		Character: json.RawMessage(`{"name":"Ash"}`),
	}
}

func (s *InMemoryRepoTestSuite) TestCreateAndGet() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	snap := newSnapshot("session-1", 2)
	s.Require().NoError(s.repo.Create(ctx, snap))
	s.Equal(s.now, snap.CreatedAt)
	s.Equal(s.now, snap.UpdatedAt)

	got, err := s.repo.Get(ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(snap, got)
}

func (s *InMemoryRepoTestSuite) TestCreate_Duplicate() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	s.Require().NoError(s.repo.Create(ctx, newSnapshot("session-1", 0)))

	err := s.repo.Create(ctx, newSnapshot("session-1", 0))
	s.Require().Error(err)
	s.True(dnderr.IsAlreadyExists(err))
}

func (s *InMemoryRepoTestSuite) TestCreate_InvalidInput() {
	ctx := context.Background()

	s.True(dnderr.IsInvalidArgument(s.repo.Create(ctx, nil)))
	s.True(dnderr.IsInvalidArgument(s.repo.Create(ctx, newSnapshot("", 0))))
	s.True(dnderr.IsInvalidArgument(s.repo.Create(ctx, newSnapshot("session-1", -1))))

	bad := newSnapshot("session-1", 0)
	bad.Character = json.RawMessage(`{not json`)
	s.True(dnderr.IsInvalidArgument(s.repo.Create(ctx, bad)))
}

func (s *InMemoryRepoTestSuite) TestGet_ReturnsCopy() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)
	s.Require().NoError(s.repo.Create(ctx, newSnapshot("session-1", 1)))

	got, err := s.repo.Get(ctx, "session-1")
	s.Require().NoError(err)
	got.Step = 9
	got.Character[2] = 'X'

	again, err := s.repo.Get(ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(1, again.Step)
	s.JSONEq(`{"name":"Ash"}`, string(again.Character))
}

func (s *InMemoryRepoTestSuite) TestGet_NotFound() {
	_, err := s.repo.Get(context.Background(), "missing")
	s.Require().Error(err)
	s.True(dnderr.IsNotFound(err))
	s.Equal("missing", dnderr.GetMeta(err)["session_id"])
}

func (s *InMemoryRepoTestSuite) TestUpdate_KeepsCreatedAt() {
	ctx := context.Background()
	later := s.now.Add(time.Hour)
	gomock.InOrder(
		s.timeProvider.EXPECT().Now().Return(s.now),
		s.timeProvider.EXPECT().Now().Return(later),
	)

	s.Require().NoError(s.repo.Create(ctx, newSnapshot("session-1", 0)))

	update := newSnapshot("session-1", 4)
	s.Require().NoError(s.repo.Update(ctx, update))
	s.Equal(s.now, update.CreatedAt)
	s.Equal(later, update.UpdatedAt)

	got, err := s.repo.Get(ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(4, got.Step)
	s.Equal(later, got.UpdatedAt)
}

func (s *InMemoryRepoTestSuite) TestUpdate_NotFound() {
	err := s.repo.Update(context.Background(), newSnapshot("missing", 0))
	s.True(dnderr.IsNotFound(err))
}

func (s *InMemoryRepoTestSuite) TestDelete() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)
	s.Require().NoError(s.repo.Create(ctx, newSnapshot("session-1", 0)))

	s.Require().NoError(s.repo.Delete(ctx, "session-1"))
	_, err := s.repo.Get(ctx, "session-1")
	s.True(dnderr.IsNotFound(err))

	s.True(dnderr.IsNotFound(s.repo.Delete(ctx, "session-1")))
}

func (s *InMemoryRepoTestSuite) TestList_OldestFirst() {
	ctx := context.Background()
	gomock.InOrder(
		s.timeProvider.EXPECT().Now().Return(s.now.Add(time.Minute)),
		s.timeProvider.EXPECT().Now().Return(s.now),
		s.timeProvider.EXPECT().Now().Return(s.now),
	)

	s.Require().NoError(s.repo.Create(ctx, newSnapshot("c", 0)))
	s.Require().NoError(s.repo.Create(ctx, newSnapshot("b", 0)))
	s.Require().NoError(s.repo.Create(ctx, newSnapshot("a", 0)))

	list, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("a", list[0].ID)
	s.Equal("b", list[1].ID)
	s.Equal("c", list[2].ID)
}

func (s *InMemoryRepoTestSuite) TestList_Empty() {
	list, err := s.repo.List(context.Background())
	s.Require().NoError(err)
	s.NotNil(list)
	s.Empty(list)
}
