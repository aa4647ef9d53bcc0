package wizard_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/sequencer"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
	mocksnapshots "github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots/mock"
	"github.com/KirkDiggler/wod-character-wizard/internal/schema"
	"github.com/KirkDiggler/wod-character-wizard/internal/services/wizard"
	"github.com/KirkDiggler/wod-character-wizard/internal/testutils"
	mockuuid "github.com/KirkDiggler/wod-character-wizard/internal/uuid/mock"
)

type ServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *mocksnapshots.MockRepository
	mockUUID *mockuuid.MockGenerator
	svc      wizard.Service
	cat      *catalog.Catalog
	ctx      context.Context
	now      time.Time
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = mocksnapshots.NewMockRepository(s.ctrl)
	s.mockUUID = mockuuid.NewMockGenerator(s.ctrl)
	s.cat = catalog.Default()
	s.svc = wizard.NewService(&wizard.ServiceConfig{
		Repository:    s.mockRepo,
		Catalog:       s.cat,
		UUIDGenerator: s.mockUUID,
	})
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}

func (s *ServiceTestSuite) stored(id string, step int, c *character.Character) *snapshots.Snapshot {
	snap := testutils.CreateTestSnapshot(s.T(), id, step, c)
	snap.CreatedAt = s.now
	snap.UpdatedAt = s.now
	return snap
}

func (s *ServiceTestSuite) expectGet(id string, step int, c *character.Character) {
	s.mockRepo.EXPECT().Get(s.ctx, id).Return(s.stored(id, step, c), nil)
}

// expectUpdate captures the saved snapshot
func (s *ServiceTestSuite) expectUpdate(saved **snapshots.Snapshot) {
	s.mockRepo.EXPECT().Update(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, snap *snapshots.Snapshot) error {
			snap.CreatedAt = s.now
			snap.UpdatedAt = s.now.Add(time.Minute)
			*saved = snap
			return nil
		})
}

func (s *ServiceTestSuite) TestStart() {
	s.mockUUID.EXPECT().New().Return("session-1")
	s.mockRepo.EXPECT().Create(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, snap *snapshots.Snapshot) error {
			s.Equal("session-1", snap.ID)
			s.Equal(0, snap.Step)

			var c character.Character
			s.Require().NoError(json.Unmarshal(snap.Character, &c))
			s.Equal(character.Empty(), &c)

			snap.CreatedAt = s.now
			snap.UpdatedAt = s.now
			return nil
		})

	session, err := s.svc.Start(s.ctx)
	s.Require().NoError(err)
	s.Equal("session-1", session.ID)
	s.Equal(0, session.Step)
	s.Equal(s.now, session.CreatedAt)

	screen, err := session.Screen()
	s.Require().NoError(err)
	s.Equal(sequencer.ScreenIntro, screen.Type)
}

func (s *ServiceTestSuite) TestStart_RepositoryError() {
	s.mockUUID.EXPECT().New().Return("session-1")
	s.mockRepo.EXPECT().Create(s.ctx, gomock.Any()).Return(dnderr.AlreadyExists("exists"))

	_, err := s.svc.Start(s.ctx)
	s.Require().Error(err)
	s.True(dnderr.IsAlreadyExists(err))
	s.Equal("session-1", dnderr.GetMeta(err)["session_id"])
}

func (s *ServiceTestSuite) TestGet_MigratesStoredCharacter() {
	doc, err := schema.Encode(character.Empty())
	s.Require().NoError(err)
	delete(doc, "schemaVersion")
	delete(doc, "availableGiftNames")
	delete(doc, "availableDisciplineNames")
	doc["clan"] = "Ghost Council"
	raw, err := json.Marshal(doc)
	s.Require().NoError(err)

	s.mockRepo.EXPECT().Get(s.ctx, "session-1").Return(&snapshots.Snapshot{
		ID: "session-1", Step: 1, Character: raw,
	}, nil)

	session, err := s.svc.Get(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(shared.TribeGhostCouncil, session.Character.Tribe)
	s.Equal([]shared.GiftName{"Death", "Spirits", "Wisdom"}, session.Character.AvailableGiftNames)
	s.Equal(character.CurrentSchemaVersion, session.Character.SchemaVersion)
}

func (s *ServiceTestSuite) TestGet_InvalidStoredCharacter() {
	s.mockRepo.EXPECT().Get(s.ctx, "session-1").Return(&snapshots.Snapshot{
		ID: "session-1", Character: json.RawMessage(`{"attributes":"strong"}`),
	}, nil)

	_, err := s.svc.Get(s.ctx, "session-1")
	s.Require().Error(err)
	s.True(dnderr.IsSchemaViolation(err))
	s.NotEmpty(dnderr.Violations(err))
}

func (s *ServiceTestSuite) TestGet_NotFound() {
	s.mockRepo.EXPECT().Get(s.ctx, "missing").Return(nil, dnderr.NotFound("missing"))

	_, err := s.svc.Get(s.ctx, "missing")
	s.True(dnderr.IsNotFound(err))
}

func (s *ServiceTestSuite) TestGet_RequiresID() {
	_, err := s.svc.Get(s.ctx, "")
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestAdvance() {
	s.expectGet("session-1", 0, character.Empty())
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	session, err := s.svc.Advance(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(1, session.Step)
	s.Equal(1, saved.Step)
	s.Equal(s.now.Add(time.Minute), session.UpdatedAt)
}

func (s *ServiceTestSuite) TestAdvance_StopsAtFinal() {
	c := character.Empty()
	s.expectGet("session-1", sequencer.FinalStep(c), c)

	session, err := s.svc.Advance(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(sequencer.FinalStep(c), session.Step)
}

func (s *ServiceTestSuite) TestBack_StopsAtIntro() {
	s.expectGet("session-1", 0, character.Empty())

	session, err := s.svc.Back(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(0, session.Step)
}

func (s *ServiceTestSuite) TestJumpTo_Locked() {
	s.expectGet("session-1", 0, character.Empty())

	session, err := s.svc.JumpTo(s.ctx, "session-1", 5)
	s.Require().NoError(err)
	s.Equal(0, session.Step)
}

func (s *ServiceTestSuite) TestJumpTo_Unlocked() {
	c := character.Empty().WithTribe(s.cat, shared.TribeGlassWalkers)
	s.expectGet("session-1", 0, c)
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	session, err := s.svc.JumpTo(s.ctx, "session-1", 2)
	s.Require().NoError(err)
	s.Equal(2, session.Step)
	s.Equal(2, saved.Step)
}

func (s *ServiceTestSuite) TestApply_SyncsLegacyFields() {
	s.expectGet("session-1", 1, character.Empty())
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	next := character.Empty()
	next.Tribe = shared.TribeRedTalons
	next.Rage = 2

	session, err := s.svc.Apply(s.ctx, "session-1", next)
	s.Require().NoError(err)
	s.Equal(shared.TribeRedTalons, session.Character.Clan)
	s.Equal(2, session.Character.BloodPotency)
	s.True(session.Character.LegacyInSync())

	var stored map[string]any
	s.Require().NoError(json.Unmarshal(saved.Character, &stored))
	s.Equal("Red Talons", stored["clan"])
}

// ghostCouncil returns a Ghost Council character holding one tribe gift
func (s *ServiceTestSuite) ghostCouncil() *character.Character {
	augur, ok := s.cat.Gift(shared.GiftCategory(shared.TribeGhostCouncil), "Augur")
	s.Require().True(ok)
	return character.Empty().
		WithTribe(s.cat, shared.TribeGhostCouncil).
		WithGifts([]character.Power{character.GiftPower(augur)})
}

func (s *ServiceTestSuite) TestApply_TribeSwapRederivesGifts() {
	c := s.ghostCouncil()
	s.expectGet("session-1", 1, c)
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	next := c.Clone()
	next.Tribe = shared.TribeBlackFuries

	session, err := s.svc.Apply(s.ctx, "session-1", next)
	s.Require().NoError(err)
	s.Equal(shared.TribeBlackFuries, session.Character.Tribe)
	s.Equal(shared.TribeBlackFuries, session.Character.Clan)
	s.Equal(s.cat.GiftTypesFor(shared.TribeBlackFuries), session.Character.AvailableGiftNames)
	s.Empty(session.Character.Gifts, "Ghost Council gift no longer allowed")
	s.True(session.Character.LegacyInSync())
}

func (s *ServiceTestSuite) TestApply_ClearsGifts() {
	c := s.ghostCouncil()
	s.expectGet("session-1", 1, c)
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	next := c.Clone()
	next.Gifts = []character.Power{}

	session, err := s.svc.Apply(s.ctx, "session-1", next)
	s.Require().NoError(err)
	s.Empty(session.Character.Gifts)
	s.Empty(session.Character.Disciplines)
}

func (s *ServiceTestSuite) TestApply_ClearsTribe() {
	c := s.ghostCouncil()
	s.expectGet("session-1", 1, c)
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	next := c.Clone()
	next.Tribe = shared.TribeNone

	session, err := s.svc.Apply(s.ctx, "session-1", next)
	s.Require().NoError(err)
	s.Equal(shared.TribeNone, session.Character.Tribe)
	s.Equal(shared.TribeNone, session.Character.Clan)
	s.Empty(session.Character.AvailableGiftNames)
	s.Empty(session.Character.Gifts)
}

func (s *ServiceTestSuite) TestApply_LegacyEditCarriedForward() {
	c := s.ghostCouncil()
	s.expectGet("session-1", 1, c)
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	next := c.Clone()
	next.Clan = shared.TribeRedTalons

	session, err := s.svc.Apply(s.ctx, "session-1", next)
	s.Require().NoError(err)
	s.Equal(shared.TribeRedTalons, session.Character.Tribe)
	s.Equal(s.cat.GiftTypesFor(shared.TribeRedTalons), session.Character.AvailableGiftNames)
}

func (s *ServiceTestSuite) TestApply_RejectsInvalidCharacter() {
	s.expectGet("session-1", 1, character.Empty())

	bad := character.Empty()
	bad.Attributes[shared.AttributeStrength] = 9

	_, err := s.svc.Apply(s.ctx, "session-1", bad)
	s.Require().Error(err)
	s.True(dnderr.IsSchemaViolation(err))
}

func (s *ServiceTestSuite) TestApply_ClampsStepWhenRitesStepDisappears() {
	c := testutils.CreateTestCharacter(s.T(), "Marrow")
	final := sequencer.FinalStep(c)
	s.expectGet("session-1", final, c)
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	session, err := s.svc.Apply(s.ctx, "session-1", c.WithGifts([]character.Power{}))
	s.Require().NoError(err)
	s.Equal(final-1, session.Step)

	screen, err := session.Screen()
	s.Require().NoError(err)
	s.Equal(sequencer.ScreenFinal, screen.Type)
}

func (s *ServiceTestSuite) TestApply_RequiresCharacter() {
	_, err := s.svc.Apply(s.ctx, "session-1", nil)
	s.True(dnderr.IsInvalidArgument(err))
}

func (s *ServiceTestSuite) TestLoad_GhostCouncilFile() {
	s.expectGet("session-1", 0, character.Empty())
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	doc, err := schema.Encode(character.Empty())
	s.Require().NoError(err)
	doc["tribe"] = "Ghost Council"
	doc["predatorType"].(map[string]any)["name"] = "Ghost Council"
	delete(doc, "availableGiftNames")
	delete(doc, "availableDisciplineNames")
	delete(doc, "schemaVersion")
	data, err := json.Marshal(doc)
	s.Require().NoError(err)

	session, err := s.svc.Load(s.ctx, "session-1", data)
	s.Require().NoError(err)
	s.Equal([]shared.GiftName{"Death", "Spirits", "Wisdom"}, session.Character.AvailableGiftNames)
	s.Equal(session.Character.AvailableGiftNames, session.Character.AvailableDisciplineNames)
	s.NotNil(saved)
}

func (s *ServiceTestSuite) TestLoad_Unparseable() {
	for _, data := range []string{`not json`, `[1,2]`, `"text"`, `null`} {
		s.expectGet("session-1", 0, character.Empty())

		_, err := s.svc.Load(s.ctx, "session-1", []byte(data))
		s.Require().Error(err, data)
		s.True(dnderr.IsUnparseable(err), data)
	}
}

func (s *ServiceTestSuite) TestLoad_SchemaViolationKeepsCharacter() {
	s.expectGet("session-1", 0, character.Empty())

	_, err := s.svc.Load(s.ctx, "session-1", []byte(`{"name": 7, "attributes": {"strength": 9}}`))
	s.Require().Error(err)
	s.True(dnderr.IsSchemaViolation(err))

	paths := make([]string, 0)
	for _, v := range dnderr.Violations(err) {
		paths = append(paths, v.Path)
	}
	s.Contains(paths, "name")
}

func (s *ServiceTestSuite) TestReset() {
	c := testutils.CreateTestCharacter(s.T(), "Marrow")
	s.expectGet("session-1", 4, c)
	var saved *snapshots.Snapshot
	s.expectUpdate(&saved)

	session, err := s.svc.Reset(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Equal(0, session.Step)
	s.Equal(character.Empty(), session.Character)
	s.Equal(0, saved.Step)
}

func (s *ServiceTestSuite) TestSteps() {
	s.expectGet("session-1", 0, testutils.CreateTestCharacter(s.T(), "Marrow"))

	steps, err := s.svc.Steps(s.ctx, "session-1")
	s.Require().NoError(err)
	s.Len(steps, 11)
	s.Equal("Rites", steps[7].Label)
	s.True(steps[10].Unlocked)
}

func (s *ServiceTestSuite) TestCheckBudgets() {
	c := testutils.CreateTestCharacter(s.T(), "Marrow")
	stunning, ok := s.cat.Advantage(shared.AdvantageMerit, "Stunning")
	s.Require().True(ok)
	linguistics, ok := s.cat.Advantage(shared.AdvantageMerit, "Linguistics")
	s.Require().True(ok)
	c.Merits = []character.MeritFlaw{
		character.AdvantageEntry(shared.AdvantageMerit, stunning, 4),
		character.AdvantageEntry(shared.AdvantageMerit, linguistics, 5),
	}
	s.expectGet("session-1", 0, c)

	err := s.svc.CheckBudgets(s.ctx, "session-1")
	s.Require().Error(err)
	s.True(dnderr.IsValidation(err))
}

func (s *ServiceTestSuite) TestDelete() {
	s.mockRepo.EXPECT().Delete(s.ctx, "session-1").Return(nil)
	s.NoError(s.svc.Delete(s.ctx, "session-1"))

	s.True(dnderr.IsInvalidArgument(s.svc.Delete(s.ctx, "")))
}

func (s *ServiceTestSuite) TestList_SkipsBrokenSessions() {
	named := character.Empty()
	named.Name = "Ash"
	s.mockRepo.EXPECT().List(s.ctx).Return([]*snapshots.Snapshot{
		s.stored("a", 0, named),
		{ID: "b", Character: json.RawMessage(`{"attributes":[]}`)},
		s.stored("c", 2, testutils.CreateTestCharacter(s.T(), "Marrow")),
	}, nil)

	list, err := s.svc.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("a", list[0].ID)
	s.Equal("Ash", list[0].Name)
	s.False(list[0].Complete)
	s.Equal("c", list[1].ID)
	s.Equal("Ghost Council", list[1].Tribe)
	s.True(list[1].Complete)
}

func (s *ServiceTestSuite) TestList_RepositoryError() {
	s.mockRepo.EXPECT().List(s.ctx).Return(nil, errors.New("redis down"))

	_, err := s.svc.List(s.ctx)
	s.Error(err)
}
