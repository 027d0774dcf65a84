package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pathway/internal/audit"
	"pathway/internal/profile/metrics"
	"pathway/internal/profile/models"
	"pathway/internal/profile/store"
	"pathway/internal/profile/store/mocks"
	"pathway/internal/remote"
	id "pathway/pkg/domain"
	dErrors "pathway/pkg/domain-errors"
)

var profileMetrics = metrics.New()

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func testUserID(t *testing.T) id.UserID {
	t.Helper()
	userID, err := id.ParseUserID(uuid.NewString())
	require.NoError(t, err)
	return userID
}

type fixture struct {
	svc     *Service
	store   *store.InMemory
	trail   *audit.InMemoryStore
	remote  *remote.MockProfileClient
	cleanup func()
}

// newFixture wires the service against the in-memory store with a running
// audit worker so emitted events land in the trail.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.NewInMemory()
	trail := audit.NewInMemoryStore()
	publisher := audit.NewPublisher(64)
	mock := &remote.MockProfileClient{}

	ctx, cancel := context.WithCancel(context.Background())
	worker := audit.NewWorker(trail, publisher.Inbox(), slog.New(slog.DiscardHandler))
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	svc := NewService(st, mock, publisher, profileMetrics, slog.New(slog.DiscardHandler))
	return &fixture{svc: svc, store: st, trail: trail, remote: mock}
}

// waitForEvents polls the trail until the expected count arrives; the
// publisher is asynchronous by design.
func (f *fixture) waitForEvents(t *testing.T, userID id.UserID, want int) []audit.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, err := f.trail.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		if len(events) >= want {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit events", want)
	return nil
}

func TestGet(t *testing.T) {
	t.Run("unknown user gets a fresh empty profile", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		p, err := f.svc.Get(context.Background(), userID)
		require.NoError(t, err)

		assert.Equal(t, userID, p.UserID)
		assert.False(t, p.IsComplete)
		assert.NotNil(t, p.EducationInfo.List)

		// The empty profile must not have been persisted.
		_, err = f.store.FindByUser(context.Background(), userID)
		require.Error(t, err)
	})
}

func TestUpdateSection(t *testing.T) {
	t.Run("merges and persists", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		p, err := f.svc.UpdateSection(context.Background(), userID, models.SectionBasic,
			json.RawMessage(`{"fullName":"Jane Doe","email":"jane@example.com"}`))
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", p.BasicInfo.FullName)

		stored, err := f.store.FindByUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", stored.BasicInfo.FullName)
		assert.False(t, stored.UpdatedAt.IsZero())

		events := f.waitForEvents(t, userID, 1)
		assert.Equal(t, audit.ActionSectionUpdated, events[0].Action)
		assert.Equal(t, "basic", events[0].Section)
	})

	t.Run("second update keeps earlier fields", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)
		ctx := context.Background()

		_, err := f.svc.UpdateSection(ctx, userID, models.SectionBasic, json.RawMessage(`{"fullName":"Jane Doe"}`))
		require.NoError(t, err)
		p, err := f.svc.UpdateSection(ctx, userID, models.SectionBasic, json.RawMessage(`{"email":"jane@example.com"}`))
		require.NoError(t, err)

		assert.Equal(t, "Jane Doe", p.BasicInfo.FullName)
		assert.Equal(t, "jane@example.com", p.BasicInfo.Email)
	})

	t.Run("malformed payload rejected and nothing persisted", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		_, err := f.svc.UpdateSection(context.Background(), userID, models.SectionBasic, json.RawMessage(`[]`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = f.store.FindByUser(context.Background(), userID)
		require.Error(t, err)
	})

	t.Run("completeness is recomputed on every write", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)
		ctx := context.Background()

		fillProfile(t, f.svc, userID)

		stored, err := f.store.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.True(t, stored.IsComplete)

		// Breaking one section flips the derived flag back.
		_, err = f.svc.UpdateSection(ctx, userID, models.SectionBasic, json.RawMessage(`{"fullName":""}`))
		require.NoError(t, err)
		stored, err = f.store.FindByUser(ctx, userID)
		require.NoError(t, err)
		assert.False(t, stored.IsComplete)
	})
}

// fillProfile drives the public API to a fully complete profile.
func fillProfile(t *testing.T, svc *Service, userID id.UserID) {
	t.Helper()
	ctx := context.Background()

	steps := []struct {
		section models.Section
		payload string
	}{
		{models.SectionBasic, `{"fullName":"Jane Doe","email":"jane@example.com","citizenCountry":"India","residenceCountry":"India","availableFunds":25000}`},
		{models.SectionLanguage, `{"primaryLanguage":"english","hasTakenTest":true,"hasSecondLanguage":false,"primaryLanguageTest":{"type":"IELTS","speaking":7,"listening":7.5,"reading":6.5,"writing":7}}`},
		{models.SectionEducation, `{"hasHighSchool":true,"hasPostSecondary":true}`},
		{models.SectionSpouse, `{"maritalStatus":"single"}`},
		{models.SectionDependent, `{"hasDependents":false}`},
		{models.SectionConnection, `{"hasConnections":false}`},
		{models.SectionWork, `{"hasWorkExperience":true}`},
		{models.SectionJobOffer, `{"hasJobOffer":false}`},
	}
	for _, s := range steps {
		_, err := svc.UpdateSection(ctx, userID, s.section, json.RawMessage(s.payload))
		require.NoError(t, err)
	}
	_, _, err := svc.AddEntry(ctx, userID, models.SectionEducation,
		json.RawMessage(`{"type":"bachelor","country":"India","fieldOfStudy":"Computer Science","startDate":"2015-09"}`))
	require.NoError(t, err)
	_, _, err = svc.AddEntry(ctx, userID, models.SectionWork,
		json.RawMessage(`{"jobTitle":"Developer","country":"India","startDate":"2019-07","current":true}`))
	require.NoError(t, err)
}

func TestAddRemoveEntry(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)
		ctx := context.Background()

		_, err := f.svc.UpdateSection(ctx, userID, models.SectionWork, json.RawMessage(`{"hasWorkExperience":true}`))
		require.NoError(t, err)

		entryID, p, err := f.svc.AddEntry(ctx, userID, models.SectionWork,
			json.RawMessage(`{"jobTitle":"Developer","country":"India","startDate":"2019-07"}`))
		require.NoError(t, err)
		require.Len(t, p.WorkInfo.List, 1)
		assert.Equal(t, entryID, p.WorkInfo.List[0].ID)

		p, err = f.svc.RemoveEntry(ctx, userID, models.SectionWork, entryID)
		require.NoError(t, err)
		assert.Empty(t, p.WorkInfo.List)
	})

	t.Run("remove of a missing id succeeds without a write", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		p, err := f.svc.RemoveEntry(context.Background(), userID, models.SectionWork, "ghost")
		require.NoError(t, err)
		assert.Empty(t, p.WorkInfo.List)

		// Nothing was removed, so nothing was persisted.
		_, err = f.store.FindByUser(context.Background(), userID)
		require.Error(t, err)
	})

	t.Run("rejected entry emits the rejection event", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		_, _, err := f.svc.AddEntry(context.Background(), userID, models.SectionWork, json.RawMessage(`{"jobTitle":""}`))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))

		events := f.waitForEvents(t, userID, 1)
		assert.Equal(t, audit.ActionEntryRejected, events[0].Action)
	})

	t.Run("gate off then on does not resurrect entries", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)
		ctx := context.Background()

		_, err := f.svc.UpdateSection(ctx, userID, models.SectionWork, json.RawMessage(`{"hasWorkExperience":true}`))
		require.NoError(t, err)
		_, _, err = f.svc.AddEntry(ctx, userID, models.SectionWork,
			json.RawMessage(`{"jobTitle":"Developer","country":"India","startDate":"2019-07"}`))
		require.NoError(t, err)

		_, err = f.svc.UpdateSection(ctx, userID, models.SectionWork, json.RawMessage(`{"hasWorkExperience":false}`))
		require.NoError(t, err)
		p, err := f.svc.UpdateSection(ctx, userID, models.SectionWork, json.RawMessage(`{"hasWorkExperience":true}`))
		require.NoError(t, err)

		assert.Empty(t, p.WorkInfo.List)
	})
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	userID := testUserID(t)
	ctx := context.Background()

	_, err := f.svc.UpdateSection(ctx, userID, models.SectionBasic, json.RawMessage(`{"fullName":"Jane Doe"}`))
	require.NoError(t, err)

	require.NoError(t, f.svc.Reset(ctx, userID))

	p, err := f.svc.Get(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, p.BasicInfo.FullName)
}

func TestHydrate(t *testing.T) {
	t.Run("persists the remote copy with lists normalized", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		remoteCopy := models.NewProfile(userID)
		remoteCopy.BasicInfo.FullName = "Jane Doe"
		remoteCopy.WorkInfo.List = nil
		f.remote.Profile = remoteCopy

		p, err := f.svc.Hydrate(context.Background(), userID, "Chrome 120 on Linux")
		require.NoError(t, err)

		assert.Equal(t, "Jane Doe", p.BasicInfo.FullName)
		assert.NotNil(t, p.WorkInfo.List)

		events := f.waitForEvents(t, userID, 1)
		assert.Equal(t, audit.ActionProfileHydrated, events[0].Action)
		assert.Equal(t, "Chrome 120 on Linux", events[0].Metadata["device"])
	})

	t.Run("remote completeness flag is never trusted", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		remoteCopy := models.NewProfile(userID)
		remoteCopy.IsComplete = true // claims complete while empty
		f.remote.Profile = remoteCopy

		p, err := f.svc.Hydrate(context.Background(), userID, "")
		require.NoError(t, err)

		assert.False(t, p.IsComplete)
	})

	t.Run("no remote profile is a typed not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.Hydrate(context.Background(), testUserID(t), "")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestFinalize(t *testing.T) {
	t.Run("incomplete profile fails naming the missing sections", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)

		_, err := f.svc.Finalize(context.Background(), userID)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeProfileIncomplete))
		assert.Contains(t, err.Error(), "basic")
	})

	t.Run("complete profile finalizes and emits the completion event", func(t *testing.T) {
		f := newFixture(t)
		userID := testUserID(t)
		ctx := context.Background()

		fillProfile(t, f.svc, userID)

		p, err := f.svc.Finalize(ctx, userID)
		require.NoError(t, err)
		assert.True(t, p.IsComplete)

		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			events, err := f.trail.ListByUser(ctx, userID)
			require.NoError(t, err)
			for _, e := range events {
				if e.Action == audit.ActionProfileCompleted {
					return
				}
			}
			time.Sleep(5 * time.Millisecond)
		}
		t.Fatal("profile_completed event never arrived")
	})
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := mocks.NewMockStore(ctrl)
	userID := testUserID(t)

	mockStore.EXPECT().FindByUser(gomock.Any(), userID).Return(nil, errors.New("connection refused"))

	svc := NewService(mockStore, &remote.MockProfileClient{}, audit.NewPublisher(1), profileMetrics, slog.New(slog.DiscardHandler))

	_, err := svc.Get(context.Background(), userID)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
}
