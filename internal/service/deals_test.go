package service

import (
	"context"
	"testing"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"
	"github.com/helioscrm/pipeline/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dealFixture struct {
	service       *DealService
	activities    *ActivityService
	history       repository.HistoryRepository
	statusChanges repository.StatusChangeRepository
	activityRepo  repository.ActivityRepository
	now           time.Time
}

func newDealFixture(t *testing.T, strict *domain.TransitionGraph[domain.DealStatus]) *dealFixture {
	t.Helper()
	client := store.NewMemoryClient()
	history := repository.NewHistoryRepository(client)
	statusChanges := repository.NewStatusChangeRepository(client)
	activityRepo := repository.NewActivityRepository(client)
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	recorder := NewHistoryRecorder(history, statusChanges, func() time.Time { return now })
	policy := domain.NewEditWindowPolicy(time.Hour, func() time.Time { return now })

	return &dealFixture{
		service:       NewDealService(repository.NewMemoryDealRepository(), activityRepo, recorder, strict),
		activities:    NewActivityService(activityRepo, policy),
		history:       history,
		statusChanges: statusChanges,
		activityRepo:  activityRepo,
		now:           now,
	}
}

func TestDealCreateRecordsHistory(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()
	actorID := uuid.New()

	deal, err := f.service.Create(ctx, &actorID, uuid.New(), "Heat pump, Bremen")
	require.NoError(t, err)
	assert.Equal(t, domain.DealStatusAppointmentAcquired, deal.Status)

	entries, err := f.history.ListByEntity(ctx, domain.EntityTypeDeal, deal.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.HistoryActionCreated, entries[0].Action)
	require.NotNil(t, entries[0].ActorID)
	assert.Equal(t, actorID, *entries[0].ActorID)
}

func TestDealUpdateRecordsDiff(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "initial title")
	require.NoError(t, err)

	deal.Title = "renamed deal"
	amount := 9800.0
	deal.OfferAmount = &amount
	_, err = f.service.Update(ctx, nil, deal)
	require.NoError(t, err)

	entries, err := f.history.ListByEntity(ctx, domain.EntityTypeDeal, deal.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2, "created + updated")

	var updated *domain.EntityHistory
	for i := range entries {
		if entries[i].Action == domain.HistoryActionUpdated {
			updated = &entries[i]
		}
	}
	require.NotNil(t, updated)
	assert.Contains(t, updated.Changes, "title")
	assert.Contains(t, updated.Changes, "offer_amount")
	assert.NotContains(t, updated.Changes, "status")
}

func TestDealUpdateNoOpWritesNothing(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "unchanged")
	require.NoError(t, err)

	_, err = f.service.Update(ctx, nil, deal)
	require.NoError(t, err)

	entries, err := f.history.ListByEntity(ctx, domain.EntityTypeDeal, deal.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the creation entry")
}

func TestDealChangeStatusRecordsTransition(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "pipeline deal")
	require.NoError(t, err)

	updated, err := f.service.ChangeStatus(ctx, nil, deal.ID, domain.DealStatusContractTypeSelection, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DealStatusContractTypeSelection, updated.Status)

	changes, err := f.statusChanges.ListByEntity(ctx, deal.ID)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.NotNil(t, changes[0].PreviousStatus)
	assert.Equal(t, string(domain.DealStatusAppointmentAcquired), *changes[0].PreviousStatus)
	assert.Equal(t, string(domain.DealStatusContractTypeSelection), changes[0].NewStatus)
}

func TestDealChangeStatusRejectsUnknown(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "pipeline deal")
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(ctx, nil, deal.ID, domain.DealStatus("totally_made_up"), nil)
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)

	changes, err := f.statusChanges.ListByEntity(ctx, deal.ID)
	require.NoError(t, err)
	assert.Empty(t, changes, "rejected writes must not reach the transition stream")
}

func TestDealChangeStatusLenientByDefault(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "override target")
	require.NoError(t, err)

	// A lenient service lets operators jump anywhere in the vocabulary.
	updated, err := f.service.ChangeStatus(ctx, nil, deal.ID, domain.DealStatusCompleted, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.DealStatusCompleted, updated.Status)
}

func TestDealChangeStatusStrictGraph(t *testing.T) {
	f := newDealFixture(t, domain.DefaultDealTransitionGraph())
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "strict deal")
	require.NoError(t, err)

	_, err = f.service.ChangeStatus(ctx, nil, deal.ID, domain.DealStatusCompleted, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.service.ChangeStatus(ctx, nil, deal.ID, domain.DealStatusContractTypeSelection, nil)
	assert.NoError(t, err, "the next-phase shortcut is a legal strict edge")
}

func TestDealDeleteOrdering(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "doomed deal")
	require.NoError(t, err)

	_, err = f.activities.Add(ctx, deal.ID, nil, "site visit notes")
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, nil, deal.ID))

	_, err = f.service.Get(ctx, deal.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	remaining, err := f.activityRepo.ListByEntity(ctx, deal.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining, "notes must cascade with the deal")

	entries, err := f.history.ListByEntity(ctx, domain.EntityTypeDeal, deal.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2, "history outlives the deal")
	actions := []domain.HistoryAction{entries[0].Action, entries[1].Action}
	assert.Contains(t, actions, domain.HistoryActionDeleted)
}

func TestDealTransitionsPresenter(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "presenter deal")
	require.NoError(t, err)

	options, err := f.service.Transitions(ctx, deal.ID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.DealStatusAppointmentAcquired), options.Current)
	assert.Equal(t, domain.PhaseSales, options.Phase)
	assert.Equal(t, []string{
		"appointment_acquired",
		"appointment_scheduled",
		"offer_created",
		"offer_declined",
	}, options.SamePhaseOptions)
	require.NotNil(t, options.NextPhaseShortcut)
	assert.Equal(t, "contract_type_selection", *options.NextPhaseShortcut)
}

func TestDealTransitionsLastPhaseHasNoShortcut(t *testing.T) {
	f := newDealFixture(t, nil)
	ctx := context.Background()

	deal, err := f.service.Create(ctx, nil, uuid.New(), "almost done")
	require.NoError(t, err)
	_, err = f.service.ChangeStatus(ctx, nil, deal.ID, domain.DealStatusAcceptanceConfirmed, nil)
	require.NoError(t, err)

	options, err := f.service.Transitions(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCompletion, options.Phase)
	assert.Nil(t, options.NextPhaseShortcut)
}
