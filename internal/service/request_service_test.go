package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/events"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

type requestFixture struct {
	service    *RequestService
	requests   *fakeRequestRepo
	equipment  *fakeEquipmentRepo
	users      *fakeUserRepo
	dispatcher *recordingDispatcher
}

func newRequestFixture() *requestFixture {
	equipment := newFakeEquipmentRepo()
	requests := newFakeRequestRepo(equipment)
	users := newFakeUserRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewRequestService(RequestDependencies{
		RequestRepo:   requests,
		EquipmentRepo: equipment,
		UserRepo:      users,
		Dispatcher:    dispatcher,
	})
	return &requestFixture{service: svc, requests: requests, equipment: equipment, users: users, dispatcher: dispatcher}
}

func (f *requestFixture) seedUser(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: name + "@example.com", Role: role}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *requestFixture) seedEquipment(t *testing.T, name string, teamID *string) *domain.Equipment {
	t.Helper()
	eq := &domain.Equipment{Name: name, SerialNumber: name + "-SN", MaintenanceTeamID: teamID}
	require.NoError(t, f.equipment.Create(context.Background(), eq))
	return eq
}

func (f *requestFixture) seedRequest(t *testing.T, creator *domain.User, eq *domain.Equipment) *domain.MaintenanceRequest {
	t.Helper()
	req, err := f.service.Create(context.Background(), creator.ID, RequestCreateInput{
		Subject:     "pump leaking",
		Type:        domain.TypeCorrective,
		EquipmentID: eq.ID,
	})
	require.NoError(t, err)
	return req
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

func TestRequestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("requires subject, type and equipment", func(t *testing.T) {
		f := newRequestFixture()
		creator := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)

		_, err := f.service.Create(ctx, creator.ID, RequestCreateInput{Type: domain.TypeCorrective, EquipmentID: eq.ID})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

		_, err = f.service.Create(ctx, creator.ID, RequestCreateInput{Subject: "x", Type: "bogus", EquipmentID: eq.ID})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

		_, err = f.service.Create(ctx, creator.ID, RequestCreateInput{Subject: "x", Type: domain.TypeCorrective})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	})

	t.Run("preventive requires a scheduled date", func(t *testing.T) {
		f := newRequestFixture()
		creator := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)

		_, err := f.service.Create(ctx, creator.ID, RequestCreateInput{
			Subject:     "quarterly check",
			Type:        domain.TypePreventive,
			EquipmentID: eq.ID,
		})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))

		when := time.Now().Add(24 * time.Hour)
		req, err := f.service.Create(ctx, creator.ID, RequestCreateInput{
			Subject:       "quarterly check",
			Type:          domain.TypePreventive,
			EquipmentID:   eq.ID,
			ScheduledDate: &when,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.TypePreventive, req.Type)
	})

	t.Run("unknown equipment is not found", func(t *testing.T) {
		f := newRequestFixture()
		creator := f.seedUser(t, "alice", domain.RoleUser)

		_, err := f.service.Create(ctx, creator.ID, RequestCreateInput{
			Subject:     "x",
			Type:        domain.TypeCorrective,
			EquipmentID: "missing",
		})
		assert.Equal(t, "NOT_FOUND", domainCode(t, err))
	})

	t.Run("snapshots the equipment team and defaults", func(t *testing.T) {
		f := newRequestFixture()
		creator := f.seedUser(t, "alice", domain.RoleUser)
		teamID := "team-1"
		eq := f.seedEquipment(t, "press", &teamID)

		req, err := f.service.Create(ctx, creator.ID, RequestCreateInput{
			Subject:     "pump leaking",
			Type:        domain.TypeCorrective,
			EquipmentID: eq.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, req.TeamID)
		assert.Equal(t, teamID, *req.TeamID)
		assert.Equal(t, domain.StatusNew, req.Status)
		assert.Equal(t, domain.PriorityMedium, req.Priority)
		require.NotNil(t, req.CreatedByID)
		assert.Equal(t, creator.ID, *req.CreatedByID)

		created := f.dispatcher.byType(events.EventRequestCreated)
		require.Len(t, created, 1)
		assert.Equal(t, req.ID, created[0].RequestID)
	})

	t.Run("explicit team wins over the equipment team", func(t *testing.T) {
		f := newRequestFixture()
		creator := f.seedUser(t, "alice", domain.RoleUser)
		equipTeam := "team-1"
		eq := f.seedEquipment(t, "press", &equipTeam)
		otherTeam := "team-2"

		req, err := f.service.Create(ctx, creator.ID, RequestCreateInput{
			Subject:     "pump leaking",
			Type:        domain.TypeCorrective,
			EquipmentID: eq.ID,
			TeamID:      &otherTeam,
		})
		require.NoError(t, err)
		require.NotNil(t, req.TeamID)
		assert.Equal(t, otherTeam, *req.TeamID)
	})
}

func TestRequestAssign(t *testing.T) {
	ctx := context.Background()

	t.Run("forces in_progress from any state", func(t *testing.T) {
		f := newRequestFixture()
		manager := f.seedUser(t, "boss", domain.RoleManager)
		tech := f.seedUser(t, "bob", domain.RoleTechnician)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, manager, eq)

		_, err := f.service.Complete(ctx, manager.ID, req.ID, 2)
		require.NoError(t, err)

		assigned, err := f.service.Assign(ctx, manager, req.ID, tech.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, assigned.Status)
		require.NotNil(t, assigned.AssignedToID)
		assert.Equal(t, tech.ID, *assigned.AssignedToID)
	})

	t.Run("technicians may only assign to themselves", func(t *testing.T) {
		f := newRequestFixture()
		tech := f.seedUser(t, "bob", domain.RoleTechnician)
		other := f.seedUser(t, "carol", domain.RoleTechnician)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, tech, eq)

		_, err := f.service.Assign(ctx, tech, req.ID, other.ID)
		assert.Equal(t, "FORBIDDEN", domainCode(t, err))

		assigned, err := f.service.Assign(ctx, tech, req.ID, tech.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, assigned.Status)
	})

	t.Run("managers may assign anyone who exists", func(t *testing.T) {
		f := newRequestFixture()
		manager := f.seedUser(t, "boss", domain.RoleManager)
		tech := f.seedUser(t, "bob", domain.RoleTechnician)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, manager, eq)

		_, err := f.service.Assign(ctx, manager, req.ID, "missing")
		assert.Equal(t, "NOT_FOUND", domainCode(t, err))

		_, err = f.service.Assign(ctx, manager, req.ID, tech.ID)
		require.NoError(t, err)

		assignedEvents := f.dispatcher.byType(events.EventRequestAssigned)
		require.Len(t, assignedEvents, 1)
	})
}

func TestRequestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("records duration and completion time", func(t *testing.T) {
		f := newRequestFixture()
		tech := f.seedUser(t, "bob", domain.RoleTechnician)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, tech, eq)

		done, err := f.service.Complete(ctx, tech.ID, req.ID, 3.5)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRepaired, done.Status)
		require.NotNil(t, done.DurationHours)
		assert.Equal(t, 3.5, *done.DurationHours)
		require.NotNil(t, done.CompletedAt)
	})

	t.Run("rejects negative duration", func(t *testing.T) {
		f := newRequestFixture()
		tech := f.seedUser(t, "bob", domain.RoleTechnician)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, tech, eq)

		_, err := f.service.Complete(ctx, tech.ID, req.ID, -1)
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	})
}

func TestRequestScrap(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to the equipment", func(t *testing.T) {
		f := newRequestFixture()
		manager := f.seedUser(t, "boss", domain.RoleManager)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, manager, eq)

		scrapped, err := f.service.Scrap(ctx, manager.ID, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusScrap, scrapped.Status)

		summary, err := f.equipment.GetByID(ctx, eq.ID)
		require.NoError(t, err)
		assert.True(t, summary.IsScrapped)

		assert.Len(t, f.dispatcher.byType(events.EventEquipmentScrapped), 1)
		assert.Len(t, f.dispatcher.byType(events.EventRequestStatusChanged), 1)
	})

	t.Run("surfaces an incomplete cascade", func(t *testing.T) {
		f := newRequestFixture()
		manager := f.seedUser(t, "boss", domain.RoleManager)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, manager, eq)
		f.requests.failCascade = true

		_, err := f.service.Scrap(ctx, manager.ID, req.ID)
		assert.Equal(t, "CASCADE_INCOMPLETE", domainCode(t, err))
	})
}

func TestRequestSetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects unknown status", func(t *testing.T) {
		f := newRequestFixture()
		user := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, user, eq)

		_, err := f.service.SetStatus(ctx, user, req.ID, "pending")
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	})

	t.Run("same status is a no-op without events", func(t *testing.T) {
		f := newRequestFixture()
		user := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, user, eq)

		updated, err := f.service.SetStatus(ctx, user, req.ID, domain.StatusNew)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, updated.Status)
		assert.Empty(t, f.dispatcher.byType(events.EventRequestStatusChanged))
	})

	t.Run("dragging to scrap cascades like the explicit action", func(t *testing.T) {
		f := newRequestFixture()
		manager := f.seedUser(t, "boss", domain.RoleManager)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, manager, eq)

		updated, err := f.service.SetStatus(ctx, manager, req.ID, domain.StatusScrap)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusScrap, updated.Status)

		summary, err := f.equipment.GetByID(ctx, eq.ID)
		require.NoError(t, err)
		assert.True(t, summary.IsScrapped)
	})

	t.Run("dragging to scrap needs the scrap capability", func(t *testing.T) {
		f := newRequestFixture()
		user := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, user, eq)

		_, err := f.service.SetStatus(ctx, user, req.ID, domain.StatusScrap)
		assert.Equal(t, "FORBIDDEN", domainCode(t, err))

		summary, err := f.equipment.GetByID(ctx, eq.ID)
		require.NoError(t, err)
		assert.False(t, summary.IsScrapped)

		stored, err := f.requests.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusNew, stored.Status)
	})

	t.Run("technicians cannot drag to scrap", func(t *testing.T) {
		f := newRequestFixture()
		tech := f.seedUser(t, "tess", domain.RoleTechnician)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, tech, eq)

		_, err := f.service.SetStatus(ctx, tech, req.ID, domain.StatusScrap)
		assert.Equal(t, "FORBIDDEN", domainCode(t, err))
	})

	t.Run("dragging to repaired leaves completion fields unset", func(t *testing.T) {
		f := newRequestFixture()
		user := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, user, eq)

		updated, err := f.service.SetStatus(ctx, user, req.ID, domain.StatusRepaired)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRepaired, updated.Status)
		assert.Nil(t, updated.DurationHours)
		assert.Nil(t, updated.CompletedAt)

		changes := f.dispatcher.byType(events.EventRequestStatusChanged)
		require.Len(t, changes, 1)
	})
}

func TestRequestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("patches only supplied fields", func(t *testing.T) {
		f := newRequestFixture()
		user := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, user, eq)

		priority := domain.PriorityUrgent
		updated, err := f.service.Update(ctx, req.ID, RequestUpdateInput{Priority: &priority})
		require.NoError(t, err)
		assert.Equal(t, domain.PriorityUrgent, updated.Priority)
		assert.Equal(t, req.Subject, updated.Subject)
	})

	t.Run("empty string clears a reference", func(t *testing.T) {
		f := newRequestFixture()
		user := f.seedUser(t, "alice", domain.RoleUser)
		teamID := "team-1"
		eq := f.seedEquipment(t, "press", &teamID)
		req := f.seedRequest(t, user, eq)
		require.NotNil(t, req.TeamID)

		empty := ""
		updated, err := f.service.Update(ctx, req.ID, RequestUpdateInput{TeamID: &empty})
		require.NoError(t, err)
		assert.Nil(t, updated.TeamID)
	})

	t.Run("blank subject is rejected", func(t *testing.T) {
		f := newRequestFixture()
		user := f.seedUser(t, "alice", domain.RoleUser)
		eq := f.seedEquipment(t, "press", nil)
		req := f.seedRequest(t, user, eq)

		blank := "   "
		_, err := f.service.Update(ctx, req.ID, RequestUpdateInput{Subject: &blank})
		assert.Equal(t, "VALIDATION_FAILED", domainCode(t, err))
	})
}

func TestRequestDelete(t *testing.T) {
	ctx := context.Background()

	f := newRequestFixture()
	user := f.seedUser(t, "alice", domain.RoleUser)
	eq := f.seedEquipment(t, "press", nil)
	req := f.seedRequest(t, user, eq)

	require.NoError(t, f.service.Delete(ctx, req.ID))
	err := f.service.Delete(ctx, req.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}
