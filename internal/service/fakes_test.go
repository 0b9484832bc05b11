package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/events"
	"github.com/spec-kit/gearguard/internal/repository"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	out := []domain.User{}
	for _, user := range r.users {
		if user.Role == role {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

type fakeTeamRepo struct {
	teams   map[string]*domain.MaintenanceTeam
	members map[string]map[string]bool
	users   *fakeUserRepo
}

func newFakeTeamRepo(users *fakeUserRepo) *fakeTeamRepo {
	return &fakeTeamRepo{teams: map[string]*domain.MaintenanceTeam{}, members: map[string]map[string]bool{}, users: users}
}

func (r *fakeTeamRepo) Create(_ context.Context, team *domain.MaintenanceTeam) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	team.CreatedAt = time.Now()
	team.UpdatedAt = team.CreatedAt
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) Update(_ context.Context, team *domain.MaintenanceTeam) error {
	if _, ok := r.teams[team.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id string) (*domain.MaintenanceTeam, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *team
	return &copied, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]domain.TeamSummary, error) {
	out := make([]domain.TeamSummary, 0, len(r.teams))
	for id, team := range r.teams {
		out = append(out, domain.TeamSummary{MaintenanceTeam: *team, MemberCount: len(r.members[id])})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.teams[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.teams, id)
	delete(r.members, id)
	return nil
}

func (r *fakeTeamRepo) AddMember(_ context.Context, teamID, userID string) error {
	if r.members[teamID] == nil {
		r.members[teamID] = map[string]bool{}
	}
	r.members[teamID][userID] = true
	return nil
}

func (r *fakeTeamRepo) RemoveMember(_ context.Context, teamID, userID string) error {
	delete(r.members[teamID], userID)
	return nil
}

func (r *fakeTeamRepo) ListMembers(_ context.Context, teamID string) ([]domain.User, error) {
	out := []domain.User{}
	for userID := range r.members[teamID] {
		if user, ok := r.users.users[userID]; ok {
			out = append(out, *user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type fakeEquipmentRepo struct {
	equipment map[string]*domain.Equipment
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipment: map[string]*domain.Equipment{}}
}

func (r *fakeEquipmentRepo) Create(_ context.Context, eq *domain.Equipment) error {
	if eq.ID == "" {
		eq.ID = uuid.NewString()
	}
	eq.CreatedAt = time.Now()
	eq.UpdatedAt = eq.CreatedAt
	copied := *eq
	r.equipment[eq.ID] = &copied
	return nil
}

func (r *fakeEquipmentRepo) Update(_ context.Context, eq *domain.Equipment) error {
	if _, ok := r.equipment[eq.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *eq
	r.equipment[eq.ID] = &copied
	return nil
}

func (r *fakeEquipmentRepo) GetByID(_ context.Context, id string) (*domain.EquipmentSummary, error) {
	eq, ok := r.equipment[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.EquipmentSummary{Equipment: *eq}, nil
}

func (r *fakeEquipmentRepo) List(_ context.Context, includeScrap bool) ([]domain.EquipmentSummary, error) {
	out := []domain.EquipmentSummary{}
	for _, eq := range r.equipment {
		if eq.IsScrapped && !includeScrap {
			continue
		}
		out = append(out, domain.EquipmentSummary{Equipment: *eq})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeEquipmentRepo) ListByTeam(_ context.Context, teamID string) ([]domain.EquipmentSummary, error) {
	out := []domain.EquipmentSummary{}
	for _, eq := range r.equipment {
		if eq.IsScrapped {
			continue
		}
		if eq.MaintenanceTeamID != nil && *eq.MaintenanceTeamID == teamID {
			out = append(out, domain.EquipmentSummary{Equipment: *eq})
		}
	}
	return out, nil
}

func (r *fakeEquipmentRepo) Search(_ context.Context, term string) ([]domain.EquipmentSummary, error) {
	out := []domain.EquipmentSummary{}
	for _, eq := range r.equipment {
		if eq.IsScrapped {
			continue
		}
		if eq.Name == term || eq.SerialNumber == term {
			out = append(out, domain.EquipmentSummary{Equipment: *eq})
		}
	}
	return out, nil
}

func (r *fakeEquipmentRepo) ListWarrantyExpiring(_ context.Context, from, to time.Time) ([]domain.EquipmentSummary, error) {
	out := []domain.EquipmentSummary{}
	for _, eq := range r.equipment {
		if eq.IsScrapped || eq.WarrantyExpiry == nil {
			continue
		}
		if eq.WarrantyExpiry.Before(from) || eq.WarrantyExpiry.After(to) {
			continue
		}
		out = append(out, domain.EquipmentSummary{Equipment: *eq})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].WarrantyExpiry.Before(*out[j].WarrantyExpiry)
	})
	return out, nil
}

func (r *fakeEquipmentRepo) SetScrapped(_ context.Context, id string) error {
	eq, ok := r.equipment[id]
	if !ok {
		return pgx.ErrNoRows
	}
	eq.IsScrapped = true
	return nil
}

func (r *fakeEquipmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.equipment[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.equipment, id)
	return nil
}

type fakeRequestRepo struct {
	requests  map[string]*domain.MaintenanceRequest
	equipment *fakeEquipmentRepo
	// failCascade makes MarkScrap report a cascade whose equipment side
	// effect did not apply.
	failCascade bool
}

func newFakeRequestRepo(equipment *fakeEquipmentRepo) *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]*domain.MaintenanceRequest{}, equipment: equipment}
}

func (r *fakeRequestRepo) Create(_ context.Context, req *domain.MaintenanceRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) Update(_ context.Context, req *domain.MaintenanceRequest) error {
	if _, ok := r.requests[req.ID]; !ok {
		return pgx.ErrNoRows
	}
	req.UpdatedAt = time.Now()
	copied := *req
	r.requests[req.ID] = &copied
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.MaintenanceRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) GetCard(ctx context.Context, id string) (*domain.RequestCard, error) {
	req, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.RequestCard{MaintenanceRequest: *req}, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]domain.RequestCard, error) {
	out := []domain.RequestCard{}
	for _, req := range r.requests {
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && req.Type != *filter.Type {
			continue
		}
		if filter.TeamID != nil && (req.TeamID == nil || *req.TeamID != *filter.TeamID) {
			continue
		}
		if filter.AssignedToID != nil && (req.AssignedToID == nil || *req.AssignedToID != *filter.AssignedToID) {
			continue
		}
		out = append(out, domain.RequestCard{MaintenanceRequest: *req})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRequestRepo) ListForBoard(_ context.Context, teamID *string) ([]domain.RequestCard, error) {
	out := []domain.RequestCard{}
	for _, req := range r.requests {
		if teamID != nil && (req.TeamID == nil || *req.TeamID != *teamID) {
			continue
		}
		out = append(out, domain.RequestCard{MaintenanceRequest: *req})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeRequestRepo) ListScheduled(_ context.Context, from, to time.Time) ([]domain.RequestCard, error) {
	out := []domain.RequestCard{}
	for _, req := range r.requests {
		if req.ScheduledDate == nil {
			continue
		}
		if req.ScheduledDate.Before(from) || req.ScheduledDate.After(to) {
			continue
		}
		out = append(out, domain.RequestCard{MaintenanceRequest: *req})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ScheduledDate.Before(*out[j].ScheduledDate)
	})
	return out, nil
}

func (r *fakeRequestRepo) ListByEquipment(_ context.Context, equipmentID string, activeOnly bool) ([]domain.RequestCard, error) {
	out := []domain.RequestCard{}
	for _, req := range r.requests {
		if req.EquipmentID == nil || *req.EquipmentID != equipmentID {
			continue
		}
		if activeOnly && !req.Status.Active() {
			continue
		}
		out = append(out, domain.RequestCard{MaintenanceRequest: *req})
	}
	return out, nil
}

func (r *fakeRequestRepo) CountActiveByEquipment(_ context.Context, equipmentID string) (int, error) {
	count := 0
	for _, req := range r.requests {
		if req.EquipmentID != nil && *req.EquipmentID == equipmentID && req.Status.Active() {
			count++
		}
	}
	return count, nil
}

func (r *fakeRequestRepo) StatsByTeam(_ context.Context) ([]domain.TeamRequestStats, error) {
	byTeam := map[string]*domain.TeamRequestStats{}
	for _, req := range r.requests {
		if req.TeamID == nil {
			continue
		}
		stats, ok := byTeam[*req.TeamID]
		if !ok {
			stats = &domain.TeamRequestStats{TeamID: *req.TeamID}
			byTeam[*req.TeamID] = stats
		}
		stats.Total++
		switch req.Status {
		case domain.StatusNew:
			stats.New++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusRepaired:
			stats.Repaired++
		case domain.StatusScrap:
			stats.Scrap++
		}
	}
	out := make([]domain.TeamRequestStats, 0, len(byTeam))
	for _, stats := range byTeam {
		out = append(out, *stats)
	}
	return out, nil
}

func (r *fakeRequestRepo) MarkScrap(_ context.Context, id string) (*domain.MaintenanceRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if r.failCascade {
		equipmentID := ""
		if req.EquipmentID != nil {
			equipmentID = *req.EquipmentID
		}
		return nil, apperrors.NewCascadeIncomplete(id, equipmentID)
	}
	req.Status = domain.StatusScrap
	req.UpdatedAt = time.Now()
	if req.EquipmentID != nil {
		if eq, ok := r.equipment.equipment[*req.EquipmentID]; ok {
			eq.IsScrapped = true
		}
	}
	copied := *req
	return &copied, nil
}

func (r *fakeRequestRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.requests[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.requests, id)
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) byType(eventType events.EventType) []events.Event {
	out := []events.Event{}
	for _, ev := range d.published {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
