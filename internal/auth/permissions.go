package auth

import "github.com/spec-kit/gearguard/internal/domain"

// Action identifies a guarded operation. Every mutating route is gated
// through the capability table below so adding an operation cannot skip
// a role check.
type Action string

const (
	ActionCreateRequest   Action = "request.create"
	ActionReadRequest     Action = "request.read"
	ActionUpdateRequest   Action = "request.update"
	ActionAssignRequest   Action = "request.assign"
	ActionCompleteRequest Action = "request.complete"
	ActionScrapRequest    Action = "request.scrap"
	ActionDeleteRequest   Action = "request.delete"

	ActionCreateEquipment Action = "equipment.create"
	ActionUpdateEquipment Action = "equipment.update"
	ActionScrapEquipment  Action = "equipment.scrap"
	ActionDeleteEquipment Action = "equipment.delete"

	ActionManageTeams Action = "team.manage"
	ActionListUsers   Action = "user.list"
	ActionDeleteUser  Action = "user.delete"
)

// capabilities is the closed role x action matrix. Identity-scoped rules
// (technician self-assign, user self-update) are enforced in the services
// on top of this table.
var capabilities = map[Action]map[domain.Role]bool{
	ActionCreateRequest:   {domain.RoleUser: true, domain.RoleTechnician: true, domain.RoleManager: true},
	ActionReadRequest:     {domain.RoleUser: true, domain.RoleTechnician: true, domain.RoleManager: true},
	ActionUpdateRequest:   {domain.RoleUser: true, domain.RoleTechnician: true, domain.RoleManager: true},
	ActionAssignRequest:   {domain.RoleTechnician: true, domain.RoleManager: true},
	ActionCompleteRequest: {domain.RoleTechnician: true, domain.RoleManager: true},
	ActionScrapRequest:    {domain.RoleManager: true},
	ActionDeleteRequest:   {domain.RoleManager: true},

	ActionCreateEquipment: {domain.RoleTechnician: true, domain.RoleManager: true},
	ActionUpdateEquipment: {domain.RoleTechnician: true, domain.RoleManager: true},
	ActionScrapEquipment:  {domain.RoleManager: true},
	ActionDeleteEquipment: {domain.RoleManager: true},

	ActionManageTeams: {domain.RoleManager: true},
	ActionListUsers:   {domain.RoleManager: true},
	ActionDeleteUser:  {domain.RoleManager: true},
}

// Allowed consults the capability table.
func Allowed(role domain.Role, action Action) bool {
	roles, ok := capabilities[action]
	if !ok {
		return false
	}
	return roles[role]
}
