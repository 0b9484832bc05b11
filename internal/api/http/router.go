package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gearguard/internal/api/http/handlers"
	"github.com/spec-kit/gearguard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Teams          *handlers.TeamsHandler
	Equipment      *handlers.EquipmentHandler
	Requests       *handlers.RequestsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Mutating routes are gated through the
// capability table; identity-scoped rules live in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	users := app.Group("/users", cfg.AuthMiddleware.Handle)
	users.Get("/", auth.Require(auth.ActionListUsers), cfg.Users.ListUsers)
	users.Get("/technicians", cfg.Users.ListTechnicians)
	users.Get("/role/:role", auth.Require(auth.ActionListUsers), cfg.Users.ListByRole)
	users.Get("/:id", cfg.Users.GetUser)
	users.Patch("/:id", cfg.Users.UpdateUser)
	users.Delete("/:id", auth.Require(auth.ActionDeleteUser), cfg.Users.DeleteUser)

	teams := app.Group("/teams", cfg.AuthMiddleware.Handle)
	teams.Get("/", cfg.Teams.ListTeams)
	teams.Get("/:id", cfg.Teams.GetTeam)
	teams.Get("/:id/members", cfg.Teams.ListMembers)
	teams.Get("/:id/equipment", cfg.Equipment.ListTeamEquipment)
	teams.Post("/", auth.Require(auth.ActionManageTeams), cfg.Teams.CreateTeam)
	teams.Patch("/:id", auth.Require(auth.ActionManageTeams), cfg.Teams.UpdateTeam)
	teams.Delete("/:id", auth.Require(auth.ActionManageTeams), cfg.Teams.DeleteTeam)
	teams.Post("/:id/members", auth.Require(auth.ActionManageTeams), cfg.Teams.AddMember)
	teams.Delete("/:id/members/:userId", auth.Require(auth.ActionManageTeams), cfg.Teams.RemoveMember)

	equipment := app.Group("/equipment", cfg.AuthMiddleware.Handle)
	equipment.Get("/", cfg.Equipment.ListEquipment)
	equipment.Get("/search", cfg.Equipment.SearchEquipment)
	equipment.Get("/warranty-expiring", cfg.Equipment.WarrantyExpiring)
	equipment.Get("/:id", cfg.Equipment.GetEquipment)
	equipment.Get("/:id/requests", cfg.Equipment.ListEquipmentRequests)
	equipment.Get("/:id/requests/count", cfg.Equipment.CountEquipmentRequests)
	equipment.Post("/", auth.Require(auth.ActionCreateEquipment), cfg.Equipment.CreateEquipment)
	equipment.Patch("/:id", auth.Require(auth.ActionUpdateEquipment), cfg.Equipment.UpdateEquipment)
	equipment.Post("/:id/scrap", auth.Require(auth.ActionScrapEquipment), cfg.Equipment.ScrapEquipment)
	equipment.Delete("/:id", auth.Require(auth.ActionDeleteEquipment), cfg.Equipment.DeleteEquipment)

	requests := app.Group("/requests", cfg.AuthMiddleware.Handle)
	requests.Get("/", auth.Require(auth.ActionReadRequest), cfg.Requests.ListRequests)
	requests.Get("/kanban", auth.Require(auth.ActionReadRequest), cfg.Requests.Kanban)
	requests.Get("/calendar", auth.Require(auth.ActionReadRequest), cfg.Requests.Calendar)
	requests.Get("/stats", auth.Require(auth.ActionReadRequest), cfg.Requests.TeamStats)
	requests.Get("/:id", auth.Require(auth.ActionReadRequest), cfg.Requests.GetRequest)
	requests.Post("/", auth.Require(auth.ActionCreateRequest), cfg.Requests.CreateRequest)
	requests.Patch("/:id", auth.Require(auth.ActionUpdateRequest), cfg.Requests.UpdateRequest)
	requests.Patch("/:id/status", auth.Require(auth.ActionUpdateRequest), cfg.Requests.SetStatus)
	requests.Post("/:id/assign", auth.Require(auth.ActionAssignRequest), cfg.Requests.Assign)
	requests.Post("/:id/complete", auth.Require(auth.ActionCompleteRequest), cfg.Requests.Complete)
	requests.Post("/:id/scrap", auth.Require(auth.ActionScrapRequest), cfg.Requests.Scrap)
	requests.Delete("/:id", auth.Require(auth.ActionDeleteRequest), cfg.Requests.DeleteRequest)
}
