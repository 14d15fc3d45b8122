package domain

import "strings"

type Methodology string

const (
	MethodologyKanban Methodology = "KANBAN"
	MethodologyScrum  Methodology = "SCRUM"
)

// ParseMethodology accepts any casing and defaults to KANBAN for an empty value.
func ParseMethodology(s string) (Methodology, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(MethodologyKanban):
		return MethodologyKanban, true
	case string(MethodologyScrum):
		return MethodologyScrum, true
	default:
		return "", false
	}
}

type SprintStatus string

const (
	SprintPlanning  SprintStatus = "PLANNING"
	SprintPlanned   SprintStatus = "PLANNED"
	SprintActive    SprintStatus = "ACTIVE"
	SprintCompleted SprintStatus = "COMPLETED"
)

// ValidSprintStatuses is the canonical set of accepted sprint status strings.
var ValidSprintStatuses = map[SprintStatus]bool{
	SprintPlanning:  true,
	SprintPlanned:   true,
	SprintActive:    true,
	SprintCompleted: true,
}

type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPERADMIN"
)

type ScrumRole string

const (
	ScrumProductOwner ScrumRole = "PRODUCT_OWNER"
	ScrumMaster       ScrumRole = "SCRUM_MASTER"
	ScrumDeveloper    ScrumRole = "DEVELOPER"
)
