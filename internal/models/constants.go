package models

import (
	"fmt"
	"strings"
)

// ============================================================================
// PRIORITY
// ============================================================================

// Priority is one of four ordinal task priority levels
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Priorities lists every priority from lowest to highest
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Rank returns the ordinal of the priority (1 = low); 0 for unknown values
func (p Priority) Rank() int {
	for i, candidate := range Priorities {
		if candidate == p {
			return i + 1
		}
	}
	return 0
}

// Label returns the display string for the priority
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	case PriorityUrgent:
		return "Urgent"
	}
	return "None"
}

// ParsePriority maps a case-insensitive priority string to its value
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	if p.Rank() == 0 {
		return "", fmt.Errorf("invalid priority '%s' (must be: low, medium, high, urgent)", s)
	}
	return p, nil
}

// ============================================================================
// LEGACY STATUS
// ============================================================================

// LegacyStatus is the four-valued status enum tasks carried before
// per-project columns existed
type LegacyStatus string

const (
	LegacyTodo       LegacyStatus = "TODO"
	LegacyInProgress LegacyStatus = "IN_PROGRESS"
	LegacyInReview   LegacyStatus = "IN_REVIEW"
	LegacyDone       LegacyStatus = "DONE"
)

// Slug returns the column slug this legacy status maps to
// (IN_REVIEW -> in_review). Empty status yields an empty slug.
func (s LegacyStatus) Slug() string {
	return strings.ToLower(string(s))
}

// ============================================================================
// TEAM ROLES
// ============================================================================

// Role is a member's role within a team
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// ParseRole maps a case-insensitive role string to its value
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return r, nil
	}
	return "", fmt.Errorf("invalid role '%s' (must be: owner, admin, member)", s)
}
