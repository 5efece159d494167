// Package models defines the core domain models for the vacation manager:
// employees, vacation requests, per-year vacation balances, and the caller
// identity attached to every operation.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level attached to a caller identity.
type Role string

const (
	// RoleAdmin has full access to all employees and requests.
	RoleAdmin Role = "ADMIN"
	// RoleManager has full access to direct reports only.
	RoleManager Role = "MANAGER"
	// RoleCollaborator has full access to their own records only.
	RoleCollaborator Role = "COLLABORATOR"
)

// Valid reports whether the role is one of the known access levels.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCollaborator:
		return true
	}
	return false
}

// Status is the lifecycle state of a vacation request.
// PENDING is the only non-terminal state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// Identity is the authenticated caller supplied by the identity provider.
// The core trusts it and does not re-authenticate.
type Identity struct {
	ID   uuid.UUID
	Role Role
}

// Employee defines the domain model for an employee directory entry.
type Employee struct {
	// ID is the unique identifier for the employee.
	ID uuid.UUID
	// FullName is the employee's display name.
	FullName string
	// Email is unique across the directory.
	Email string
	// ManagerID is the identity of the employee's manager, if any.
	ManagerID *uuid.UUID
	// UserID is the employee's own linked account identity, if any.
	UserID *uuid.UUID
	// Active is cleared instead of deleting the record.
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeUpdate represents the fields that can be updated for an Employee.
// Pointer types are used to allow partial updates.
type EmployeeUpdate struct {
	ID        uuid.UUID
	FullName  *string
	Email     *string
	ManagerID **uuid.UUID
	UserID    **uuid.UUID
}

// VacationRequest defines the domain model for a single leave request.
// Dates are inclusive calendar days normalized to midnight UTC.
type VacationRequest struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	StartDate  time.Time
	EndDate    time.Time
	Status     Status
	// RequestedAt is set at creation and never changes.
	RequestedAt time.Time
	// DecisionAt is set when an approval or rejection is recorded.
	DecisionAt *time.Time
	// DecidedBy is the identity of the approver or rejecter.
	DecidedBy *uuid.UUID
	Reason    string
	// ManagerComment is set on decision.
	ManagerComment string
	// Version guards against concurrent conflicting writes.
	Version int64
}

// DaysCount returns the inclusive number of calendar days the request spans.
func (r *VacationRequest) DaysCount() int {
	return DaysBetween(r.StartDate, r.EndDate)
}

// VacationBalance tracks one employee's day-off entitlement for one calendar
// year. RemainingDays is always EntitledDays minus UsedDays.
type VacationBalance struct {
	ID            uuid.UUID
	EmployeeID    uuid.UUID
	Year          int
	EntitledDays  int
	UsedDays      int
	RemainingDays int
}

// Deduct increases the used day count and recomputes the remainder.
// Sufficiency is the caller's responsibility.
func (b *VacationBalance) Deduct(days int) {
	b.UsedDays += days
	b.RemainingDays = b.EntitledDays - b.UsedDays
}

// Restore decreases the used day count, clamped at zero, and recomputes
// the remainder.
func (b *VacationBalance) Restore(days int) {
	b.UsedDays -= days
	if b.UsedDays < 0 {
		b.UsedDays = 0
	}
	b.RemainingDays = b.EntitledDays - b.UsedDays
}

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the inclusive day count between two calendar dates.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start))/(24*time.Hour)) + 1
}
