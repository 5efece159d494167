// Package models contains the persistence models for the vacation manager,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Employee represents an employee directory entry in the database.
type Employee struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FullName  string     `gorm:"size:200;not null"`
	Email     string     `gorm:"size:200;not null;uniqueIndex"`
	ManagerID *uuid.UUID `gorm:"type:uuid;index"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"`
	Active    bool       `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Employee) TableName() string {
	return "employees"
}

// VacationBalance holds one employee's entitlement for one calendar year.
// The (employee_id, year) pair is the source of truth for uniqueness; a
// create race fails on the index and the caller falls over to a read.
type VacationBalance struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balances_employee_year"`
	Year          int       `gorm:"not null;uniqueIndex:idx_balances_employee_year"`
	EntitledDays  int       `gorm:"not null"`
	UsedDays      int       `gorm:"not null;check:used_days >= 0"`
	RemainingDays int       `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (VacationBalance) TableName() string {
	return "vacation_balances"
}

// VacationRequest is a leave request row. The composite index backs the
// overlap query; version backs optimistic concurrency.
type VacationRequest struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index:idx_requests_employee_dates"`
	StartDate      time.Time `gorm:"not null;index:idx_requests_employee_dates"`
	EndDate        time.Time `gorm:"not null;index:idx_requests_employee_dates"`
	Status         string    `gorm:"size:20;not null;index"`
	RequestedAt    time.Time `gorm:"not null"`
	DecisionAt     *time.Time
	DecidedBy      *uuid.UUID `gorm:"type:uuid"`
	Reason         string     `gorm:"size:500"`
	ManagerComment string     `gorm:"size:500"`
	Version        int64      `gorm:"not null;default:1"`
}

func (VacationRequest) TableName() string {
	return "vacation_requests"
}
