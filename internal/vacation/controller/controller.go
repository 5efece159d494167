// Package controller implements the core business logic (service layer)
// for the vacation manager: the request lifecycle engine, the balance
// ledger orchestration, and the employee directory, recording audit
// events for every mutation.
package controller

import (
	"context"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/vacation/audit"
	"github.com/eltonsantos/vacationmanager/internal/vacation/db"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AuditRecorder receives fire-and-forget audit events. Failures inside the
// recorder must never abort the triggering business transaction.
type AuditRecorder interface {
	Record(actor models.Identity, action audit.Action, entityType string, entityID uuid.UUID, metadata map[string]string)
}

// Repository defines the storage interface consumed by the services.
// Write paths run inside WithTransaction against the transaction-scoped
// repository so every operation commits or rolls back as one unit.
type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error

	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (*models.Employee, error)
	ListActiveEmployees(ctx context.Context) ([]*models.Employee, error)
	ListEmployeesByManager(ctx context.Context, managerID uuid.UUID) ([]*models.Employee, error)

	GetRequest(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error)
	ListRequests(ctx context.Context) ([]*models.VacationRequest, error)
	ListRequestsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.VacationRequest, error)
	ListRequestsByManager(ctx context.Context, managerID uuid.UUID) ([]*models.VacationRequest, error)
	ApprovedInRange(ctx context.Context, from, to time.Time) ([]*models.VacationRequest, error)

	GetBalance(ctx context.Context, employeeID uuid.UUID, year int) (*models.VacationBalance, error)

	Close() error
}
