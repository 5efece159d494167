package controller

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/vacation/audit"
	"github.com/eltonsantos/vacationmanager/internal/vacation/db"
	e "github.com/eltonsantos/vacationmanager/internal/vacation/errors"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/eltonsantos/vacationmanager/internal/vacation/policy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityEmployee = "Employee"

// EmployeeService manages the employee directory. Directory writes are
// admin-only and peripheral to the request lifecycle; the lifecycle engine
// reads the directory to resolve ownership and reporting lines.
type EmployeeService struct {
	repo   Repository
	audit  AuditRecorder
	logger *zap.Logger
}

// NewEmployeeService constructs an EmployeeService.
func NewEmployeeService(repo Repository, recorder AuditRecorder, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:   repo,
		audit:  recorder,
		logger: logger.Named("employee_service"),
	}
}

// Create adds a directory entry and seeds its balance for the current year.
func (s *EmployeeService) Create(ctx context.Context, caller models.Identity, employee *models.Employee) (*models.Employee, error) {
	if caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can create employees", e.ErrUnauthorized)
	}
	employee.FullName = strings.TrimSpace(employee.FullName)
	employee.Email = strings.TrimSpace(employee.Email)
	if employee.FullName == "" || employee.Email == "" {
		return nil, fmt.Errorf("%w: full name and email are required", e.ErrBusinessRule)
	}

	employee.ID = uuid.New()
	employee.Active = true
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.CreateEmployee(ctx, employee); err != nil {
			return err
		}
		_, err := tx.GetOrCreateBalance(ctx, employee.ID, time.Now().Year())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.audit.Record(caller, audit.ActionCreateEmployee, entityEmployee, employee.ID, map[string]string{
		"fullName": employee.FullName,
		"email":    employee.Email,
	})
	return employee, nil
}

// Get retrieves one employee, subject to read access.
func (s *EmployeeService) Get(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("employee %s: %w", id, err)
	}
	if !policy.CanPerform(caller.Role, policy.RelationshipTo(caller, employee), policy.OpRead) {
		return nil, fmt.Errorf("%w: you do not have permission to view this employee", e.ErrUnauthorized)
	}
	return employee, nil
}

// GetByUser resolves the employee record linked to an account identity.
func (s *EmployeeService) GetByUser(ctx context.Context, caller models.Identity, userID uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.GetEmployeeByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("employee for user %s: %w", userID, err)
	}
	if !policy.CanPerform(caller.Role, policy.RelationshipTo(caller, employee), policy.OpRead) {
		return nil, fmt.Errorf("%w: you do not have permission to view this employee", e.ErrUnauthorized)
	}
	return employee, nil
}

// List returns active employees visible to the caller: all for admins,
// direct reports for managers. Collaborators cannot list the directory.
func (s *EmployeeService) List(ctx context.Context, caller models.Identity) ([]*models.Employee, error) {
	switch caller.Role {
	case models.RoleAdmin:
		return s.repo.ListActiveEmployees(ctx)
	case models.RoleManager:
		return s.repo.ListEmployeesByManager(ctx, caller.ID)
	default:
		return nil, fmt.Errorf("%w: collaborators cannot list employees", e.ErrUnauthorized)
	}
}

// Update applies a partial update to a directory entry.
func (s *EmployeeService) Update(ctx context.Context, caller models.Identity, update *models.EmployeeUpdate) (*models.Employee, error) {
	if caller.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins can update employees", e.ErrUnauthorized)
	}
	if update.ID == uuid.Nil {
		return nil, fmt.Errorf("%w: invalid employee ID", e.ErrBusinessRule)
	}

	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.UpdateEmployee(ctx, update)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.repo.GetEmployee(ctx, update.ID)
	if err != nil {
		s.logger.Error("failed to get employee after update",
			zap.Error(err),
			zap.String("employee_id", update.ID.String()),
		)
		return nil, err
	}

	s.audit.Record(caller, audit.ActionUpdateEmployee, entityEmployee, updated.ID, map[string]string{
		"fullName": updated.FullName,
	})
	return updated, nil
}

// Deactivate soft-deletes an employee; the record and its history remain.
func (s *EmployeeService) Deactivate(ctx context.Context, caller models.Identity, id uuid.UUID) error {
	if caller.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins can deactivate employees", e.ErrUnauthorized)
	}

	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		return fmt.Errorf("employee %s: %w", id, err)
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		return tx.DeactivateEmployee(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to deactivate employee: %w", err)
	}

	s.audit.Record(caller, audit.ActionDeleteEmployee, entityEmployee, id, map[string]string{
		"fullName": employee.FullName,
	})
	return nil
}
