package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/vacation/audit"
	"github.com/eltonsantos/vacationmanager/internal/vacation/db"
	e "github.com/eltonsantos/vacationmanager/internal/vacation/errors"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/eltonsantos/vacationmanager/internal/vacation/policy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityVacationRequest = "VacationRequest"

// VacationService drives the vacation request lifecycle:
// PENDING -> APPROVED | REJECTED | CANCELLED, with APPROVED additionally
// cancellable. Balance days are held softly while PENDING and deducted only
// at approval, so two overlapping PENDING requests can coexist but at most
// one of them can ever reach APPROVED.
type VacationService struct {
	repo   Repository
	audit  AuditRecorder
	logger *zap.Logger
}

// NewVacationService constructs a VacationService with a repository, an
// audit recorder, and a logger.
func NewVacationService(repo Repository, recorder AuditRecorder, logger *zap.Logger) *VacationService {
	return &VacationService{
		repo:   repo,
		audit:  recorder,
		logger: logger.Named("vacation_service"),
	}
}

// Create submits a new request in PENDING state. The balance is checked for
// sufficiency but not deducted; deduction happens at approval.
func (s *VacationService) Create(ctx context.Context, caller models.Identity, employeeID uuid.UUID, startDate, endDate time.Time, reason string) (*models.VacationRequest, error) {
	startDate, endDate = models.DateOnly(startDate), models.DateOnly(endDate)
	if err := validateDates(startDate, endDate); err != nil {
		return nil, err
	}

	var request *models.VacationRequest
	var employeeName string
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		employee, err := tx.GetEmployee(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("employee %s: %w", employeeID, err)
		}
		if !policy.CanPerform(caller.Role, policy.RelationshipTo(caller, employee), policy.OpCreate) {
			return fmt.Errorf("%w: you can only create vacation requests for yourself", e.ErrUnauthorized)
		}

		if err := checkOverlap(ctx, tx, startDate, endDate, uuid.Nil); err != nil {
			return err
		}
		days := models.DaysBetween(startDate, endDate)
		if err := checkBalance(ctx, tx, employee.ID, startDate.Year(), days); err != nil {
			return err
		}

		request = &models.VacationRequest{
			ID:          uuid.New(),
			EmployeeID:  employee.ID,
			StartDate:   startDate,
			EndDate:     endDate,
			Status:      models.StatusPending,
			RequestedAt: time.Now().UTC(),
			Reason:      reason,
			Version:     1,
		}
		employeeName = employee.FullName
		return tx.CreateRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(caller, audit.ActionCreateVacation, entityVacationRequest, request.ID, map[string]string{
		"employeeName": employeeName,
		"startDate":    startDate.Format(dateLayout),
		"endDate":      endDate.Format(dateLayout),
	})
	return request, nil
}

// Update changes the dates or reason of a PENDING request. The request's
// own id is excluded from the overlap check. Balance is untouched because
// nothing has been deducted yet.
func (s *VacationService) Update(ctx context.Context, caller models.Identity, id uuid.UUID, startDate, endDate time.Time, reason string) (*models.VacationRequest, error) {
	startDate, endDate = models.DateOnly(startDate), models.DateOnly(endDate)
	if err := validateDates(startDate, endDate); err != nil {
		return nil, err
	}

	var request *models.VacationRequest
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		request, err = tx.GetRequest(ctx, id)
		if err != nil {
			return fmt.Errorf("vacation request %s: %w", id, err)
		}
		employee, err := tx.GetEmployee(ctx, request.EmployeeID)
		if err != nil {
			return fmt.Errorf("employee %s: %w", request.EmployeeID, err)
		}
		if !policy.CanPerform(caller.Role, policy.RelationshipTo(caller, employee), policy.OpUpdate) {
			return fmt.Errorf("%w: you can only update your own vacation requests", e.ErrUnauthorized)
		}
		if request.Status != models.StatusPending {
			return fmt.Errorf("%w: only PENDING vacation requests can be updated", e.ErrBusinessRule)
		}

		if err := checkOverlap(ctx, tx, startDate, endDate, request.ID); err != nil {
			return err
		}

		request.StartDate = startDate
		request.EndDate = endDate
		request.Reason = reason
		return tx.UpdateRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(caller, audit.ActionUpdateVacation, entityVacationRequest, request.ID, map[string]string{
		"startDate": startDate.Format(dateLayout),
		"endDate":   endDate.Format(dateLayout),
	})
	return request, nil
}

// Cancel moves a PENDING or APPROVED request to CANCELLED. Cancelling an
// APPROVED request restores its day count to the balance first, inside the
// same transaction.
func (s *VacationService) Cancel(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.VacationRequest, error) {
	var request *models.VacationRequest
	var employeeName string
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		request, err = tx.GetRequest(ctx, id)
		if err != nil {
			return fmt.Errorf("vacation request %s: %w", id, err)
		}
		employee, err := tx.GetEmployee(ctx, request.EmployeeID)
		if err != nil {
			return fmt.Errorf("employee %s: %w", request.EmployeeID, err)
		}
		if !policy.CanPerform(caller.Role, policy.RelationshipTo(caller, employee), policy.OpCancel) {
			return fmt.Errorf("%w: you can only cancel your own vacation requests", e.ErrUnauthorized)
		}

		switch request.Status {
		case models.StatusApproved:
			if err := tx.RestoreDays(ctx, request.EmployeeID, request.StartDate.Year(), request.DaysCount()); err != nil {
				return fmt.Errorf("failed to restore balance: %w", err)
			}
		case models.StatusPending:
			// Nothing was deducted yet.
		default:
			return fmt.Errorf("%w: only PENDING or APPROVED vacation requests can be cancelled", e.ErrBusinessRule)
		}

		request.Status = models.StatusCancelled
		employeeName = employee.FullName
		return tx.UpdateRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(caller, audit.ActionCancelVacation, entityVacationRequest, request.ID, map[string]string{
		"employeeName": employeeName,
	})
	return request, nil
}

// Approve records an approval decision on a PENDING request. Overlap and
// balance are re-validated at decision time: siblings or the balance may
// have changed since submission, and this re-check is what guarantees that
// of two overlapping PENDING requests at most one becomes APPROVED.
func (s *VacationService) Approve(ctx context.Context, caller models.Identity, id uuid.UUID, comment string) (*models.VacationRequest, error) {
	var request *models.VacationRequest
	var employeeName string
	var days int
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		request, err = tx.GetRequest(ctx, id)
		if err != nil {
			return fmt.Errorf("vacation request %s: %w", id, err)
		}
		employee, err := tx.GetEmployee(ctx, request.EmployeeID)
		if err != nil {
			return fmt.Errorf("employee %s: %w", request.EmployeeID, err)
		}
		if err := checkDecisionAccess(caller, employee); err != nil {
			return err
		}
		if request.Status != models.StatusPending {
			return fmt.Errorf("%w: only PENDING vacation requests can be approved", e.ErrBusinessRule)
		}

		if err := checkOverlap(ctx, tx, request.StartDate, request.EndDate, request.ID); err != nil {
			return err
		}
		days = request.DaysCount()
		if err := checkBalance(ctx, tx, request.EmployeeID, request.StartDate.Year(), days); err != nil {
			return err
		}

		now := time.Now().UTC()
		request.Status = models.StatusApproved
		request.DecisionAt = &now
		request.DecidedBy = &caller.ID
		request.ManagerComment = comment
		if err := tx.UpdateRequest(ctx, request); err != nil {
			return err
		}

		employeeName = employee.FullName
		return tx.DeductDays(ctx, request.EmployeeID, request.StartDate.Year(), days)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(caller, audit.ActionApproveVacation, entityVacationRequest, request.ID, map[string]string{
		"employeeName": employeeName,
		"startDate":    request.StartDate.Format(dateLayout),
		"endDate":      request.EndDate.Format(dateLayout),
		"days":         fmt.Sprintf("%d", days),
	})
	return request, nil
}

// Reject records a rejection on a PENDING request. No balance effect, so
// neither overlap nor balance is re-validated.
func (s *VacationService) Reject(ctx context.Context, caller models.Identity, id uuid.UUID, comment string) (*models.VacationRequest, error) {
	var request *models.VacationRequest
	var employeeName string
	err := s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		var err error
		request, err = tx.GetRequest(ctx, id)
		if err != nil {
			return fmt.Errorf("vacation request %s: %w", id, err)
		}
		employee, err := tx.GetEmployee(ctx, request.EmployeeID)
		if err != nil {
			return fmt.Errorf("employee %s: %w", request.EmployeeID, err)
		}
		if err := checkDecisionAccess(caller, employee); err != nil {
			return err
		}
		if request.Status != models.StatusPending {
			return fmt.Errorf("%w: only PENDING vacation requests can be rejected", e.ErrBusinessRule)
		}

		now := time.Now().UTC()
		request.Status = models.StatusRejected
		request.DecisionAt = &now
		request.DecidedBy = &caller.ID
		request.ManagerComment = comment
		employeeName = employee.FullName
		return tx.UpdateRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(caller, audit.ActionRejectVacation, entityVacationRequest, request.ID, map[string]string{
		"employeeName": employeeName,
		"comment":      comment,
	})
	return request, nil
}

// Get retrieves a single request, subject to read access.
func (s *VacationService) Get(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.VacationRequest, error) {
	request, err := s.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("vacation request %s: %w", id, err)
	}
	employee, err := s.repo.GetEmployee(ctx, request.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("employee %s: %w", request.EmployeeID, err)
	}
	if !policy.CanPerform(caller.Role, policy.RelationshipTo(caller, employee), policy.OpRead) {
		return nil, fmt.Errorf("%w: you do not have permission to view this vacation request", e.ErrUnauthorized)
	}
	return request, nil
}

// List returns the requests visible to the caller: everything for admins,
// direct reports' requests for managers, own requests for collaborators.
func (s *VacationService) List(ctx context.Context, caller models.Identity) ([]*models.VacationRequest, error) {
	switch caller.Role {
	case models.RoleAdmin:
		return s.repo.ListRequests(ctx)
	case models.RoleManager:
		return s.repo.ListRequestsByManager(ctx, caller.ID)
	default:
		employee, err := s.repo.GetEmployeeByUserID(ctx, caller.ID)
		if err != nil {
			return nil, fmt.Errorf("no employee record for caller: %w", err)
		}
		return s.repo.ListRequestsByEmployee(ctx, employee.ID)
	}
}

// Calendar returns APPROVED requests fully contained in [from, to].
func (s *VacationService) Calendar(ctx context.Context, from, to time.Time) ([]*models.VacationRequest, error) {
	from, to = models.DateOnly(from), models.DateOnly(to)
	if err := validateDates(from, to); err != nil {
		return nil, err
	}
	return s.repo.ApprovedInRange(ctx, from, to)
}

// Balance returns the employee's balance for a year, subject to read access.
func (s *VacationService) Balance(ctx context.Context, caller models.Identity, employeeID uuid.UUID, year int) (*models.VacationBalance, error) {
	employee, err := s.repo.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee %s: %w", employeeID, err)
	}
	if !policy.CanPerform(caller.Role, policy.RelationshipTo(caller, employee), policy.OpRead) {
		return nil, fmt.Errorf("%w: you do not have permission to view this balance", e.ErrUnauthorized)
	}
	balance, err := s.repo.GetBalance(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("balance for employee %s year %d: %w", employeeID, year, err)
	}
	return balance, nil
}

func validateDates(startDate, endDate time.Time) error {
	if startDate.After(endDate) {
		return fmt.Errorf("%w: start date must be before or equal to end date", e.ErrBusinessRule)
	}
	return nil
}

// checkDecisionAccess gates approve/reject. A manager deciding on a request
// linked to their own identity resolves to Self, never Manages, which is
// what makes the self-approval prohibition explicit rather than incidental.
func checkDecisionAccess(caller models.Identity, employee *models.Employee) error {
	rel := policy.RelationshipTo(caller, employee)
	if policy.CanPerform(caller.Role, rel, policy.OpDecide) {
		return nil
	}
	if caller.Role == models.RoleManager && rel == policy.Self {
		return fmt.Errorf("%w: you cannot approve or reject your own vacation request", e.ErrUnauthorized)
	}
	return fmt.Errorf("%w: only admins or the employee's manager can approve or reject vacation requests", e.ErrUnauthorized)
}

func checkOverlap(ctx context.Context, tx *db.Repository, startDate, endDate time.Time, excludeID uuid.UUID) error {
	conflicts, err := tx.FindOverlapping(ctx, startDate, endDate, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check for overlapping requests: %w", err)
	}
	if len(conflicts) == 0 {
		return nil
	}

	conflict := conflicts[0]
	name := "another employee"
	if emp, err := tx.GetEmployee(ctx, conflict.EmployeeID); err == nil {
		name = emp.FullName
	}
	return fmt.Errorf("%w: requested dates conflict with existing vacation of %s (%s to %s, status %s)",
		e.ErrConflict,
		name,
		conflict.StartDate.Format(dateLayout),
		conflict.EndDate.Format(dateLayout),
		conflict.Status,
	)
}

func checkBalance(ctx context.Context, tx *db.Repository, employeeID uuid.UUID, year, requestedDays int) error {
	balance, err := tx.GetOrCreateBalance(ctx, employeeID, year)
	if err != nil {
		return fmt.Errorf("failed to load balance: %w", err)
	}
	if requestedDays > balance.RemainingDays {
		return fmt.Errorf("%w: insufficient vacation balance: %d days remaining, %d requested",
			e.ErrBusinessRule, balance.RemainingDays, requestedDays)
	}
	return nil
}
