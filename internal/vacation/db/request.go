package db

import (
	"context"
	"errors"
	"time"

	dbmodels "github.com/eltonsantos/vacationmanager/internal/vacation/db/models"
	e "github.com/eltonsantos/vacationmanager/internal/vacation/errors"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// activeStatuses are the statuses that block overlapping requests.
var activeStatuses = []string{string(models.StatusPending), string(models.StatusApproved)}

func (r *Repository) CreateRequest(ctx context.Context, request *models.VacationRequest) error {
	return r.db.WithContext(ctx).Create(requestToRecord(request)).Error
}

func (r *Repository) GetRequest(ctx context.Context, id uuid.UUID) (*models.VacationRequest, error) {
	var rec dbmodels.VacationRequest
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return requestToDomain(&rec), nil
}

// UpdateRequest writes every mutable field of the request, guarded by the
// optimistic version counter. A concurrent writer that got there first
// leaves zero rows affected and the caller sees ErrVersionConflict.
// On success the request's version is advanced in place.
func (r *Repository) UpdateRequest(ctx context.Context, request *models.VacationRequest) error {
	updates := map[string]interface{}{
		"start_date":      request.StartDate,
		"end_date":        request.EndDate,
		"status":          string(request.Status),
		"decision_at":     request.DecisionAt,
		"decided_by":      request.DecidedBy,
		"reason":          request.Reason,
		"manager_comment": request.ManagerComment,
		"version":         request.Version + 1,
	}

	result := r.db.WithContext(ctx).Model(&dbmodels.VacationRequest{}).
		Where("id = ? AND version = ?", request.ID, request.Version).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&dbmodels.VacationRequest{}).
			Where("id = ?", request.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return e.ErrNotFound
		}
		return e.ErrVersionConflict
	}
	request.Version++
	return nil
}

// FindOverlapping returns PENDING and APPROVED requests whose inclusive
// date range intersects [start, end]. REJECTED and CANCELLED requests never
// block. excludeID removes the request being updated or re-validated from
// the candidate set; pass uuid.Nil to consider everything. Results are
// ordered by start date for deterministic conflict reporting.
func (r *Repository) FindOverlapping(ctx context.Context, start, end time.Time, excludeID uuid.UUID) ([]*models.VacationRequest, error) {
	query := r.db.WithContext(ctx).
		Where("status IN ?", activeStatuses).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}

	var recs []dbmodels.VacationRequest
	if err := query.Order("start_date").Find(&recs).Error; err != nil {
		return nil, err
	}
	requests := make([]*models.VacationRequest, 0, len(recs))
	for i := range recs {
		requests = append(requests, requestToDomain(&recs[i]))
	}
	return requests, nil
}

func (r *Repository) ListRequests(ctx context.Context) ([]*models.VacationRequest, error) {
	return r.listRequests(ctx, r.db.WithContext(ctx))
}

func (r *Repository) ListRequestsByEmployee(ctx context.Context, employeeID uuid.UUID) ([]*models.VacationRequest, error) {
	return r.listRequests(ctx, r.db.WithContext(ctx).Where("employee_id = ?", employeeID))
}

// ListRequestsByManager returns requests belonging to employees that report
// to the given manager identity.
func (r *Repository) ListRequestsByManager(ctx context.Context, managerID uuid.UUID) ([]*models.VacationRequest, error) {
	tx := r.db.WithContext(ctx).
		Where("employee_id IN (?)", r.db.Model(&dbmodels.Employee{}).
			Select("id").
			Where("manager_id = ?", managerID))
	return r.listRequests(ctx, tx)
}

// ApprovedInRange returns APPROVED requests fully contained in [from, to],
// for calendar views.
func (r *Repository) ApprovedInRange(ctx context.Context, from, to time.Time) ([]*models.VacationRequest, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ?", string(models.StatusApproved)).
		Where("start_date >= ? AND end_date <= ?", from, to)
	return r.listRequests(ctx, tx)
}

func (r *Repository) listRequests(_ context.Context, tx *gorm.DB) ([]*models.VacationRequest, error) {
	var recs []dbmodels.VacationRequest
	if err := tx.Order("requested_at DESC").Find(&recs).Error; err != nil {
		return nil, err
	}
	requests := make([]*models.VacationRequest, 0, len(recs))
	for i := range recs {
		requests = append(requests, requestToDomain(&recs[i]))
	}
	return requests, nil
}
