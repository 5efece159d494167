package db

import (
	"context"
	"errors"

	dbmodels "github.com/eltonsantos/vacationmanager/internal/vacation/db/models"
	e "github.com/eltonsantos/vacationmanager/internal/vacation/errors"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Create(employeeToRecord(employee))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	var rec dbmodels.Employee
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return employeeToDomain(&rec), nil
}

// GetEmployeeByUserID resolves the employee record linked to an account
// identity.
func (r *Repository) GetEmployeeByUserID(ctx context.Context, userID uuid.UUID) (*models.Employee, error) {
	var rec dbmodels.Employee
	result := r.db.WithContext(ctx).First(&rec, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return employeeToDomain(&rec), nil
}

func (r *Repository) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error {
	updates := map[string]interface{}{}
	if update.FullName != nil {
		updates["full_name"] = *update.FullName
	}
	if update.Email != nil {
		updates["email"] = *update.Email
	}
	if update.ManagerID != nil {
		updates["manager_id"] = *update.ManagerID
	}
	if update.UserID != nil {
		updates["user_id"] = *update.UserID
	}
	if len(updates) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("id = ?", update.ID).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateEmail
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListActiveEmployees(ctx context.Context) ([]*models.Employee, error) {
	var recs []dbmodels.Employee
	result := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("full_name").
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	employees := make([]*models.Employee, 0, len(recs))
	for i := range recs {
		employees = append(employees, employeeToDomain(&recs[i]))
	}
	return employees, nil
}

// ListEmployeesByManager returns the active direct reports of a manager
// identity.
func (r *Repository) ListEmployeesByManager(ctx context.Context, managerID uuid.UUID) ([]*models.Employee, error) {
	var recs []dbmodels.Employee
	result := r.db.WithContext(ctx).
		Where("manager_id = ? AND active = ?", managerID, true).
		Order("full_name").
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	employees := make([]*models.Employee, 0, len(recs))
	for i := range recs {
		employees = append(employees, employeeToDomain(&recs[i]))
	}
	return employees, nil
}

// DeactivateEmployee soft-deletes by clearing the active flag. Employee
// records are never hard-deleted.
func (r *Repository) DeactivateEmployee(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
