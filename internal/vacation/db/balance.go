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

// DefaultEntitledDays is the annual entitlement granted when a balance is
// first created for an employee and year.
const DefaultEntitledDays = 22

func (r *Repository) GetBalance(ctx context.Context, employeeID uuid.UUID, year int) (*models.VacationBalance, error) {
	var rec dbmodels.VacationBalance
	result := r.db.WithContext(ctx).First(&rec, "employee_id = ? AND year = ?", employeeID, year)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return balanceToDomain(&rec), nil
}

func (r *Repository) ListBalancesByYear(ctx context.Context, year int) ([]*models.VacationBalance, error) {
	var recs []dbmodels.VacationBalance
	if err := r.db.WithContext(ctx).Where("year = ?", year).Find(&recs).Error; err != nil {
		return nil, err
	}
	balances := make([]*models.VacationBalance, 0, len(recs))
	for i := range recs {
		balances = append(balances, balanceToDomain(&recs[i]))
	}
	return balances, nil
}

// GetOrCreateBalance returns the balance for (employeeID, year), creating it
// with the default entitlement on first use. The unique index on
// (employee_id, year) is the source of truth: losing a create race fails
// over to reading the winner's row.
func (r *Repository) GetOrCreateBalance(ctx context.Context, employeeID uuid.UUID, year int) (*models.VacationBalance, error) {
	balance, err := r.GetBalance(ctx, employeeID, year)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, err
	}

	rec := &dbmodels.VacationBalance{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		Year:          year,
		EntitledDays:  DefaultEntitledDays,
		UsedDays:      0,
		RemainingDays: DefaultEntitledDays,
	}
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetBalance(ctx, employeeID, year)
		}
		return nil, err
	}
	return balanceToDomain(rec), nil
}

// DeductDays increases the used day count for the employee's year. The
// ledger is a mechanical accumulator; sufficiency is pre-validated by the
// lifecycle engine inside the same transaction.
func (r *Repository) DeductDays(ctx context.Context, employeeID uuid.UUID, year, days int) error {
	balance, err := r.GetOrCreateBalance(ctx, employeeID, year)
	if err != nil {
		return err
	}
	balance.Deduct(days)
	return r.saveBalance(ctx, balance)
}

// RestoreDays gives days back, clamped at zero used days.
func (r *Repository) RestoreDays(ctx context.Context, employeeID uuid.UUID, year, days int) error {
	balance, err := r.GetOrCreateBalance(ctx, employeeID, year)
	if err != nil {
		return err
	}
	balance.Restore(days)
	return r.saveBalance(ctx, balance)
}

func (r *Repository) saveBalance(ctx context.Context, balance *models.VacationBalance) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.VacationBalance{}).
		Where("id = ?", balance.ID).
		Updates(map[string]interface{}{
			"used_days":      balance.UsedDays,
			"remaining_days": balance.RemainingDays,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}
