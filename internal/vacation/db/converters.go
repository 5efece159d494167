package db

import (
	dbmodels "github.com/eltonsantos/vacationmanager/internal/vacation/db/models"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
)

func employeeToRecord(e *models.Employee) *dbmodels.Employee {
	return &dbmodels.Employee{
		ID:        e.ID,
		FullName:  e.FullName,
		Email:     e.Email,
		ManagerID: e.ManagerID,
		UserID:    e.UserID,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func employeeToDomain(rec *dbmodels.Employee) *models.Employee {
	return &models.Employee{
		ID:        rec.ID,
		FullName:  rec.FullName,
		Email:     rec.Email,
		ManagerID: rec.ManagerID,
		UserID:    rec.UserID,
		Active:    rec.Active,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func requestToRecord(r *models.VacationRequest) *dbmodels.VacationRequest {
	return &dbmodels.VacationRequest{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Status:         string(r.Status),
		RequestedAt:    r.RequestedAt,
		DecisionAt:     r.DecisionAt,
		DecidedBy:      r.DecidedBy,
		Reason:         r.Reason,
		ManagerComment: r.ManagerComment,
		Version:        r.Version,
	}
}

func requestToDomain(rec *dbmodels.VacationRequest) *models.VacationRequest {
	return &models.VacationRequest{
		ID:             rec.ID,
		EmployeeID:     rec.EmployeeID,
		StartDate:      models.DateOnly(rec.StartDate),
		EndDate:        models.DateOnly(rec.EndDate),
		Status:         models.Status(rec.Status),
		RequestedAt:    rec.RequestedAt,
		DecisionAt:     rec.DecisionAt,
		DecidedBy:      rec.DecidedBy,
		Reason:         rec.Reason,
		ManagerComment: rec.ManagerComment,
		Version:        rec.Version,
	}
}

func balanceToRecord(b *models.VacationBalance) *dbmodels.VacationBalance {
	return &dbmodels.VacationBalance{
		ID:            b.ID,
		EmployeeID:    b.EmployeeID,
		Year:          b.Year,
		EntitledDays:  b.EntitledDays,
		UsedDays:      b.UsedDays,
		RemainingDays: b.RemainingDays,
	}
}

func balanceToDomain(rec *dbmodels.VacationBalance) *models.VacationBalance {
	return &models.VacationBalance{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		Year:          rec.Year,
		EntitledDays:  rec.EntitledDays,
		UsedDays:      rec.UsedDays,
		RemainingDays: rec.RemainingDays,
	}
}
