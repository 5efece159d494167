package controller

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/eltonsantos/vacationmanager/internal/pkg/utils"
	"github.com/eltonsantos/vacationmanager/internal/vacation/audit"
	"github.com/eltonsantos/vacationmanager/internal/vacation/db"
	e "github.com/eltonsantos/vacationmanager/internal/vacation/errors"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func setupEmployeeService(t *testing.T) (*EmployeeService, *db.Repository, *mockAuditRecorder) {
	t.Helper()
	repo, err := db.NewSQLiteRepository(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	recorder := &mockAuditRecorder{}
	return NewEmployeeService(repo, recorder, zaptest.NewLogger(t)), repo, recorder
}

func TestCreateEmployee(t *testing.T) {
	svc, repo, recorder := setupEmployeeService(t)
	ctx := context.Background()
	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}

	created, err := svc.Create(ctx, admin, &models.Employee{
		FullName: "  Ana Silva  ",
		Email:    " ana.silva@example.com ",
		UserID:   utils.Ptr(uuid.New()),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Ana Silva", created.FullName)
	assert.Equal(t, "ana.silva@example.com", created.Email)
	assert.True(t, created.Active)

	// Creation seeds the current year's entitlement.
	balance, err := repo.GetBalance(ctx, created.ID, time.Now().Year())
	require.NoError(t, err)
	assert.Equal(t, db.DefaultEntitledDays, balance.EntitledDays)
	assert.Equal(t, 0, balance.UsedDays)

	assert.Equal(t, []audit.Action{audit.ActionCreateEmployee}, recorder.Actions())
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, _, _ := setupEmployeeService(t)
	ctx := context.Background()
	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}

	t.Run("missing name", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, &models.Employee{Email: "a@example.com"})
		assert.ErrorIs(t, err, e.ErrBusinessRule)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, &models.Employee{FullName: "Ana Silva"})
		assert.ErrorIs(t, err, e.ErrBusinessRule)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, &models.Employee{FullName: "Ana Silva", Email: "dup@example.com"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, admin, &models.Employee{FullName: "Other Ana", Email: "dup@example.com"})
		assert.ErrorIs(t, err, e.ErrDuplicateEmail)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		manager := models.Identity{ID: uuid.New(), Role: models.RoleManager}
		_, err := svc.Create(ctx, manager, &models.Employee{FullName: "Ana Silva", Email: "b@example.com"})
		assert.ErrorIs(t, err, e.ErrUnauthorized)
	})
}

func TestGetEmployeeAccess(t *testing.T) {
	svc, repo, _ := setupEmployeeService(t)
	ctx := context.Background()

	managerUser := uuid.New()
	userID := uuid.New()
	employee := seedEmployee(t, repo, "Ana Silva", utils.Ptr(managerUser), utils.Ptr(userID))

	t.Run("self", func(t *testing.T) {
		got, err := svc.Get(ctx, models.Identity{ID: userID, Role: models.RoleCollaborator}, employee.ID)
		require.NoError(t, err)
		assert.Equal(t, employee.ID, got.ID)
	})

	t.Run("manager", func(t *testing.T) {
		_, err := svc.Get(ctx, models.Identity{ID: managerUser, Role: models.RoleManager}, employee.ID)
		assert.NoError(t, err)
	})

	t.Run("unrelated collaborator", func(t *testing.T) {
		_, err := svc.Get(ctx, models.Identity{ID: uuid.New(), Role: models.RoleCollaborator}, employee.ID)
		assert.ErrorIs(t, err, e.ErrUnauthorized)
	})

	t.Run("by user id", func(t *testing.T) {
		got, err := svc.GetByUser(ctx, models.Identity{ID: userID, Role: models.RoleCollaborator}, userID)
		require.NoError(t, err)
		assert.Equal(t, employee.ID, got.ID)
	})
}

func TestListEmployees(t *testing.T) {
	svc, repo, _ := setupEmployeeService(t)
	ctx := context.Background()

	managerUser := uuid.New()
	seedEmployee(t, repo, "Ana Silva", utils.Ptr(managerUser), utils.Ptr(uuid.New()))
	seedEmployee(t, repo, "Bruno Costa", nil, utils.Ptr(uuid.New()))

	t.Run("admin sees all active", func(t *testing.T) {
		employees, err := svc.List(ctx, models.Identity{ID: uuid.New(), Role: models.RoleAdmin})
		require.NoError(t, err)
		assert.Len(t, employees, 2)
	})

	t.Run("manager sees direct reports", func(t *testing.T) {
		employees, err := svc.List(ctx, models.Identity{ID: managerUser, Role: models.RoleManager})
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, "Ana Silva", employees[0].FullName)
	})

	t.Run("collaborator denied", func(t *testing.T) {
		_, err := svc.List(ctx, models.Identity{ID: uuid.New(), Role: models.RoleCollaborator})
		assert.ErrorIs(t, err, e.ErrUnauthorized)
	})
}

func TestUpdateEmployee(t *testing.T) {
	svc, repo, recorder := setupEmployeeService(t)
	ctx := context.Background()
	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}

	managerUser := uuid.New()
	employee := seedEmployee(t, repo, "Ana Silva", utils.Ptr(managerUser), utils.Ptr(uuid.New()))

	t.Run("partial update", func(t *testing.T) {
		updated, err := svc.Update(ctx, admin, &models.EmployeeUpdate{
			ID:       employee.ID,
			FullName: utils.Ptr("Ana Souza"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana Souza", updated.FullName)
		assert.Equal(t, employee.Email, updated.Email)
		require.NotNil(t, updated.ManagerID)
		assert.Equal(t, managerUser, *updated.ManagerID)
		assert.Equal(t, []audit.Action{audit.ActionUpdateEmployee}, recorder.Actions())
	})

	t.Run("clear manager", func(t *testing.T) {
		updated, err := svc.Update(ctx, admin, &models.EmployeeUpdate{
			ID:        employee.ID,
			ManagerID: utils.Ptr[*uuid.UUID](nil),
		})
		require.NoError(t, err)
		assert.Nil(t, updated.ManagerID)
	})

	t.Run("non-admin denied", func(t *testing.T) {
		manager := models.Identity{ID: managerUser, Role: models.RoleManager}
		_, err := svc.Update(ctx, manager, &models.EmployeeUpdate{ID: employee.ID})
		assert.ErrorIs(t, err, e.ErrUnauthorized)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, &models.EmployeeUpdate{})
		assert.ErrorIs(t, err, e.ErrBusinessRule)
	})

	t.Run("unknown employee", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, &models.EmployeeUpdate{ID: uuid.New()})
		assert.ErrorIs(t, err, e.ErrNotFound)
	})
}

func TestDeactivateEmployee(t *testing.T) {
	svc, repo, recorder := setupEmployeeService(t)
	ctx := context.Background()
	admin := models.Identity{ID: uuid.New(), Role: models.RoleAdmin}

	employee := seedEmployee(t, repo, "Ana Silva", nil, utils.Ptr(uuid.New()))

	require.NoError(t, svc.Deactivate(ctx, admin, employee.ID))

	// Soft delete: the record survives for history, only the flag flips.
	got, err := repo.GetEmployee(ctx, employee.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	employees, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, employees)

	assert.Equal(t, []audit.Action{audit.ActionDeleteEmployee}, recorder.Actions())

	t.Run("non-admin denied", func(t *testing.T) {
		err := svc.Deactivate(ctx, models.Identity{ID: uuid.New(), Role: models.RoleCollaborator}, employee.ID)
		assert.ErrorIs(t, err, e.ErrUnauthorized)
	})

	t.Run("unknown employee", func(t *testing.T) {
		err := svc.Deactivate(ctx, admin, uuid.New())
		assert.ErrorIs(t, err, e.ErrNotFound)
	})
}
