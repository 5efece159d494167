package policy

import (
	"testing"

	"github.com/eltonsantos/vacationmanager/internal/pkg/utils"
	"github.com/eltonsantos/vacationmanager/internal/vacation/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanPerform(t *testing.T) {
	operations := []Operation{OpRead, OpCreate, OpUpdate, OpCancel, OpDecide}
	relationships := []Relationship{Self, Manages, Unrelated}

	t.Run("admin can do anything", func(t *testing.T) {
		for _, op := range operations {
			for _, rel := range relationships {
				assert.True(t, CanPerform(models.RoleAdmin, rel, op), "admin %s/%s", op, rel)
			}
		}
	})

	tests := []struct {
		role    models.Role
		rel     Relationship
		op      Operation
		allowed bool
	}{
		{models.RoleManager, Self, OpRead, true},
		{models.RoleManager, Manages, OpRead, true},
		{models.RoleManager, Unrelated, OpRead, false},
		{models.RoleManager, Self, OpCreate, true},
		{models.RoleManager, Manages, OpCreate, false},
		{models.RoleManager, Manages, OpUpdate, false},
		{models.RoleManager, Manages, OpCancel, false},
		{models.RoleManager, Manages, OpDecide, true},
		{models.RoleManager, Self, OpDecide, false},
		{models.RoleManager, Unrelated, OpDecide, false},

		{models.RoleCollaborator, Self, OpRead, true},
		{models.RoleCollaborator, Manages, OpRead, false},
		{models.RoleCollaborator, Unrelated, OpRead, false},
		{models.RoleCollaborator, Self, OpCreate, true},
		{models.RoleCollaborator, Unrelated, OpCreate, false},
		{models.RoleCollaborator, Self, OpUpdate, true},
		{models.RoleCollaborator, Self, OpCancel, true},
		{models.RoleCollaborator, Self, OpDecide, false},
		{models.RoleCollaborator, Manages, OpDecide, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"_"+string(tt.rel)+"_"+string(tt.op), func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanPerform(tt.role, tt.rel, tt.op))
		})
	}
}

func TestRelationshipTo(t *testing.T) {
	callerID := uuid.New()
	caller := models.Identity{ID: callerID, Role: models.RoleManager}

	t.Run("self wins over manages", func(t *testing.T) {
		// A manager whose employee record reports to themselves is still
		// the owner of that record.
		emp := &models.Employee{
			UserID:    utils.Ptr(callerID),
			ManagerID: utils.Ptr(callerID),
		}
		assert.Equal(t, Self, RelationshipTo(caller, emp))
	})

	t.Run("manages", func(t *testing.T) {
		emp := &models.Employee{
			UserID:    utils.Ptr(uuid.New()),
			ManagerID: utils.Ptr(callerID),
		}
		assert.Equal(t, Manages, RelationshipTo(caller, emp))
	})

	t.Run("unrelated", func(t *testing.T) {
		emp := &models.Employee{
			UserID:    utils.Ptr(uuid.New()),
			ManagerID: utils.Ptr(uuid.New()),
		}
		assert.Equal(t, Unrelated, RelationshipTo(caller, emp))
	})

	t.Run("nil references are unrelated", func(t *testing.T) {
		assert.Equal(t, Unrelated, RelationshipTo(caller, &models.Employee{}))
	})
}
