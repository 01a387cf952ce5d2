package authz

import (
	"testing"

	"github.com/fieldcrew/maintenance-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	tech := &domain.Actor{ID: uuid.New(), Role: domain.RoleTechnician}
	mgr := &domain.Actor{ID: uuid.New(), Role: domain.RoleManager}

	tests := []struct {
		op      Operation
		actor   *domain.Actor
		wantErr error
	}{
		{OpListTasks, tech, nil},
		{OpListTasks, mgr, nil},
		{OpGetTask, tech, nil},
		{OpGetTask, mgr, nil},
		{OpCreateTask, tech, nil},
		{OpCreateTask, mgr, ErrForbidden},
		{OpUpdateTask, tech, nil},
		{OpUpdateTask, mgr, ErrForbidden},
		{OpDeleteTask, tech, ErrForbidden},
		{OpDeleteTask, mgr, nil},
		{OpPerformTask, tech, nil},
		{OpPerformTask, mgr, ErrForbidden},
		{OpPerformTask, nil, ErrUnauthenticated},
	}

	for _, tc := range tests {
		name := string(tc.op) + "/"
		if tc.actor != nil {
			name += string(tc.actor.Role)
		} else {
			name += "anonymous"
		}
		t.Run(name, func(t *testing.T) {
			err := Authorize(tc.actor, tc.op)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestAuthorize_UnlistedOperation(t *testing.T) {
	assert.NoError(t, Authorize(&domain.Actor{Role: domain.RoleTechnician}, "reports.export"))
	assert.ErrorIs(t, Authorize(nil, "reports.export"), ErrUnauthenticated)
	assert.Nil(t, AllowedRoles("reports.export"))
}

func TestAllowedRolesReturnsCopy(t *testing.T) {
	roles := AllowedRoles(OpDeleteTask)
	assert.Equal(t, []domain.Role{domain.RoleManager}, roles)

	roles[0] = domain.RoleTechnician
	assert.ErrorIs(t, Authorize(&domain.Actor{Role: domain.RoleTechnician}, OpDeleteTask), ErrForbidden)
}
