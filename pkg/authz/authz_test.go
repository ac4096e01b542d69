package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

func TestRequire(t *testing.T) {
	assert.NoError(t, Require(RoleAdmin, Management))
	assert.NoError(t, Require(RoleManager, Management))

	err := Require(RoleCustomer, Management)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	err = Require(RoleEmployee, Management)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	assert.NoError(t, Require(RoleCustomer, Everyone))
}

func TestRequireSelfOrStaff(t *testing.T) {
	assert.NoError(t, RequireSelfOrStaff(Actor{ID: 7, Role: RoleCustomer}, 7))
	assert.ErrorIs(t, RequireSelfOrStaff(Actor{ID: 7, Role: RoleCustomer}, 8), apperrors.ErrForbidden)
	assert.NoError(t, RequireSelfOrStaff(Actor{ID: 1, Role: RoleEmployee}, 8))
	assert.ErrorIs(t, RequireSelfOrStaff(Actor{ID: 1, Role: "GUEST"}, 1), apperrors.ErrForbidden)
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" manager ")
	assert.True(t, ok)
	assert.Equal(t, RoleManager, r)

	_, ok = ParseRole("root")
	assert.False(t, ok)
}
