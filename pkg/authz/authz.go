// Package authz 基于角色的访问控制
//
// 每个用例声明自己需要的角色集合(RequiredRoles)，执行前调用一次Require，
// 不在业务代码里散落角色判断。
package authz

import (
	"strings"

	apperrors "github.com/xiebiao/electromart/pkg/errors"
)

// Role 操作者角色
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
	RoleCustomer Role = "CUSTOMER"
	RoleSystem   Role = "SYSTEM" // 内部任务
)

// ParseRole 解析角色（大小写不敏感）
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee, RoleCustomer, RoleSystem:
		return r, true
	default:
		return "", false
	}
}

// IsStaff 是否为员工角色（可代客户操作）
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleEmployee || r == RoleSystem
}

// Actor 已认证的操作者
type Actor struct {
	ID   uint
	Role Role
}

// RoleSet 角色集合
type RoleSet map[Role]struct{}

// Roles 构建角色集合
func Roles(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// Has 是否包含角色
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// 常用角色集合
var (
	Everyone   = Roles(RoleAdmin, RoleManager, RoleEmployee, RoleCustomer, RoleSystem)
	Staff      = Roles(RoleAdmin, RoleManager, RoleEmployee, RoleSystem)
	Management = Roles(RoleAdmin, RoleManager)
)

// Require 校验角色，不满足返回ErrForbidden
func Require(role Role, required RoleSet) error {
	if !required.Has(role) {
		return apperrors.ErrForbidden.WithField("role", string(role))
	}
	return nil
}

// RequireSelfOrStaff 客户只能操作自己的数据，员工可以代客户操作
func RequireSelfOrStaff(actor Actor, customerID uint) error {
	if actor.Role.IsStaff() {
		return nil
	}
	if actor.Role == RoleCustomer && actor.ID == customerID {
		return nil
	}
	return apperrors.ErrForbidden
}
