package usecase

import "github.com/poruchai/poruchai/internal/domain/model"

// Authorizer decides which callers may administer orders.
type Authorizer interface {
	CanManageOrders(u *model.User) bool
}

// RoleAuthorizer grants administration to accounts carrying the admin role.
type RoleAuthorizer struct{}

// NewRoleAuthorizer constructs RoleAuthorizer.
func NewRoleAuthorizer() RoleAuthorizer {
	return RoleAuthorizer{}
}

func (RoleAuthorizer) CanManageOrders(u *model.User) bool {
	return u != nil && u.Role == model.RoleAdmin
}
