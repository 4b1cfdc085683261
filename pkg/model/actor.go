package model

import "staybook/pkg/config"

// Actor identifies the caller on whose behalf an operation runs. Identity
// arrives pre-authenticated from the gateway; only ownership checks happen
// here.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == config.RoleAdmin
}

// CanManage reports whether the actor may act on a resource owned by ownerID.
func (a Actor) CanManage(ownerID string) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
