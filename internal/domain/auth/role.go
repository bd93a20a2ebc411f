package auth

import "errors"

var ErrUnknownRole = errors.New("unknown role")

// Role is carried in the access token. Identity lives in a separate service;
// this one only needs to know who is booking and who owns vehicles.
type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
)

func NewRole(s string) (Role, error) {
	switch Role(s) {
	case RoleRenter, RoleOwner, RoleAdmin:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string {
	return string(r)
}
