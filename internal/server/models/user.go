// Package models defines server-side data models persisted in the database.
package models

import "time"

// RoleUser is assigned to every account at registration. RoleAdmin is
// only granted out of band via the bootstrap-admin tool.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is a registered account. Username is unique and immutable.
type User struct {
	ID           string
	Username     string
	PasswordHash []byte
	// Roles is never empty; new accounts get [RoleUser].
	Roles     []string
	CreatedAt time.Time
}
