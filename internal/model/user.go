package model

import "time"

// Role enumerates the authorization roles a user can hold.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an authenticated identity in the system.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string    `json:"first_name" gorm:"size:255;index"`
	LastName     string    `json:"last_name" gorm:"size:255;index"`
	Role         Role      `json:"role" gorm:"size:20;default:'USER';not null"`
	Active       bool      `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserPatch carries a partial update. Only non-nil fields are applied.
type UserPatch struct {
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	Role         *Role
	Active       *bool
}

// Changes returns the column assignments for the set fields.
func (p UserPatch) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if p.Email != nil {
		changes["email"] = *p.Email
	}
	if p.PasswordHash != nil {
		changes["password_hash"] = *p.PasswordHash
	}
	if p.FirstName != nil {
		changes["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		changes["last_name"] = *p.LastName
	}
	if p.Role != nil {
		changes["role"] = *p.Role
	}
	if p.Active != nil {
		changes["active"] = *p.Active
	}
	return changes
}
