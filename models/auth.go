package models

import "time"

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleMesero   UserRole = "mesero"
	RoleCocina   UserRole = "cocina"
	RoleDelivery UserRole = "delivery"
	RoleJefe     UserRole = "jefe"
)

// AllRoles lists every role the system knows about.
var AllRoles = []UserRole{RoleMesero, RoleCocina, RoleDelivery, RoleJefe}

// ValidRole reports whether r is one of the four known roles.
func ValidRole(r UserRole) bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RolePassword is the shared secret for one role. Bumping ChangedAt
// invalidates every token issued for the role before that instant.
type RolePassword struct {
	Role      UserRole  `json:"role" gorm:"primaryKey"`
	Hash      string    `json:"-" gorm:"not null"`
	ChangedAt time.Time `json:"changed_at"`
}

// Broadcast is the single most-recent announcement from the jefe.
// Clients consume it at most once per distinct timestamp.
type Broadcast struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"not null"`
	Timestamp time.Time `json:"timestamp"`
}
