package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Roles a user can hold
const (
	RoleStudent     = "student"     // Complaint reporter
	RoleWarden      = "warden"      // Hostel warden staff
	RoleMaintenance = "maintenance" // Maintenance staff
)

// ValidRole reports whether role is one of the known roles
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleWarden || role == RoleMaintenance
}

// User Model
type User struct {
	ID           string              `gorm:"primaryKey;size:36" json:"id"`                             // Primary key (UUID)
	Name         string              `gorm:"not null" json:"name"`                                     // Display name
	Email        string              `gorm:"uniqueIndex;not null" json:"email"`                        // Unique email
	PasswordHash string              `gorm:"not null" json:"-"`                                        // Hashed password, never serialized
	Role         string              `gorm:"default:student" json:"role"`                              // Role: student, warden or maintenance
	Student      *StudentProfile     `gorm:"constraint:OnDelete:CASCADE" json:"student,omitempty"`     // Student-only fields
	Warden       *WardenProfile      `gorm:"constraint:OnDelete:CASCADE" json:"warden,omitempty"`      // Warden-only fields
	Maintenance  *MaintenanceProfile `gorm:"constraint:OnDelete:CASCADE" json:"maintenance,omitempty"` // Maintenance-only fields
	CreatedAt    time.Time           `json:"createdAt"`                                                // Creation timestamp
	UpdatedAt    time.Time           `json:"updatedAt"`                                                // Last update timestamp
}

// BeforeCreate assigns a UUID if the ID is not already set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String() // Generate a new UUID
	}
	return nil
}

// StudentProfile holds the fields only a student account carries
type StudentProfile struct {
	ID         uint   `gorm:"primaryKey" json:"-"`          // Primary key
	UserID     string `gorm:"uniqueIndex;size:36" json:"-"` // Owning user
	RollNumber string `json:"rollNumber,omitempty"`         // Institute roll number
	RoomNumber string `json:"roomNumber,omitempty"`         // Hostel room
	Building   string `json:"building,omitempty"`           // Hostel building
}

// WardenProfile holds the fields only a warden account carries
type WardenProfile struct {
	ID               uint   `gorm:"primaryKey" json:"-"`          // Primary key
	UserID           string `gorm:"uniqueIndex;size:36" json:"-"` // Owning user
	AssignedBuilding string `json:"assignedBuilding,omitempty"`   // Building under this warden
}

// MaintenanceProfile holds the fields only a maintenance account carries
type MaintenanceProfile struct {
	ID         uint   `gorm:"primaryKey" json:"-"`          // Primary key
	UserID     string `gorm:"uniqueIndex;size:36" json:"-"` // Owning user
	Profession string `json:"profession,omitempty"`         // Trade, e.g. electrician
}
