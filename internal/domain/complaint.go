package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID generation for primary keys
	"gorm.io/gorm"           // GORM ORM library
)

// Complaint statuses
const (
	StatusOpen       = "open"        // Initial status
	StatusInProgress = "in_progress" // Picked up by staff
	StatusResolved   = "resolved"    // Terminal: fixed
	StatusRejected   = "rejected"    // Terminal: withdrawn or declined
)

// Complaint Model
type Complaint struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`          // Primary key (UUID)
	Title       string    `gorm:"not null" json:"title"`                 // Short summary
	Description string    `gorm:"not null" json:"description"`           // Full description
	Category    string    `gorm:"not null" json:"category"`              // e.g. Electricity, Plumbing
	StudentID   string    `gorm:"index;size:36;not null" json:"student"` // Owning student, immutable after creation
	AssignedTo  *string   `gorm:"size:36" json:"assignedTo,omitempty"`   // Optional staff reference
	Status      string    `gorm:"default:open;index" json:"status"`      // open, in_progress, resolved, rejected
	Building    string    `json:"building,omitempty"`                    // Hostel building
	RoomNumber  string    `json:"roomNumber,omitempty"`                  // Hostel room
	CreatedAt   time.Time `json:"createdAt"`                             // Creation timestamp
	UpdatedAt   time.Time `json:"updatedAt"`                             // Last update timestamp
}

// BeforeCreate assigns a UUID if the ID is not already set
func (co *Complaint) BeforeCreate(tx *gorm.DB) error {
	if co.ID == "" {
		co.ID = uuid.New().String() // Generate a new UUID
	}
	return nil
}
