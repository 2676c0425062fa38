package model

import "time"

// Role identifies what a user may do in the allotment workflow.
type Role string

const (
	RoleStudent Role = "student"
	RoleWarden  Role = "warden"
	RoleAdmin   Role = "admin"
)

// User represents a registered student, warden or admin.
type User struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	BITSID        string    `gorm:"column:bits_id;uniqueIndex;size:32;not null" json:"bits_id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:128;not null" json:"email"`
	ContactNumber string    `gorm:"size:32" json:"contact_number"`
	Role          Role      `gorm:"size:16;not null" json:"role"`
	RegisteredAt  time.Time `gorm:"not null" json:"registered_at"`

	// For students: where they are alloted. For wardens: the hostel they run.
	HostelName *string `gorm:"size:128;index" json:"hostel_name"`
	RoomNumber *string `gorm:"size:32" json:"room_number"`
}
