package model

import "time"

// Hostel represents a hostel building.
//
// CurrentOccupancy always equals the sum of the occupancy of the hostel's
// rooms; it only moves together with a room-level reservation.
type Hostel struct {
	ID               int64   `gorm:"primaryKey" json:"id"`
	Name             string  `gorm:"uniqueIndex;size:128;not null" json:"hostel_name"`
	Location         string  `gorm:"size:128" json:"location"`
	TotalRooms       int     `gorm:"not null" json:"total_rooms"`
	Capacity         int     `gorm:"not null" json:"capacity"`
	CurrentOccupancy int     `gorm:"not null;default:0" json:"current_occupancy"`
	WardenEmail      *string `gorm:"size:128" json:"warden_email"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Rooms []Room `gorm:"foreignKey:HostelName;references:Name" json:"rooms,omitempty"`
}
