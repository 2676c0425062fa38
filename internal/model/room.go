package model

import "time"

// RoomType classifies a room; capacity is implied by the type.
type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeTriple RoomType = "triple"
)

// Capacity returns the number of beds a room of this type holds.
func (t RoomType) Capacity() int {
	switch t {
	case RoomTypeSingle:
		return 1
	case RoomTypeDouble:
		return 2
	case RoomTypeTriple:
		return 3
	}
	return 0
}

// Valid reports whether t is a recognized room type.
func (t RoomType) Valid() bool {
	return t.Capacity() > 0
}

// Room represents one room within a hostel, identified by
// (hostel_name, room_number).
type Room struct {
	ID               int64    `gorm:"primaryKey" json:"id"`
	HostelName       string   `gorm:"size:128;not null;uniqueIndex:idx_hostel_room" json:"hostel_name"`
	RoomNumber       string   `gorm:"size:32;not null;uniqueIndex:idx_hostel_room" json:"room_number"`
	Type             RoomType `gorm:"size:16;not null" json:"type"`
	Capacity         int      `gorm:"not null" json:"capacity"`
	CurrentOccupancy int      `gorm:"not null;default:0" json:"current_occupancy"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
