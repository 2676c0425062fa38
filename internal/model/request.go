package model

import "time"

// HostelStatus tracks the admin-side (hostel granularity) decision on a
// request.
type HostelStatus string

const (
	HostelStatusPending  HostelStatus = "pending"
	HostelStatusAssigned HostelStatus = "assigned"
	HostelStatusRejected HostelStatus = "rejected"
)

// RoomStatus tracks the warden-side (room granularity) decision. It stays
// not_applicable until a hostel has been assigned.
type RoomStatus string

const (
	RoomStatusNotApplicable RoomStatus = "not_applicable"
	RoomStatusPending       RoomStatus = "pending"
	RoomStatusAssigned      RoomStatus = "assigned"
	RoomStatusRejected      RoomStatus = "rejected"
)

// AllocationRequest is one student's application for hostel and room
// placement. A student holds at most one active request at a time.
type AllocationRequest struct {
	ID                 int64        `gorm:"primaryKey" json:"id"`
	BITSID             string       `gorm:"column:bits_id;size:32;not null;index" json:"bits_id"`
	HostelPreferences  []string     `gorm:"serializer:json" json:"hostel_preference"`
	RoomTypePreference RoomType     `gorm:"size:16;not null" json:"room_type_preference"`
	AppliedAt          time.Time    `gorm:"not null" json:"application_date"`
	HostelStatus       HostelStatus `gorm:"size:16;not null;index" json:"hostel_status"`
	RoomStatus         RoomStatus   `gorm:"size:16;not null;index" json:"room_status"`
	AllotedHostel      *string      `gorm:"size:128;index" json:"alloted_hostel"`
	AllotedRoom        *string      `gorm:"size:32" json:"alloted_room"`
}

// Closed reports whether the request is terminal: both statuses have
// reached a non-pending value. A closed request is immutable.
func (r *AllocationRequest) Closed() bool {
	return r.HostelStatus != HostelStatusPending && r.RoomStatus != RoomStatusPending
}
