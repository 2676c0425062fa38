package allocation

import (
	"time"

	"hostel-allotment-backend/internal/model"
)

// The request lifecycle:
//
//	hostel_status: pending -> assigned | rejected
//	room_status:   not_applicable -> pending -> assigned | rejected
//
// room_status leaves not_applicable only when a hostel is assigned.
// A request is terminal once both statuses are non-pending; no transition
// is ever legal from a terminal request.

// newRequest builds a freshly submitted request in its initial state.
func newRequest(bitsID string, preferences []string, roomType model.RoomType, now time.Time) *model.AllocationRequest {
	return &model.AllocationRequest{
		BITSID:             bitsID,
		HostelPreferences:  preferences,
		RoomTypePreference: roomType,
		AppliedAt:          now,
		HostelStatus:       model.HostelStatusPending,
		RoomStatus:         model.RoomStatusNotApplicable,
	}
}

// transitionHostelAssigned moves a hostel-pending request to assigned and
// opens the room-pending phase for the hostel's warden.
func transitionHostelAssigned(req *model.AllocationRequest, hostelName string) error {
	if req.HostelStatus != model.HostelStatusPending {
		return ErrRequestNotPending
	}
	req.HostelStatus = model.HostelStatusAssigned
	req.AllotedHostel = &hostelName
	req.RoomStatus = model.RoomStatusPending
	return nil
}

// transitionHostelRejected closes a hostel-pending request. Terminal.
func transitionHostelRejected(req *model.AllocationRequest) error {
	if req.HostelStatus != model.HostelStatusPending {
		return ErrRequestNotPending
	}
	req.HostelStatus = model.HostelStatusRejected
	return nil
}

// transitionRoomAssigned records the room decision. The caller is
// responsible for the capacity reservation; this only validates the
// request's state.
func transitionRoomAssigned(req *model.AllocationRequest, roomNumber string) error {
	if req.HostelStatus != model.HostelStatusAssigned || req.RoomStatus != model.RoomStatusPending {
		return ErrRequestNotPending
	}
	req.RoomStatus = model.RoomStatusAssigned
	req.AllotedRoom = &roomNumber
	return nil
}

// transitionRoomRejected closes a room-pending request. Terminal.
func transitionRoomRejected(req *model.AllocationRequest) error {
	if req.HostelStatus != model.HostelStatusAssigned || req.RoomStatus != model.RoomStatusPending {
		return ErrRequestNotPending
	}
	req.RoomStatus = model.RoomStatusRejected
	return nil
}
