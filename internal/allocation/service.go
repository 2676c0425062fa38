// Package allocation drives a student's request from submission through
// hostel assignment, room assignment, rejection or closure. Every mutation
// runs as one database transaction combining the actor scope check, the
// state-machine transition and the capacity-ledger reservation, so a
// failure at any step leaves both the request and the occupancy counters
// untouched.
package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"hostel-allotment-backend/internal/ledger"
	"hostel-allotment-backend/internal/model"
	"hostel-allotment-backend/internal/store"
)

// Notifier receives a message for a student after a decision commits.
type Notifier interface {
	Dispatch(bitsID, message string)
}

// Service is the assignment resolver: it orchestrates one logical
// transition per call and reports typed errors. It performs no retries;
// callers decide whether to resubmit.
type Service struct {
	store    store.Store
	notifier Notifier // may be nil
}

// NewService creates a resolver over the given store. notifier may be nil
// when decision notifications are not wanted (tests, CLI use).
func NewService(s store.Store, notifier Notifier) *Service {
	return &Service{store: s, notifier: notifier}
}

// SubmitRequest opens a new allocation request for the student. A student
// with an active (non-terminal) request may not submit another; a student
// whose previous request closed — including by rejection — may.
func (s *Service) SubmitRequest(ctx context.Context, bitsID string, preferences []string, roomType model.RoomType) (*model.AllocationRequest, error) {
	if strings.TrimSpace(bitsID) == "" {
		return nil, fmt.Errorf("%w: bits_id is required", ErrInvalidInput)
	}
	if len(preferences) == 0 {
		return nil, fmt.Errorf("%w: at least one hostel preference is required", ErrInvalidInput)
	}
	if !roomType.Valid() {
		return nil, fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, roomType)
	}

	var req *model.AllocationRequest
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		student, err := tx.GetUserByBITSID(ctx, bitsID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: student %q", ErrUserNotFound, bitsID)
		}
		if err != nil {
			return err
		}
		if student.Role != model.RoleStudent {
			return fmt.Errorf("%w: only students submit requests", ErrScopeViolation)
		}

		active, err := tx.HasActiveRequest(ctx, bitsID)
		if err != nil {
			return err
		}
		if active {
			return ErrDuplicateActiveRequest
		}

		req = newRequest(bitsID, preferences, roomType, time.Now().UTC())
		if err := tx.CreateRequest(ctx, req); err != nil {
			// The partial unique index catches a concurrent submit that
			// slipped past the count above.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateActiveRequest
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// AssignHostel commits the admin decision HOSTEL_PENDING -> HOSTEL_ASSIGNED.
// It does not touch occupancy; capacity is consumed only when a room is
// assigned.
func (s *Service) AssignHostel(ctx context.Context, requestID int64, hostelName, actingAdminID string) (*model.AllocationRequest, error) {
	var req *model.AllocationRequest
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := s.requireAdmin(ctx, tx, actingAdminID); err != nil {
			return err
		}

		var err error
		req, err = s.getRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}

		if _, err := tx.GetHostel(ctx, hostelName); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %q", ledger.ErrHostelNotFound, hostelName)
			}
			return err
		}

		fromHostel, fromRoom := req.HostelStatus, req.RoomStatus
		if err := transitionHostelAssigned(req, hostelName); err != nil {
			return err
		}
		if err := s.persistTransition(ctx, tx, req, fromHostel, fromRoom); err != nil {
			return err
		}
		return tx.SetStudentAllotment(ctx, req.BITSID, req.AllotedHostel, nil)
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// RejectHostel commits the admin decision HOSTEL_PENDING -> HOSTEL_REJECTED.
// Terminal; no ledger effect.
func (s *Service) RejectHostel(ctx context.Context, requestID int64, actingAdminID string) (*model.AllocationRequest, error) {
	var req *model.AllocationRequest
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if err := s.requireAdmin(ctx, tx, actingAdminID); err != nil {
			return err
		}

		var err error
		req, err = s.getRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		fromHostel, fromRoom := req.HostelStatus, req.RoomStatus
		if err := transitionHostelRejected(req); err != nil {
			return err
		}
		return s.persistTransition(ctx, tx, req, fromHostel, fromRoom)
	})
	if err != nil {
		return nil, err
	}
	s.notify(req.BITSID, "Your hostel request has been rejected.")
	return req, nil
}

// AssignRoom commits the warden decision ROOM_PENDING -> ROOM_ASSIGNED.
// The room must belong to the request's alloted hostel, match the
// student's room-type preference, and have spare capacity. The room and
// hostel reservations, the request update and the student's profile update
// commit atomically.
func (s *Service) AssignRoom(ctx context.Context, requestID int64, roomNumber, actingWardenID string) (*model.AllocationRequest, error) {
	var req *model.AllocationRequest
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		req, err = s.getRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := s.requireOwningWarden(ctx, tx, actingWardenID, req); err != nil {
			return err
		}

		room, err := tx.GetRoom(ctx, *req.AllotedHostel, roomNumber)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %q in hostel %q", ledger.ErrRoomNotFound, roomNumber, *req.AllotedHostel)
		}
		if err != nil {
			return err
		}
		if room.Type != req.RoomTypePreference {
			return fmt.Errorf("%w: room is %q, preference is %q", ErrTypeMismatch, room.Type, req.RoomTypePreference)
		}

		led := ledger.New(tx.DB())
		if err := led.ReserveRoom(ctx, room.HostelName, room.RoomNumber, 1); err != nil {
			return err
		}
		if err := led.ReserveHostel(ctx, room.HostelName, 1); err != nil {
			return err
		}

		fromHostel, fromRoom := req.HostelStatus, req.RoomStatus
		if err := transitionRoomAssigned(req, roomNumber); err != nil {
			return err
		}
		if err := s.persistTransition(ctx, tx, req, fromHostel, fromRoom); err != nil {
			return err
		}
		return tx.SetStudentAllotment(ctx, req.BITSID, req.AllotedHostel, req.AllotedRoom)
	})
	if err != nil {
		return nil, err
	}
	s.notify(req.BITSID, fmt.Sprintf("Room %s in %s has been assigned to you.", roomNumber, *req.AllotedHostel))
	return req, nil
}

// RejectRoom commits the warden decision ROOM_PENDING -> ROOM_REJECTED.
// Terminal; no ledger effect.
func (s *Service) RejectRoom(ctx context.Context, requestID int64, actingWardenID string) (*model.AllocationRequest, error) {
	var req *model.AllocationRequest
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		req, err = s.getRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := s.requireOwningWarden(ctx, tx, actingWardenID, req); err != nil {
			return err
		}
		fromHostel, fromRoom := req.HostelStatus, req.RoomStatus
		if err := transitionRoomRejected(req); err != nil {
			return err
		}
		return s.persistTransition(ctx, tx, req, fromHostel, fromRoom)
	})
	if err != nil {
		return nil, err
	}
	s.notify(req.BITSID, "Your room request has been rejected.")
	return req, nil
}

// AssignWarden puts the warden (looked up by email) in charge of the
// hostel. Fails if a different warden already holds it.
func (s *Service) AssignWarden(ctx context.Context, hostelName, wardenEmail, actingAdminID string) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if err := s.requireAdmin(ctx, tx, actingAdminID); err != nil {
			return err
		}
		warden, err := s.getWarden(ctx, tx, wardenEmail)
		if err != nil {
			return err
		}
		return ledger.New(tx.DB()).AssignWarden(ctx, hostelName, warden)
	})
}

// RemoveWarden clears the warden from the hostel. Fails if that warden is
// not the one assigned.
func (s *Service) RemoveWarden(ctx context.Context, hostelName, wardenEmail, actingAdminID string) error {
	return s.store.Transaction(ctx, func(tx store.Store) error {
		if err := s.requireAdmin(ctx, tx, actingAdminID); err != nil {
			return err
		}
		warden, err := s.getWarden(ctx, tx, wardenEmail)
		if err != nil {
			return err
		}
		return ledger.New(tx.DB()).RemoveWarden(ctx, hostelName, warden)
	})
}

// ListPendingAdmin returns requests awaiting a hostel decision.
func (s *Service) ListPendingAdmin(ctx context.Context) ([]model.AllocationRequest, error) {
	return s.store.ListPendingAdmin(ctx)
}

// ListClosedAdmin returns requests with a hostel decision made.
func (s *Service) ListClosedAdmin(ctx context.Context) ([]model.AllocationRequest, error) {
	return s.store.ListClosedAdmin(ctx)
}

// ListPendingWarden returns room-pending requests alloted to the hostel.
func (s *Service) ListPendingWarden(ctx context.Context, hostelName string) ([]model.AllocationRequest, error) {
	return s.store.ListPendingWarden(ctx, hostelName)
}

// ListClosedWarden returns room-decided requests alloted to the hostel.
func (s *Service) ListClosedWarden(ctx context.Context, hostelName string) ([]model.AllocationRequest, error) {
	return s.store.ListClosedWarden(ctx, hostelName)
}

func (s *Service) getRequest(ctx context.Context, tx store.Store, id int64) (*model.AllocationRequest, error) {
	req, err := tx.GetRequest(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: id %d", ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// persistTransition writes the transition through the store's guarded
// UPDATE. Zero rows affected means another decision moved the request
// between our read and this write; the transaction aborts with
// ErrRequestNotPending and any reservation made alongside rolls back.
func (s *Service) persistTransition(ctx context.Context, tx store.Store, req *model.AllocationRequest, fromHostel model.HostelStatus, fromRoom model.RoomStatus) error {
	err := tx.TransitionRequest(ctx, req, fromHostel, fromRoom)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRequestNotPending
	}
	return err
}

func (s *Service) requireAdmin(ctx context.Context, tx store.Store, actingAdminID string) error {
	actor, err := tx.GetUserByBITSID(ctx, actingAdminID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: acting admin %q", ErrUserNotFound, actingAdminID)
	}
	if err != nil {
		return err
	}
	if actor.Role != model.RoleAdmin {
		return fmt.Errorf("%w: %q is not an admin", ErrScopeViolation, actingAdminID)
	}
	return nil
}

// requireOwningWarden verifies the actor is a warden whose hostel matches
// the request's alloted hostel. Checked before any ledger attempt.
func (s *Service) requireOwningWarden(ctx context.Context, tx store.Store, actingWardenID string, req *model.AllocationRequest) error {
	actor, err := tx.GetUserByBITSID(ctx, actingWardenID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: acting warden %q", ErrUserNotFound, actingWardenID)
	}
	if err != nil {
		return err
	}
	if actor.Role != model.RoleWarden {
		return fmt.Errorf("%w: %q is not a warden", ErrScopeViolation, actingWardenID)
	}
	if req.AllotedHostel == nil {
		return ErrRequestNotPending
	}
	if actor.HostelName == nil || *actor.HostelName != *req.AllotedHostel {
		return fmt.Errorf("%w: request is alloted to %q", ErrScopeViolation, *req.AllotedHostel)
	}
	return nil
}

func (s *Service) getWarden(ctx context.Context, tx store.Store, email string) (*model.User, error) {
	warden, err := tx.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: warden %q", ErrUserNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	if warden.Role != model.RoleWarden {
		return nil, fmt.Errorf("%w: %q is not a warden", ErrInvalidInput, email)
	}
	return warden, nil
}

func (s *Service) notify(bitsID, message string) {
	if s.notifier != nil {
		s.notifier.Dispatch(bitsID, message)
	}
}
