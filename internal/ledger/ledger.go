// Package ledger maintains the occupancy counters for hostels and rooms
// and the warden-per-hostel assignment. Every mutation is a single guarded
// UPDATE whose WHERE clause re-checks the precondition, so two concurrent
// reservations against the same row serialize at the database and can
// never both consume the last slot.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hostel-allotment-backend/internal/model"
)

var (
	// ErrCapacityExceeded means a reservation would push occupancy outside
	// [0, capacity]. The delta is never applied.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrHostelNotFound means the named hostel does not exist.
	ErrHostelNotFound = errors.New("hostel not found")

	// ErrRoomNotFound means the room does not exist within the hostel.
	ErrRoomNotFound = errors.New("room not found")

	// ErrWardenAssigned means the hostel already has a different warden.
	ErrWardenAssigned = errors.New("hostel already has a warden")

	// ErrWardenNotAssigned means the given warden is not assigned to the
	// hostel.
	ErrWardenNotAssigned = errors.New("warden not assigned to hostel")
)

// Ledger performs occupancy and warden mutations against a database
// handle. Construct one per transaction to make its mutations atomic with
// the caller's other writes.
type Ledger struct {
	db *gorm.DB
}

// New returns a Ledger operating on db, which may be a transaction.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ReserveRoom adds delta to the room's occupancy if the result stays
// within [0, capacity]. On failure nothing is applied.
func (l *Ledger) ReserveRoom(ctx context.Context, hostelName, roomNumber string, delta int) error {
	res := l.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("hostel_name = ? AND room_number = ?", hostelName, roomNumber).
		Where("current_occupancy + ? >= 0 AND current_occupancy + ? <= capacity", delta, delta).
		UpdateColumn("current_occupancy", gorm.Expr("current_occupancy + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("room reservation update failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := l.db.WithContext(ctx).Model(&model.Room{}).
			Where("hostel_name = ? AND room_number = ?", hostelName, roomNumber).
			Count(&count).Error; err != nil {
			return fmt.Errorf("room lookup failed: %w", err)
		}
		if count == 0 {
			return ErrRoomNotFound
		}
		return ErrCapacityExceeded
	}
	return nil
}

// ReserveHostel adds delta to the hostel's occupancy if the result stays
// within [0, capacity]. On failure nothing is applied.
func (l *Ledger) ReserveHostel(ctx context.Context, hostelName string, delta int) error {
	res := l.db.WithContext(ctx).
		Model(&model.Hostel{}).
		Where("name = ?", hostelName).
		Where("current_occupancy + ? >= 0 AND current_occupancy + ? <= capacity", delta, delta).
		UpdateColumn("current_occupancy", gorm.Expr("current_occupancy + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("hostel reservation update failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := l.db.WithContext(ctx).Model(&model.Hostel{}).
			Where("name = ?", hostelName).
			Count(&count).Error; err != nil {
			return fmt.Errorf("hostel lookup failed: %w", err)
		}
		if count == 0 {
			return ErrHostelNotFound
		}
		return ErrCapacityExceeded
	}
	return nil
}

// AssignWarden sets the hostel's warden. Re-assigning the same warden is
// idempotent; a different incumbent fails with ErrWardenAssigned. The
// warden's own hostel reference is stamped in the same call.
func (l *Ledger) AssignWarden(ctx context.Context, hostelName string, warden *model.User) error {
	res := l.db.WithContext(ctx).
		Model(&model.Hostel{}).
		Where("name = ?", hostelName).
		Where("warden_email IS NULL OR warden_email = ?", warden.Email).
		UpdateColumn("warden_email", warden.Email)
	if res.Error != nil {
		return fmt.Errorf("warden assignment update failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := l.db.WithContext(ctx).Model(&model.Hostel{}).
			Where("name = ?", hostelName).
			Count(&count).Error; err != nil {
			return fmt.Errorf("hostel lookup failed: %w", err)
		}
		if count == 0 {
			return ErrHostelNotFound
		}
		return ErrWardenAssigned
	}

	if err := l.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", warden.Email).
		Update("hostel_name", hostelName).Error; err != nil {
		return fmt.Errorf("stamping warden's hostel failed: %w", err)
	}
	return nil
}

// RemoveWarden clears the hostel's warden reference if, and only if, the
// given warden currently holds it.
func (l *Ledger) RemoveWarden(ctx context.Context, hostelName string, warden *model.User) error {
	res := l.db.WithContext(ctx).
		Model(&model.Hostel{}).
		Where("name = ? AND warden_email = ?", hostelName, warden.Email).
		Update("warden_email", nil)
	if res.Error != nil {
		return fmt.Errorf("warden removal update failed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := l.db.WithContext(ctx).Model(&model.Hostel{}).
			Where("name = ?", hostelName).
			Count(&count).Error; err != nil {
			return fmt.Errorf("hostel lookup failed: %w", err)
		}
		if count == 0 {
			return ErrHostelNotFound
		}
		return ErrWardenNotAssigned
	}

	if err := l.db.WithContext(ctx).
		Model(&model.User{}).
		Where("email = ?", warden.Email).
		Update("hostel_name", nil).Error; err != nil {
		return fmt.Errorf("clearing warden's hostel failed: %w", err)
	}
	return nil
}
