package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hostel-allotment-backend/internal/model"
)

// Store defines the persistence operations for the allotment entities.
// Single-record lookups return gorm.ErrRecordNotFound when nothing
// matches; callers translate that into their own typed errors.
type Store interface {
	// Transaction runs fn against a store bound to one database
	// transaction. Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// DB exposes the underlying handle so components with their own query
	// logic (the capacity ledger) can join this store's transaction.
	DB() *gorm.DB

	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByBITSID(ctx context.Context, bitsID string) (*model.User, error)
	ListWardens(ctx context.Context) ([]model.User, error)
	ListUnassignedWardens(ctx context.Context) ([]model.User, error)
	ListStudentsByHostel(ctx context.Context, hostelName string) ([]model.User, error)
	SetStudentAllotment(ctx context.Context, bitsID string, hostelName, roomNumber *string) error

	CreateHostel(ctx context.Context, hostel *model.Hostel) error
	GetHostel(ctx context.Context, name string) (*model.Hostel, error)
	ListHostels(ctx context.Context) ([]model.Hostel, error)
	ListAvailableHostels(ctx context.Context) ([]model.Hostel, error)

	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, hostelName, roomNumber string) (*model.Room, error)
	ListAvailableRooms(ctx context.Context, hostelName string) ([]model.Room, error)

	CreateRequest(ctx context.Context, req *model.AllocationRequest) error
	GetRequest(ctx context.Context, id int64) (*model.AllocationRequest, error)
	TransitionRequest(ctx context.Context, req *model.AllocationRequest, fromHostel model.HostelStatus, fromRoom model.RoomStatus) error
	HasActiveRequest(ctx context.Context, bitsID string) (bool, error)
	ListPendingAdmin(ctx context.Context) ([]model.AllocationRequest, error)
	ListClosedAdmin(ctx context.Context) ([]model.AllocationRequest, error)
	ListPendingWarden(ctx context.Context, hostelName string) ([]model.AllocationRequest, error)
	ListClosedWarden(ctx context.Context, hostelName string) ([]model.AllocationRequest, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// --- Users ---

func (s *gormStore) CreateUser(ctx context.Context, user *model.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %q: %w", user.BITSID, err)
	}
	return nil
}

func (s *gormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) GetUserByBITSID(ctx context.Context, bitsID string) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).Where("bits_id = ?", bitsID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) ListWardens(ctx context.Context) ([]model.User, error) {
	var wardens []model.User
	if err := s.db.WithContext(ctx).Where("role = ?", model.RoleWarden).Find(&wardens).Error; err != nil {
		return nil, fmt.Errorf("failed to list wardens: %w", err)
	}
	return wardens, nil
}

func (s *gormStore) ListUnassignedWardens(ctx context.Context) ([]model.User, error) {
	var wardens []model.User
	if err := s.db.WithContext(ctx).
		Where("role = ? AND hostel_name IS NULL", model.RoleWarden).
		Find(&wardens).Error; err != nil {
		return nil, fmt.Errorf("failed to list unassigned wardens: %w", err)
	}
	return wardens, nil
}

func (s *gormStore) ListStudentsByHostel(ctx context.Context, hostelName string) ([]model.User, error) {
	var students []model.User
	if err := s.db.WithContext(ctx).
		Where("role = ? AND hostel_name = ?", model.RoleStudent, hostelName).
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to list students for hostel %q: %w", hostelName, err)
	}
	return students, nil
}

func (s *gormStore) SetStudentAllotment(ctx context.Context, bitsID string, hostelName, roomNumber *string) error {
	res := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("bits_id = ?", bitsID).
		Updates(map[string]any{"hostel_name": hostelName, "room_number": roomNumber})
	if res.Error != nil {
		return fmt.Errorf("failed to update allotment for student %q: %w", bitsID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// --- Hostels ---

func (s *gormStore) CreateHostel(ctx context.Context, hostel *model.Hostel) error {
	if err := s.db.WithContext(ctx).Create(hostel).Error; err != nil {
		return fmt.Errorf("failed to create hostel %q: %w", hostel.Name, err)
	}
	return nil
}

func (s *gormStore) GetHostel(ctx context.Context, name string) (*model.Hostel, error) {
	var hostel model.Hostel
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&hostel).Error; err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (s *gormStore) ListHostels(ctx context.Context) ([]model.Hostel, error) {
	var hostels []model.Hostel
	if err := s.db.WithContext(ctx).Order("name").Find(&hostels).Error; err != nil {
		return nil, fmt.Errorf("failed to list hostels: %w", err)
	}
	return hostels, nil
}

func (s *gormStore) ListAvailableHostels(ctx context.Context) ([]model.Hostel, error) {
	var hostels []model.Hostel
	if err := s.db.WithContext(ctx).
		Where("current_occupancy < capacity").
		Order("name").
		Find(&hostels).Error; err != nil {
		return nil, fmt.Errorf("failed to list available hostels: %w", err)
	}
	return hostels, nil
}

// --- Rooms ---

// CreateRoom inserts the room and folds its beds into the parent hostel's
// total_rooms and capacity in one transaction.
func (s *gormStore) CreateRoom(ctx context.Context, room *model.Room) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hostel model.Hostel
		if err := tx.Where("name = ?", room.HostelName).First(&hostel).Error; err != nil {
			return err
		}
		if err := tx.Create(room).Error; err != nil {
			return fmt.Errorf("failed to create room %q/%q: %w", room.HostelName, room.RoomNumber, err)
		}
		return tx.Model(&model.Hostel{}).
			Where("name = ?", room.HostelName).
			Updates(map[string]any{
				"total_rooms": gorm.Expr("total_rooms + 1"),
				"capacity":    gorm.Expr("capacity + ?", room.Capacity),
			}).Error
	})
}

func (s *gormStore) GetRoom(ctx context.Context, hostelName, roomNumber string) (*model.Room, error) {
	var room model.Room
	if err := s.db.WithContext(ctx).
		Where("hostel_name = ? AND room_number = ?", hostelName, roomNumber).
		First(&room).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *gormStore) ListAvailableRooms(ctx context.Context, hostelName string) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).
		Where("hostel_name = ? AND current_occupancy < capacity", hostelName).
		Order("room_number").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list available rooms for hostel %q: %w", hostelName, err)
	}
	return rooms, nil
}

// --- Allocation requests ---

func (s *gormStore) CreateRequest(ctx context.Context, req *model.AllocationRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create request for %q: %w", req.BITSID, err)
	}
	return nil
}

func (s *gormStore) GetRequest(ctx context.Context, id int64) (*model.AllocationRequest, error) {
	var req model.AllocationRequest
	if err := s.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// TransitionRequest persists a status transition as a guarded UPDATE: the
// WHERE clause re-checks the statuses the transition started from, so a
// request that another decision already moved (a terminal one in
// particular) is never overwritten. Zero rows affected reports
// gorm.ErrRecordNotFound and writes nothing.
func (s *gormStore) TransitionRequest(ctx context.Context, req *model.AllocationRequest, fromHostel model.HostelStatus, fromRoom model.RoomStatus) error {
	res := s.db.WithContext(ctx).
		Model(&model.AllocationRequest{}).
		Where("id = ? AND hostel_status = ? AND room_status = ?", req.ID, fromHostel, fromRoom).
		Updates(map[string]any{
			"hostel_status":  req.HostelStatus,
			"room_status":    req.RoomStatus,
			"alloted_hostel": req.AllotedHostel,
			"alloted_room":   req.AllotedRoom,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to transition request %d: %w", req.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasActiveRequest reports whether the student holds a request that is not
// yet closed (either status still pending).
func (s *gormStore) HasActiveRequest(ctx context.Context, bitsID string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&model.AllocationRequest{}).
		Where("bits_id = ?", bitsID).
		Where("hostel_status = ? OR room_status = ?", model.HostelStatusPending, model.RoomStatusPending).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count active requests for %q: %w", bitsID, err)
	}
	return count > 0, nil
}

func (s *gormStore) ListPendingAdmin(ctx context.Context) ([]model.AllocationRequest, error) {
	var reqs []model.AllocationRequest
	if err := s.db.WithContext(ctx).
		Where("hostel_status = ?", model.HostelStatusPending).
		Order("applied_at").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending admin requests: %w", err)
	}
	return reqs, nil
}

func (s *gormStore) ListClosedAdmin(ctx context.Context) ([]model.AllocationRequest, error) {
	var reqs []model.AllocationRequest
	if err := s.db.WithContext(ctx).
		Where("hostel_status <> ?", model.HostelStatusPending).
		Order("applied_at").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list closed admin requests: %w", err)
	}
	return reqs, nil
}

func (s *gormStore) ListPendingWarden(ctx context.Context, hostelName string) ([]model.AllocationRequest, error) {
	var reqs []model.AllocationRequest
	if err := s.db.WithContext(ctx).
		Where("hostel_status = ? AND room_status = ? AND alloted_hostel = ?",
			model.HostelStatusAssigned, model.RoomStatusPending, hostelName).
		Order("applied_at").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending warden requests for %q: %w", hostelName, err)
	}
	return reqs, nil
}

func (s *gormStore) ListClosedWarden(ctx context.Context, hostelName string) ([]model.AllocationRequest, error) {
	var reqs []model.AllocationRequest
	if err := s.db.WithContext(ctx).
		Where("room_status IN ? AND alloted_hostel = ?",
			[]model.RoomStatus{model.RoomStatusAssigned, model.RoomStatusRejected}, hostelName).
		Order("applied_at").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list closed warden requests for %q: %w", hostelName, err)
	}
	return reqs, nil
}
