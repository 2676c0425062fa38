package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"hostel-allotment-backend/internal/model"
)

func newTestStore(t *testing.T) (Store, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:store%d?mode=memory&cache=shared&_busy_timeout=5000", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Hostel{}, &model.Room{},
		&model.AllocationRequest{}, &model.PushSubscription{},
	))
	return NewGormStore(db), db
}

func TestCreateRoomFoldsIntoHostelTotals(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateHostel(ctx, &model.Hostel{Name: "Hostel A", Location: "East Wing"}))

	require.NoError(t, s.CreateRoom(ctx, &model.Room{
		HostelName: "Hostel A", RoomNumber: "101",
		Type: model.RoomTypeSingle, Capacity: 1,
	}))
	require.NoError(t, s.CreateRoom(ctx, &model.Room{
		HostelName: "Hostel A", RoomNumber: "102",
		Type: model.RoomTypeTriple, Capacity: 3,
	}))

	var hostel model.Hostel
	require.NoError(t, db.Where("name = ?", "Hostel A").First(&hostel).Error)
	assert.Equal(t, 2, hostel.TotalRooms)
	assert.Equal(t, 4, hostel.Capacity)

	// Unknown hostel refuses the room and leaves nothing behind.
	err := s.CreateRoom(ctx, &model.Room{HostelName: "Hostel Z", RoomNumber: "1", Type: model.RoomTypeSingle, Capacity: 1})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var count int64
	require.NoError(t, db.Model(&model.Room{}).Where("hostel_name = ?", "Hostel Z").Count(&count).Error)
	assert.Zero(t, count)
}

func TestHasActiveRequest(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	req := model.AllocationRequest{
		BITSID:             "2021A7PS001",
		HostelPreferences:  []string{"Hostel A"},
		RoomTypePreference: model.RoomTypeDouble,
		AppliedAt:          time.Now().UTC(),
		HostelStatus:       model.HostelStatusPending,
		RoomStatus:         model.RoomStatusNotApplicable,
	}
	require.NoError(t, s.CreateRequest(ctx, &req))

	active, err := s.HasActiveRequest(ctx, "2021A7PS001")
	require.NoError(t, err)
	assert.True(t, active)

	// Hostel assigned, room pending: still active.
	require.NoError(t, db.Model(&model.AllocationRequest{}).Where("id = ?", req.ID).
		Updates(map[string]any{"hostel_status": model.HostelStatusAssigned, "room_status": model.RoomStatusPending}).Error)
	active, err = s.HasActiveRequest(ctx, "2021A7PS001")
	require.NoError(t, err)
	assert.True(t, active)

	// Closed by room rejection: no longer active.
	require.NoError(t, db.Model(&model.AllocationRequest{}).Where("id = ?", req.ID).
		Update("room_status", model.RoomStatusRejected).Error)
	active, err = s.HasActiveRequest(ctx, "2021A7PS001")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = s.HasActiveRequest(ctx, "SOMEONE_ELSE")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRequestQueues(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	hostelA := "Hostel A"
	now := time.Now().UTC()
	mk := func(bits string, hs model.HostelStatus, rs model.RoomStatus, alloted *string) model.AllocationRequest {
		return model.AllocationRequest{
			BITSID: bits, HostelPreferences: []string{"Hostel A"},
			RoomTypePreference: model.RoomTypeSingle, AppliedAt: now,
			HostelStatus: hs, RoomStatus: rs, AllotedHostel: alloted,
		}
	}

	pending := mk("S1", model.HostelStatusPending, model.RoomStatusNotApplicable, nil)
	roomPending := mk("S2", model.HostelStatusAssigned, model.RoomStatusPending, &hostelA)
	roomDone := mk("S3", model.HostelStatusAssigned, model.RoomStatusAssigned, &hostelA)
	rejected := mk("S4", model.HostelStatusRejected, model.RoomStatusNotApplicable, nil)
	for _, r := range []*model.AllocationRequest{&pending, &roomPending, &roomDone, &rejected} {
		require.NoError(t, s.CreateRequest(ctx, r))
	}

	adminPending, err := s.ListPendingAdmin(ctx)
	require.NoError(t, err)
	require.Len(t, adminPending, 1)
	assert.Equal(t, "S1", adminPending[0].BITSID)

	adminClosed, err := s.ListClosedAdmin(ctx)
	require.NoError(t, err)
	assert.Len(t, adminClosed, 3)

	wardenPending, err := s.ListPendingWarden(ctx, "Hostel A")
	require.NoError(t, err)
	require.Len(t, wardenPending, 1)
	assert.Equal(t, "S2", wardenPending[0].BITSID)

	wardenClosed, err := s.ListClosedWarden(ctx, "Hostel A")
	require.NoError(t, err)
	require.Len(t, wardenClosed, 1)
	assert.Equal(t, "S3", wardenClosed[0].BITSID)

	// Preferences survive the JSON round trip through the column.
	got, err := s.GetRequest(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hostel A"}, got.HostelPreferences)
}

// Once a decision lands, a second decision still holding the pending
// snapshot must not overwrite it.
func TestTransitionRequestGuard(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	hostelA := "Hostel A"
	req := model.AllocationRequest{
		BITSID:             "2021A7PS001",
		HostelPreferences:  []string{"Hostel A"},
		RoomTypePreference: model.RoomTypeDouble,
		AppliedAt:          time.Now().UTC(),
		HostelStatus:       model.HostelStatusAssigned,
		RoomStatus:         model.RoomStatusPending,
		AllotedHostel:      &hostelA,
	}
	require.NoError(t, s.CreateRequest(ctx, &req))

	closed := req
	closed.RoomStatus = model.RoomStatusRejected
	require.NoError(t, s.TransitionRequest(ctx, &closed, model.HostelStatusAssigned, model.RoomStatusPending))

	// The competing write started from the same pending snapshot.
	room := "D12"
	stale := req
	stale.RoomStatus = model.RoomStatusAssigned
	stale.AllotedRoom = &room
	err := s.TransitionRequest(ctx, &stale, model.HostelStatusAssigned, model.RoomStatusPending)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	current, err := s.GetRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoomStatusRejected, current.RoomStatus)
	assert.Nil(t, current.AllotedRoom)
}

func TestAvailabilityQueries(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateHostel(ctx, &model.Hostel{Name: "Hostel A", Capacity: 2}))
	require.NoError(t, s.CreateHostel(ctx, &model.Hostel{Name: "Hostel B", Capacity: 1, CurrentOccupancy: 1}))
	require.NoError(t, db.Create(&model.Room{HostelName: "Hostel A", RoomNumber: "101", Type: model.RoomTypeSingle, Capacity: 1}).Error)
	require.NoError(t, db.Create(&model.Room{HostelName: "Hostel A", RoomNumber: "102", Type: model.RoomTypeSingle, Capacity: 1, CurrentOccupancy: 1}).Error)

	hostels, err := s.ListAvailableHostels(ctx)
	require.NoError(t, err)
	require.Len(t, hostels, 1)
	assert.Equal(t, "Hostel A", hostels[0].Name)

	rooms, err := s.ListAvailableRooms(ctx, "Hostel A")
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "101", rooms[0].RoomNumber)
}

func TestWardenQueries(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	hostelA := "Hostel A"
	now := time.Now().UTC()
	require.NoError(t, s.CreateUser(ctx, &model.User{BITSID: "W1", Name: "W1", Email: "w1@example.com", Role: model.RoleWarden, RegisteredAt: now, HostelName: &hostelA}))
	require.NoError(t, s.CreateUser(ctx, &model.User{BITSID: "W2", Name: "W2", Email: "w2@example.com", Role: model.RoleWarden, RegisteredAt: now}))
	require.NoError(t, s.CreateUser(ctx, &model.User{BITSID: "S1", Name: "S1", Email: "s1@example.com", Role: model.RoleStudent, RegisteredAt: now, HostelName: &hostelA}))

	wardens, err := s.ListWardens(ctx)
	require.NoError(t, err)
	assert.Len(t, wardens, 2)

	free, err := s.ListUnassignedWardens(ctx)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "W2", free[0].BITSID)

	students, err := s.ListStudentsByHostel(ctx, "Hostel A")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "S1", students[0].BITSID)
}

func TestTransactionRollback(t *testing.T) {
	s, db := newTestStore(t)
	ctx := context.Background()

	sentinel := fmt.Errorf("boom")
	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.CreateHostel(ctx, &model.Hostel{Name: "Hostel A"}); err != nil {
			return err
		}
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int64
	require.NoError(t, db.Model(&model.Hostel{}).Count(&count).Error)
	assert.Zero(t, count)
}
