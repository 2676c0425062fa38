package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-allotment-backend/config"
	"hostel-allotment-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// Migrate applies the schema for all allotment entities.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Hostel{},
		&model.Room{},
		&model.AllocationRequest{},
		&model.PushSubscription{},
	); err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	// One active (non-closed) request per student, enforced at the
	// database so concurrent submissions cannot both land. Partial unique
	// indexes work on both postgres and sqlite.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_one_active_request
		ON allocation_requests (bits_id)
		WHERE hostel_status = 'pending' OR room_status = 'pending'`).Error; err != nil {
		return fmt.Errorf("creating active-request index failed: %w", err)
	}
	return nil
}

// Seed creates the configured hostels and rooms if they do not already
// exist. Hostel capacity and room count are derived from the seeded rooms,
// so re-running against a populated database is a no-op.
func Seed(db *gorm.DB, seed *config.SeedConfig) error {
	for _, sh := range seed.Hostels {
		var count int64
		if err := db.Model(&model.Hostel{}).Where("name = ?", sh.Name).Count(&count).Error; err != nil {
			return fmt.Errorf("seed lookup for hostel %q failed: %w", sh.Name, err)
		}
		if count > 0 {
			continue
		}

		capacity := 0
		rooms := make([]model.Room, 0, len(sh.Rooms))
		for _, sr := range sh.Rooms {
			rt := model.RoomType(sr.Type)
			if !rt.Valid() {
				return fmt.Errorf("seed hostel %q: room %q has unknown type %q", sh.Name, sr.RoomNumber, sr.Type)
			}
			capacity += rt.Capacity()
			rooms = append(rooms, model.Room{
				HostelName: sh.Name,
				RoomNumber: sr.RoomNumber,
				Type:       rt,
				Capacity:   rt.Capacity(),
			})
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			hostel := model.Hostel{
				Name:       sh.Name,
				Location:   sh.Location,
				TotalRooms: len(sh.Rooms),
				Capacity:   capacity,
			}
			if err := tx.Create(&hostel).Error; err != nil {
				return err
			}
			if len(rooms) == 0 {
				return nil
			}
			return tx.Create(&rooms).Error
		})
		if err != nil {
			return fmt.Errorf("seeding hostel %q failed: %w", sh.Name, err)
		}
		log.Printf("Seeded hostel %q with %d rooms", sh.Name, len(rooms))
	}
	return nil
}
