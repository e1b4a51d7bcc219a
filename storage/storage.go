// Package storage keeps named save slots in a SQLite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var ErrSlotNotFound = errors.New("storage: save slot not found")

// SaveSlot is one persisted simulation snapshot
type SaveSlot struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Scenario  string
	Tick      int64
	SimTime   time.Duration
	Size      int
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store wraps the slot database
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the database at path and migrates the schema, empty path is in-memory
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open save database %q: %w", path, err)
	}
	if err := db.AutoMigrate(&SaveSlot{}); err != nil {
		return nil, fmt.Errorf("migrate save database: %w", err)
	}
	log.Debug().Str("path", dsn).Msg("save database ready")
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Put inserts the slot or replaces the one with the same name
func (s *Store) Put(ctx context.Context, slot *SaveSlot) error {
	slot.Size = len(slot.Data)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"scenario", "tick", "sim_time", "size", "data", "updated_at"}),
	}).Create(slot).Error
	if err != nil {
		return fmt.Errorf("put slot %q: %w", slot.Name, err)
	}
	s.log.Info().Str("slot", slot.Name).Int("bytes", len(slot.Data)).Msg("slot saved")
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (*SaveSlot, error) {
	var slot SaveSlot
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrSlotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get slot %q: %w", name, err)
	}
	return &slot, nil
}

// List returns slot metadata ordered by name, Data is left empty
func (s *Store) List(ctx context.Context) ([]SaveSlot, error) {
	var slots []SaveSlot
	err := s.db.WithContext(ctx).
		Select("id", "name", "scenario", "tick", "sim_time", "size", "created_at", "updated_at").
		Order("name").
		Find(&slots).Error
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res := s.db.WithContext(ctx).Where("name = ?", name).Delete(&SaveSlot{})
	if res.Error != nil {
		return fmt.Errorf("delete slot %q: %w", name, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrSlotNotFound, name)
	}
	s.log.Info().Str("slot", name).Msg("slot deleted")
	return nil
}
