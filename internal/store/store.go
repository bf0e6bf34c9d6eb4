package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/models"
)

// ErrEventNotFound is returned when an event ID does not exist.
var ErrEventNotFound = errors.New("event not found")

// Store owns the relational records backing estimation: events,
// check-ins and the append-only estimate log.
type Store struct {
	db *gorm.DB
}

// New connects to Postgres and migrates the schema.
func New(cfg *config.Config) (*Store, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Msg("Database connection established")
	return NewWithDB(db)
}

// NewWithDB wraps an existing gorm connection (tests use an in-memory
// sqlite DB here).
func NewWithDB(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(
		&models.Event{},
		&models.Checkin{},
		&models.CrowdEstimate{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

// CreateEvent persists a new event, assigning an ID when absent.
func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(event).Error
}

// GetEvent loads one event by ID.
func (s *Store) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// UpdateEventArea overwrites the event's known area.
func (s *Store) UpdateEventArea(ctx context.Context, eventID string, areaSquareMeters float64) error {
	return s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("area_square_meters", areaSquareMeters).Error
}

// UpdateEstimatedAttendees overwrites the event's cached attendee
// figure with the latest estimate. Last write wins; the value is
// advisory, the estimate log is the full record.
func (s *Store) UpdateEstimatedAttendees(ctx context.Context, eventID string, count int) error {
	return s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("estimated_attendees", count).Error
}

// Checkin activates a presence confirmation for the user, reactivating
// an earlier check-in if one exists.
func (s *Store) Checkin(ctx context.Context, eventID, userID string) (*models.Checkin, error) {
	var checkin models.Checkin
	err := s.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&checkin).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		checkin = models.Checkin{EventID: eventID, UserID: userID, IsActive: true}
		if err := s.db.WithContext(ctx).Create(&checkin).Error; err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		checkin.IsActive = true
		if err := s.db.WithContext(ctx).Save(&checkin).Error; err != nil {
			return nil, err
		}
	}

	return &checkin, nil
}

// Checkout deactivates the user's check-in for the event.
func (s *Store) Checkout(ctx context.Context, eventID, userID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Checkin{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Update("is_active", false).Error
}

// CountActiveCheckins counts currently-active check-ins for an event.
func (s *Store) CountActiveCheckins(ctx context.Context, eventID string) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Checkin{}).
		Where("event_id = ? AND is_active = ?", eventID, true).
		Count(&count).Error
	return int(count), err
}

// CreateEstimate appends one row to the estimate log.
func (s *Store) CreateEstimate(ctx context.Context, estimate *models.CrowdEstimate) error {
	if estimate.ID == "" {
		estimate.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(estimate).Error
}

// ListEstimates returns the most recent estimate rows for an event,
// newest first.
func (s *Store) ListEstimates(ctx context.Context, eventID string, limit int) ([]models.CrowdEstimate, error) {
	if limit <= 0 {
		limit = 20
	}
	var estimates []models.CrowdEstimate
	err := s.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at DESC").
		Limit(limit).
		Find(&estimates).Error
	return estimates, err
}
