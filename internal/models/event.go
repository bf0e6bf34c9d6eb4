package models

import (
	"time"
)

// EstimateMethod identifies which algorithm produced a crowd estimate.
type EstimateMethod string

const (
	MethodCheckinCount EstimateMethod = "checkin_count"
	MethodDensityCalc  EstimateMethod = "density_calc"
	MethodManual       EstimateMethod = "manual"
	MethodAIVision     EstimateMethod = "ai_vision"
)

// DensityTier classifies crowd density for the area-based estimate.
type DensityTier string

const (
	DensityLow      DensityTier = "low"
	DensityMedium   DensityTier = "medium"
	DensityHigh     DensityTier = "high"
	DensityVeryHigh DensityTier = "very_high"
)

// Event is a physical gathering being monitored. EstimatedAttendees is
// a cached copy of the latest estimate and is the authoritative value
// for display; the append-only estimate log keeps the full record.
type Event struct {
	ID                 string    `gorm:"primaryKey;size:36" json:"id"`
	Name               string    `gorm:"not null" json:"name"`
	AreaSquareMeters   float64   `json:"areaSquareMeters"`
	EstimatedAttendees int       `json:"estimatedAttendees"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Checkin is a user-submitted presence confirmation at an event. Only
// active check-ins count toward estimation.
type Checkin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   string    `gorm:"size:36;index:idx_checkins_event_active" json:"eventId"`
	UserID    string    `gorm:"size:36" json:"userId"`
	IsActive  bool      `gorm:"index:idx_checkins_event_active" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CrowdEstimate is one row of the append-only estimate log. Rows are
// never mutated; later estimates supersede earlier ones.
type CrowdEstimate struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	EventID           string         `gorm:"size:36;index" json:"eventId"`
	Method            EstimateMethod `gorm:"size:16;not null" json:"method"`
	EstimatedCount    int            `gorm:"not null" json:"estimatedCount"`
	Confidence        float64        `json:"confidence"`
	AreaSquareMeters  float64        `json:"areaSquareMeters,omitempty"`
	DensityPerSqMeter float64        `json:"densityPerSqMeter,omitempty"`
	ActiveCheckins    int            `json:"activeCheckins"`
	AdjustmentFactor  float64        `json:"adjustmentFactor"`
	Notes             string         `json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}
