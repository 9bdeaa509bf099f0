package model

import (
	"time"

	"gorm.io/datatypes"
)

// Dashboard owns a set of widgets positioned over an uploaded schematic image.
type Dashboard struct {
	ID                 string    `gorm:"primaryKey;size:36"`
	Name               string    `gorm:"uniqueIndex;not null;size:200"`
	SchematicImagePath string    `gorm:"not null;size:500"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

// Widget is the persisted widget record. Position coordinates are fractions of
// the dashboard canvas in [0,1]; Width and Height are pixels, nil meaning the
// widget kind's default. Properties is the kind-specific JSON blob whose shape
// is governed solely by that kind's schema.
type Widget struct {
	ID          string         `gorm:"primaryKey;size:36"`
	DashboardID string         `gorm:"index;not null;size:36"`
	Type        string         `gorm:"not null;size:100"`
	PositionX   float64        `gorm:"not null"`
	PositionY   float64        `gorm:"not null"`
	Width       *int           `gorm:""`
	Height      *int           `gorm:""`
	Properties  datatypes.JSON `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
}
