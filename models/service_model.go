package models

import (
	"github.com/dheerajgaurgithub/swachhcare/money"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service is a catalog entry: deep cleaning, laundry pickup, car wash, ...
type Service struct {
	ID              uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	Name            string      `gorm:"size:100;not null;unique" json:"name"`
	Category        string      `gorm:"size:20;not null" json:"category"`
	Description     *string     `gorm:"type:text" json:"description"`
	BasePrice       money.Money `gorm:"embedded;embeddedPrefix:base_price_" json:"base_price"`
	DurationMinutes int         `gorm:"not null;default:60" json:"duration_minutes"`
	Active          bool        `gorm:"default:true" json:"active"`

	AddOns []ServiceAddOn `gorm:"foreignkey:ServiceID" json:"add_ons,omitempty"`
}

type ServiceAddOn struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID uuid.UUID   `gorm:"not null" json:"-"`
	Name      string      `gorm:"size:100;not null" json:"name"`
	Price     money.Money `gorm:"embedded;embeddedPrefix:price_" json:"price"`
	Active    bool        `gorm:"default:true" json:"active"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (a *ServiceAddOn) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
