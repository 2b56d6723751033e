package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type CapabilityTag string

const (
	CapabilityStore CapabilityTag = "store"
	CapabilityCafe  CapabilityTag = "cafe"
	CapabilityKiosk CapabilityTag = "kiosk"
)

// CapabilitySet is the closed set of capability tags attached to an
// outlet, stored as jsonb. Capability checks are set membership, never
// name or category substring matching.
type CapabilitySet []CapabilityTag

func (c CapabilitySet) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (c *CapabilitySet) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*c = nil
		return nil
	default:
		return fmt.Errorf("unsupported type %T for CapabilitySet", value)
	}
	return json.Unmarshal(data, c)
}

// Valid reports whether the tag belongs to the closed set.
func (t CapabilityTag) Valid() bool {
	switch t {
	case CapabilityStore, CapabilityCafe, CapabilityKiosk:
		return true
	}
	return false
}

// Has reports set membership.
func (c CapabilitySet) Has(tag CapabilityTag) bool {
	for _, t := range c {
		if t == tag {
			return true
		}
	}
	return false
}

// Outlet is a physical business location with its own manager, QR
// review token, feedback form, and rating aggregate.
type Outlet struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Address      string        `json:"address" gorm:"type:text"`
	Capabilities CapabilitySet `json:"capabilities" gorm:"type:jsonb" validate:"dive,capability_tag"`

	ManagerID *string `json:"manager_id" gorm:"size:100;index"`
	FormID    *uint   `json:"form_id" gorm:"index"`

	// QRToken resolves a scanned code to this outlet. Reissuing
	// overwrites it; the old token stops resolving.
	QRToken string `json:"qr_token" gorm:"size:64;uniqueIndex"`

	RatingAvg   float64 `json:"rating_avg" gorm:"default:0"`
	RatingCount int     `json:"rating_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Outlet) TableName() string {
	return "outlets"
}
