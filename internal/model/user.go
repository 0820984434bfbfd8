package model

import (
	"time"
)

// User holds the customer profile. Address lines are flattened into columns
// and reassembled into a nested object at the API boundary.
type User struct {
	ID           string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(128);not null" json:"name"`
	Email        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PhoneNumber  string    `gorm:"type:varchar(32);not null" json:"phoneNumber"`
	AddressLine1 string    `gorm:"type:varchar(256);not null" json:"addressLine1"`
	AddressLine2 string    `gorm:"type:varchar(256)" json:"addressLine2"`
	AddressLine3 string    `gorm:"type:varchar(256)" json:"addressLine3"`
	Town         string    `gorm:"type:varchar(128);not null" json:"town"`
	County       string    `gorm:"type:varchar(128);not null" json:"county"`
	Postcode     string    `gorm:"type:varchar(16);not null" json:"postcode"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdTimestamp"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedTimestamp"`
}

func (User) TableName() string {
	return "user"
}
