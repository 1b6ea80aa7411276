package models

import (
	"time"

	"github.com/gocql/gocql"
)

type ShippingAddress struct {
	ID           gocql.UUID `json:"id"`
	UserID       string     `json:"user_id"`
	FullName     string     `json:"full_name" binding:"required"`
	Phone        string     `json:"phone" binding:"required,len=10,numeric"`
	AddressLine1 string     `json:"address_line1" binding:"required"`
	AddressLine2 string     `json:"address_line2,omitempty"`
	City         string     `json:"city" binding:"required"`
	State        string     `json:"state" binding:"required"`
	PinCode      string     `json:"pin_code" binding:"required,len=6,numeric"`
	Country      string     `json:"country"`
	IsDefault    bool       `json:"is_default"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}
