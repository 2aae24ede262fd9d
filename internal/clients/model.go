package clients

import "time"

// Client is a prospective or active couple, created on first inquiry.
type Client struct {
	ID           uint      `gorm:"column:id;primaryKey" json:"id"`
	Name         string    `gorm:"column:name;size:190;not null" json:"name"`
	Email        string    `gorm:"column:email;size:190;uniqueIndex;not null" json:"email"`
	Phone        string    `gorm:"column:phone;size:32" json:"phone"`
	PasswordHash string    `gorm:"column:password_hash;size:190;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName provides the explicit table binding for GORM.
func (Client) TableName() string {
	return "clients"
}

// VendorClient links a client to a vendor. Upserted idempotently.
type VendorClient struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	VendorID  uint      `gorm:"column:vendor_id;not null;uniqueIndex:idx_vendor_client,priority:1" json:"vendorId"`
	ClientID  uint      `gorm:"column:client_id;not null;uniqueIndex:idx_vendor_client,priority:2" json:"clientId"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

// TableName provides the explicit table binding for GORM.
func (VendorClient) TableName() string {
	return "vendor_clients"
}
