package vendors

import "time"

// Vendor is a florist business and the root of all data ownership.
type Vendor struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:190;not null" json:"name"`
	Slug      string    `gorm:"column:slug;size:190;uniqueIndex;not null" json:"slug"`
	Email     string    `gorm:"column:email;size:190;not null" json:"email"`
	Phone     string    `gorm:"column:phone;size:32" json:"phone"`
	City      string    `gorm:"column:city;size:190" json:"city"`
	LogoURL   string    `gorm:"column:logo_url;size:500" json:"logoUrl"`
	About     string    `gorm:"column:about;type:text" json:"about"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName provides the explicit table binding for GORM.
func (Vendor) TableName() string {
	return "vendors"
}
