package models

import "time"

// ShopPartner is the business backing one or more coupon products.
type ShopPartner struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	LogoURL   string    `gorm:"size:512" json:"logo_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShopProduct is catalog data redeemable for points.
type ShopProduct struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PartnerID   uint      `gorm:"index;not null" json:"partner_id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	PointsCost  int       `gorm:"not null" json:"points_cost"`
	Category    string    `gorm:"size:32" json:"category"`
	ImageURL    string    `gorm:"size:512" json:"image_url"`
	IsAvailable bool      `gorm:"default:true;index" json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CouponOrder records a redemption: the points spent and the generated
// code. Created atomically with the points deduction. The unique index on
// QRCode turns a generator collision into a retryable insert error.
type CouponOrder struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	ProductID   uint      `gorm:"index;not null" json:"product_id"`
	PointsSpent int       `gorm:"not null" json:"points_spent"`
	QRCode      string    `gorm:"column:qr_code;size:64;uniqueIndex;not null" json:"qr_code"`
	IsRedeemed  bool      `gorm:"default:false" json:"is_redeemed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
