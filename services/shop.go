package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/utils"
)

// couponInsertRetries bounds regeneration when a generated code collides
// with the unique index on coupon_orders.qr_code.
const couponInsertRetries = 3

// ShopService handles the points ledger side of coupon purchases.
type ShopService struct {
	db *gorm.DB
}

func NewShopService(db *gorm.DB) *ShopService {
	return &ShopService{db: db}
}

// Purchase deducts the product's cost and creates the coupon order as one
// transaction. The decrement is conditional on the balance so concurrent
// spends can never drive points negative, and a failed order insert rolls
// the deduction back.
func (s *ShopService) Purchase(userID, productID uint) (*models.CouponOrder, error) {
	var product models.ShopProduct
	if err := s.db.Where("id = ? AND is_available = ?", productID, true).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	var order models.CouponOrder
	err := s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Progression{}).
			Where("user_id = ? AND points >= ?", userID, product.PointsCost).
			Update("points", gorm.Expr("points - ?", product.PointsCost))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		for attempt := 0; attempt < couponInsertRetries; attempt++ {
			order = models.CouponOrder{
				UserID:      userID,
				ProductID:   product.ID,
				PointsSpent: product.PointsCost,
				QRCode:      utils.NewCouponCode(),
			}
			err := tx.Create(&order).Error
			if err == nil {
				return nil
			}
			if !IsDuplicateKey(err) {
				return err
			}
		}
		return errors.New("coupon code generation exhausted retries")
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListProducts returns available products, optionally filtered by category.
func (s *ShopService) ListProducts(category string) ([]models.ShopProduct, error) {
	q := s.db.Where("is_available = ?", true)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var products []models.ShopProduct
	if err := q.Order("points_cost ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// OrderWithProduct is an order listing row joined with product and partner names.
type OrderWithProduct struct {
	models.CouponOrder
	ProductName string `json:"product_name"`
	PartnerName string `json:"partner_name"`
}

// ListOrders returns the user's coupon orders, newest first.
func (s *ShopService) ListOrders(userID uint) ([]OrderWithProduct, error) {
	var rows []OrderWithProduct
	err := s.db.Model(&models.CouponOrder{}).
		Select("coupon_orders.*, shop_products.name AS product_name, COALESCE(shop_partners.name, '') AS partner_name").
		Joins("JOIN shop_products ON shop_products.id = coupon_orders.product_id").
		Joins("LEFT JOIN shop_partners ON shop_partners.id = shop_products.partner_id").
		Where("coupon_orders.user_id = ?", userID).
		Order("coupon_orders.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
