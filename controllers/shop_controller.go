package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fitquest/fitquest/middleware"
	"github.com/fitquest/fitquest/services"
	"github.com/fitquest/fitquest/utils"
)

// ShopController serves the coupon shop.
type ShopController struct {
	service *services.ShopService
}

func NewShopController(db *gorm.DB) *ShopController {
	return &ShopController{service: services.NewShopService(db)}
}

// ListProducts returns available products, optionally category filtered.
func (sc *ShopController) ListProducts(ctx *gin.Context) {
	products, err := sc.service.ListProducts(ctx.Query("category"))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, products)
}

// Purchase redeems points for one product and returns the coupon code.
func (sc *ShopController) Purchase(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid product id")
		return
	}

	userID := middleware.UserID(ctx)
	order, err := sc.service.Purchase(userID, uint(productID))
	switch err {
	case nil:
		utils.Success(ctx, gin.H{"success": true, "qr_code": order.QRCode})
	case services.ErrProductNotFound:
		utils.Error(ctx, http.StatusNotFound, "product not found")
	case services.ErrInsufficientPoints:
		utils.Error(ctx, http.StatusBadRequest, "insufficient points")
	default:
		utils.Sugar.Errorf("purchase failed for user %d product %d: %v", userID, productID, err)
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// ListOrders returns the user's coupon orders.
func (sc *ShopController) ListOrders(ctx *gin.Context) {
	orders, err := sc.service.ListOrders(middleware.UserID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.Success(ctx, orders)
}
