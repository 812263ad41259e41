package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/andriev/inventory-api/internal/models"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer Publisher
	Indexer  Indexer
}

// canModify is the single write-authorization rule for products: admins may
// touch anything, everyone else only what they own.
func canModify(role models.Role, callerID, ownerID uint) bool {
	return role == models.RoleAdmin || callerID == ownerID
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	callerID, role := callerIdentity(c)

	q := h.DB.Preload("User")
	if role != models.RoleAdmin {
		q = q.Where("user_id = ?", callerID)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	var product models.Product
	if err := h.DB.Where("uuid = ?", c.Param("id")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMsg(c, http.StatusNotFound, "Data not found")
		}
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	var full models.Product
	if err := h.DB.Preload("User").First(&full, product.ID).Error; err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, toProductResponse(full))
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	callerID, _ := callerIdentity(c)

	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	product := models.Product{
		Name:   req.Name,
		Price:  req.Price,
		UserID: callerID,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(callerID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.index(c, product)

	return jsonMsg(c, http.StatusCreated, "Product Created Successfully")
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	callerID, role := callerIdentity(c)

	var product models.Product
	if err := h.DB.Where("uuid = ?", c.Param("id")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMsg(c, http.StatusNotFound, "Data not found")
		}
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	if !canModify(role, callerID, product.UserID) {
		return jsonMsg(c, http.StatusForbidden, "Access Denied")
	}

	var req struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonMsg(c, http.StatusBadRequest, err.Error())
	}

	product.Name = req.Name
	product.Price = req.Price
	if err := h.DB.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]any{"name": req.Name, "price": req.Price}).Error; err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(callerID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	h.index(c, product)

	return jsonMsg(c, http.StatusOK, "Product updated successfully")
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	callerID, role := callerIdentity(c)

	var product models.Product
	if err := h.DB.Where("uuid = ?", c.Param("id")).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonMsg(c, http.StatusNotFound, "Data not found")
		}
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	if !canModify(role, callerID, product.UserID) {
		return jsonMsg(c, http.StatusForbidden, "Access Denied")
	}

	if err := h.DB.Delete(&models.Product{}, product.ID).Error; err != nil {
		return jsonMsg(c, http.StatusInternalServerError, err.Error())
	}

	publish(c, h.Producer, "product_events", fmt.Sprint(callerID), map[string]any{
		"type":      "product_deleted",
		"productID": product.ID,
	})
	if h.Indexer != nil {
		if err := h.Indexer.DeleteProduct(c.Request().Context(), product.UUID); err != nil {
			c.Logger().Errorf("search deindex error: %v", err)
		}
	}

	return jsonMsg(c, http.StatusOK, "Product deleted successfully")
}

func (h *ProductHandler) index(c echo.Context, p models.Product) {
	if h.Indexer == nil {
		return
	}
	if err := h.Indexer.IndexProduct(c.Request().Context(), p); err != nil {
		c.Logger().Errorf("search index error: %v", err)
	}
}
