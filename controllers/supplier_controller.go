package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/supplyline/supplyline-api/config"
	"github.com/supplyline/supplyline-api/models"
)

// ListSuppliers handles GET /api/v1/suppliers - lists active suppliers for
// vendors to browse, with an optional ?search= filter on name and email
func ListSuppliers(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.Role != models.RoleVendor {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only vendors can browse suppliers")
		return
	}

	db := config.GetDB()
	query := db.Where("role = ? AND is_active = ?", models.RoleSupplier, true).
		Order("name ASC")

	if search := c.Query("search"); search != "" {
		// LOWER on both sides keeps the match case-insensitive under
		// Postgres as well as SQLite
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var suppliers []models.User
	if err := query.Find(&suppliers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch suppliers")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    suppliers,
	})
}

// GetSupplier handles GET /api/v1/suppliers/:id - returns one active supplier
func GetSupplier(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if user.Role != models.RoleVendor {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only vendors can browse suppliers")
		return
	}

	supplierID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var supplier models.User
	if err := db.Where("id = ? AND role = ? AND is_active = ?",
		supplierID, models.RoleSupplier, true).
		First(&supplier).Error; err != nil {
		respondError(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    supplier,
	})
}
