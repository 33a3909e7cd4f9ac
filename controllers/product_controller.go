package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/supplyline/supplyline-api/config"
	"github.com/supplyline/supplyline-api/models"
	"github.com/supplyline/supplyline-api/services"
	"github.com/supplyline/supplyline-api/utils"
)

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	Price       float64 `json:"price" binding:"gte=0"`
	InStock     *bool   `json:"in_stock"`
}

// UpdateProductRequest represents the request body for updating a product
type UpdateProductRequest struct {
	Name        string   `json:"name" binding:"omitempty"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Unit        *string  `json:"unit"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	InStock     *bool    `json:"in_stock"`
}

// requireSupplier enforces that only suppliers manage catalogs
func requireSupplier(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	if user.Role != models.RoleSupplier {
		respondError(c, http.StatusForbidden, "FORBIDDEN", "Only suppliers can manage products")
		return nil, false
	}
	return user, true
}

// withImageURL fills in the presigned image URL for a product, if it has one
func withImageURL(product *models.Product) {
	if product.ImageS3Key == nil || *product.ImageS3Key == "" {
		return
	}
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	url, err := imageService.GetImageURL(*product.ImageS3Key)
	if err != nil {
		log.Printf("Failed to generate image URL for product %d: %v", product.ID, err)
		return
	}
	product.ImageURL = &url
}

// ListProducts handles GET /api/v1/products - a supplier's own catalog, or a
// chosen supplier's catalog for vendors via ?supplier_id=
func ListProducts(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	supplierID := user.ID
	if user.Role == models.RoleVendor {
		raw := c.Query("supplier_id")
		if raw == "" {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "supplier_id query parameter is required")
			return
		}
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid supplier_id parameter")
			return
		}
		supplierID = uint(parsed)
	}

	db := config.GetDB()
	var products []models.Product
	if err := db.Where("supplier_id = ?", supplierID).
		Order("name ASC").
		Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to fetch products")
		return
	}

	for i := range products {
		withImageURL(&products[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// CreateProduct handles POST /api/v1/products - adds a product to the caller's
// catalog (suppliers only)
func CreateProduct(c *gin.Context) {
	user, ok := requireSupplier(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}

	product := models.Product{
		SupplierID:  user.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Unit:        req.Unit,
		Price:       req.Price,
		InStock:     inStock,
	}

	db := config.GetDB()
	if err := db.Create(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id - updates one of the caller's
// products
func UpdateProduct(c *gin.Context) {
	user, ok := requireSupplier(c)
	if !ok {
		return
	}

	productID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Where("id = ? AND supplier_id = ?", productID, user.ID).
		First(&product).Error; err != nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request data")
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.InStock != nil {
		updates["in_stock"] = *req.InStock
	}

	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product")
			return
		}
	}

	withImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// DeleteProduct handles DELETE /api/v1/products/:id - removes one of the
// caller's products and cleans up its stored image
func DeleteProduct(c *gin.Context) {
	user, ok := requireSupplier(c)
	if !ok {
		return
	}

	productID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Where("id = ? AND supplier_id = ?", productID, user.ID).
		First(&product).Error; err != nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	if product.ImageS3Key != nil && *product.ImageS3Key != "" {
		if imageService := services.GetImageService(); imageService != nil {
			if err := imageService.DeleteImage(*product.ImageS3Key); err != nil {
				// The row can still go away; the orphaned object is logged
				log.Printf("Failed to delete image for product %d: %v", product.ID, err)
			}
		}
	}

	if err := db.Delete(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// UploadProductImage handles POST /api/v1/products/:id/image - attaches a PNG
// image to one of the caller's products
func UploadProductImage(c *gin.Context) {
	user, ok := requireSupplier(c)
	if !ok {
		return
	}

	productID, ok := idParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Where("id = ? AND supplier_id = ?", productID, user.ID).
		First(&product).Error; err != nil {
		respondError(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found")
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Image file is required")
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		respondError(c, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Image storage is not configured")
		return
	}

	imageKey, err := imageService.UploadImage(fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
			return
		}
		respondError(c, http.StatusInternalServerError, "UPLOAD_ERROR", "Failed to upload image")
		return
	}

	// Replace any previous image
	oldKey := product.ImageS3Key
	if err := db.Model(&product).Update("image_s3_key", imageKey).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to save image reference")
		return
	}
	if oldKey != nil && *oldKey != "" && *oldKey != imageKey {
		if err := imageService.DeleteImage(*oldKey); err != nil {
			log.Printf("Failed to delete replaced image %s: %v", *oldKey, err)
		}
	}

	product.ImageS3Key = &imageKey
	withImageURL(&product)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Image uploaded successfully",
		"data":    product,
	})
}
