package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/supplyline/supplyline-api/config"
	"github.com/supplyline/supplyline-api/models"
)

func TestListSuppliers(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	vendor := seedUser(t, db, "Vendor", models.RoleVendor)
	produce := seedUser(t, db, "Fresh Produce Co", models.RoleSupplier)
	seedUser(t, db, "Bulk Grains Ltd", models.RoleSupplier)

	inactive := seedUser(t, db, "Closed Down Inc", models.RoleSupplier)
	db.Model(inactive).Update("is_active", false)

	t.Run("vendor lists active suppliers", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/suppliers",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			ListSuppliers,
		)

		status, response := doJSON(t, router, http.MethodGet, "/suppliers", nil)
		assert.Equal(t, http.StatusOK, status)

		suppliers := response["data"].([]interface{})
		assert.Len(t, suppliers, 2)

		// Sorted by name, inactive supplier excluded
		first := suppliers[0].(map[string]interface{})
		assert.Equal(t, "Bulk Grains Ltd", first["name"])
	})

	t.Run("search filters by name", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/suppliers",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			ListSuppliers,
		)

		status, response := doJSON(t, router, http.MethodGet, "/suppliers?search=Produce", nil)
		assert.Equal(t, http.StatusOK, status)

		suppliers := response["data"].([]interface{})
		assert.Len(t, suppliers, 1)
		assert.Equal(t, produce.Name, suppliers[0].(map[string]interface{})["name"])
	})

	t.Run("search ignores case", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/suppliers",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			ListSuppliers,
		)

		status, response := doJSON(t, router, http.MethodGet, "/suppliers?search=PRODUCE", nil)
		assert.Equal(t, http.StatusOK, status)

		suppliers := response["data"].([]interface{})
		assert.Len(t, suppliers, 1)
		assert.Equal(t, produce.Name, suppliers[0].(map[string]interface{})["name"])
	})

	t.Run("suppliers cannot browse", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/suppliers",
			mockAuthMiddleware(produce.Auth0ID, produce.Role, "mock-token"),
			ListSuppliers,
		)

		status, response := doJSON(t, router, http.MethodGet, "/suppliers", nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", errorCode(response))
	})
}

func TestGetSupplier(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	vendor := seedUser(t, db, "Vendor", models.RoleVendor)
	supplier := seedUser(t, db, "Fresh Produce Co", models.RoleSupplier)
	otherVendor := seedUser(t, db, "Other Vendor", models.RoleVendor)

	tests := []struct {
		name           string
		caller         *models.User
		supplierID     string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "vendor fetches supplier",
			caller:         vendor,
			supplierID:     fmt.Sprintf("%d", supplier.ID),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "vendor id is not a supplier",
			caller:         vendor,
			supplierID:     fmt.Sprintf("%d", otherVendor.ID),
			expectedStatus: http.StatusNotFound,
			expectedError:  "SUPPLIER_NOT_FOUND",
		},
		{
			name:           "unknown supplier",
			caller:         vendor,
			supplierID:     "99999",
			expectedStatus: http.StatusNotFound,
			expectedError:  "SUPPLIER_NOT_FOUND",
		},
		{
			name:           "supplier cannot browse",
			caller:         supplier,
			supplierID:     fmt.Sprintf("%d", supplier.ID),
			expectedStatus: http.StatusForbidden,
			expectedError:  "FORBIDDEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/suppliers/:id",
				mockAuthMiddleware(tt.caller.Auth0ID, tt.caller.Role, "mock-token"),
				GetSupplier,
			)

			status, response := doJSON(t, router, http.MethodGet, "/suppliers/"+tt.supplierID, nil)
			assert.Equal(t, tt.expectedStatus, status)

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			} else {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, supplier.Name, data["name"])
			}
		})
	}
}
