package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/supplyline/supplyline-api/config"
	"github.com/supplyline/supplyline-api/models"
)

// mockUserInfoServer fakes Auth0's /userinfo endpoint
func mockUserInfoServer(t *testing.T, userInfo map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/userinfo", r.URL.Path)
		assert.Contains(t, r.Header.Get("Authorization"), "Bearer ")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		body := "{"
		first := true
		for key, value := range userInfo {
			if !first {
				body += ","
			}
			body += `"` + key + `":"` + value + `"`
			first = false
		}
		body += "}"
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCreateUser(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	tests := []struct {
		name           string
		auth0ID        string
		role           string
		userInfo       map[string]string
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:    "creates vendor from userinfo",
			auth0ID: "auth0|new-vendor",
			role:    "",
			userInfo: map[string]string{
				"sub":   "auth0|new-vendor",
				"name":  "New Vendor",
				"email": "new-vendor@example.com",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "New Vendor", data["name"])
				assert.Equal(t, models.RoleVendor, data["role"])
				assert.Equal(t, true, data["is_active"])
			},
		},
		{
			name:    "role claim selects supplier",
			auth0ID: "auth0|new-supplier",
			role:    models.RoleSupplier,
			userInfo: map[string]string{
				"sub":   "auth0|new-supplier",
				"name":  "New Supplier",
				"email": "new-supplier@example.com",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, models.RoleSupplier, data["role"])
			},
		},
		{
			name:    "rejects unknown role claim",
			auth0ID: "auth0|weird-role",
			role:    "admin",
			userInfo: map[string]string{
				"sub":   "auth0|weird-role",
				"name":  "Weird Role",
				"email": "weird-role@example.com",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_ROLE",
		},
		{
			name:    "missing email from userinfo",
			auth0ID: "auth0|no-email",
			userInfo: map[string]string{
				"sub":  "auth0|no-email",
				"name": "No Email",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_EMAIL",
		},
		{
			name:    "missing name from userinfo",
			auth0ID: "auth0|no-name",
			userInfo: map[string]string{
				"sub":   "auth0|no-name",
				"email": "no-name@example.com",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "MISSING_NAME",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockUserInfoServer(t, tt.userInfo)
			config.SetConfig(&config.Config{Auth0Domain: server.URL})

			router := setupTestRouter()
			router.POST("/users",
				mockAuthMiddleware(tt.auth0ID, tt.role, "mock-token"),
				CreateUser,
			)

			status, response := doJSON(t, router, http.MethodPost, "/users", nil)
			assert.Equal(t, tt.expectedStatus, status)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				assert.Equal(t, tt.expectedError, errorCode(response))
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}

	t.Run("duplicate signup conflicts", func(t *testing.T) {
		userInfo := map[string]string{
			"sub":   "auth0|new-vendor",
			"name":  "New Vendor",
			"email": "new-vendor@example.com",
		}
		server := mockUserInfoServer(t, userInfo)
		config.SetConfig(&config.Config{Auth0Domain: server.URL})

		router := setupTestRouter()
		router.POST("/users",
			mockAuthMiddleware("auth0|new-vendor", "", "mock-token"),
			CreateUser,
		)

		status, response := doJSON(t, router, http.MethodPost, "/users", nil)
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "USER_EXISTS", errorCode(response))
	})

	t.Run("userinfo failure surfaces as auth0 error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()
		config.SetConfig(&config.Config{Auth0Domain: server.URL})

		router := setupTestRouter()
		router.POST("/users",
			mockAuthMiddleware("auth0|unreachable", "", "mock-token"),
			CreateUser,
		)

		status, response := doJSON(t, router, http.MethodPost, "/users", nil)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "AUTH0_ERROR", errorCode(response))
	})

	t.Run("no token in context", func(t *testing.T) {
		router := setupTestRouter()
		router.POST("/users", func(c *gin.Context) { c.Next() }, CreateUser)

		status, response := doJSON(t, router, http.MethodPost, "/users", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "UNAUTHORIZED", errorCode(response))
	})
}

func TestGetMyProfile(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	vendor := seedUser(t, db, "Vendor", models.RoleVendor)

	t.Run("returns profile", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			GetMyProfile,
		)

		status, response := doJSON(t, router, http.MethodGet, "/users/me", nil)
		assert.Equal(t, http.StatusOK, status)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, vendor.Name, data["name"])
		assert.Equal(t, vendor.Email, data["email"])
	})

	t.Run("unknown auth0 id", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/users/me",
			mockAuthMiddleware("auth0|nobody", models.RoleVendor, "mock-token"),
			GetMyProfile,
		)

		status, response := doJSON(t, router, http.MethodGet, "/users/me", nil)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "USER_NOT_FOUND", errorCode(response))
	})
}

func TestUpdateMyProfile(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	vendor := seedUser(t, db, "Vendor", models.RoleVendor)
	seedUser(t, db, "Taken", models.RoleVendor)

	t.Run("updates fields", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/users/me",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			UpdateMyProfile,
		)

		status, response := doJSON(t, router, http.MethodPut, "/users/me",
			map[string]interface{}{"name": "Renamed Vendor", "phone": "555-0100"})
		assert.Equal(t, http.StatusOK, status)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, "Renamed Vendor", data["name"])
		assert.Equal(t, "555-0100", data["phone"])
		assert.Equal(t, vendor.Email, data["email"])
	})

	t.Run("empty body returns current profile", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/users/me",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			UpdateMyProfile,
		)

		status, response := doJSON(t, router, http.MethodPut, "/users/me",
			map[string]interface{}{})
		assert.Equal(t, http.StatusOK, status)
		assert.True(t, response["success"].(bool))
	})

	t.Run("invalid email format", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/users/me",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			UpdateMyProfile,
		)

		status, response := doJSON(t, router, http.MethodPut, "/users/me",
			map[string]interface{}{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(response))
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		router := setupTestRouter()
		router.PUT("/users/me",
			mockAuthMiddleware(vendor.Auth0ID, vendor.Role, "mock-token"),
			UpdateMyProfile,
		)

		status, response := doJSON(t, router, http.MethodPut, "/users/me",
			map[string]interface{}{"email": "taken@example.com"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "EMAIL_EXISTS", errorCode(response))
	})
}
