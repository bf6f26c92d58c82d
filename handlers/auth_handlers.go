// api/handlers/auth_handlers.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"klyra/api/models"
	"klyra/api/store"
	"klyra/api/utils"
)

type AuthHandlers struct {
	TenantStore *store.TenantStore
}

func NewAuthHandlers(tenantStore *store.TenantStore) *AuthHandlers {
	return &AuthHandlers{TenantStore: tenantStore}
}

// Signup registers a tenant account and issues its permanent API key. The
// key is returned exactly once here; everything the tenant later ingests is
// keyed by it.
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("ERROR: Failed to hash password for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		log.Printf("ERROR: Failed to generate API key for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register account"})
		return
	}

	tenant, err := h.TenantStore.CreateTenant(c.Request.Context(), req.Name, req.Email, hashedPassword, apiKey)
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "User with this email already exists"})
			return
		}
		log.Printf("ERROR: Failed to create tenant for email %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register account"})
		return
	}

	log.Printf("Tenant registered: ID=%d, Email=%s", tenant.ID, tenant.Email)
	c.JSON(http.StatusCreated, gin.H{
		"apikey": tenant.APIKey,
		"email":  tenant.Email,
		"name":   tenant.Name,
	})
}

// Login handles tenant authentication and JWT token creation.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tenant, err := h.TenantStore.GetTenantByEmail(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("Login failed for email %s: %v", req.Email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(tenant.HashedPassword, []byte(req.Password)); err != nil {
		log.Printf("Login failed for email %s: password mismatch", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := utils.GenerateJWT(tenant)
	if err != nil {
		log.Printf("ERROR: Failed to generate JWT for tenant %d: %v", tenant.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetCookie(
		"jwt_token",
		tokenString,
		int(24*time.Hour/time.Second),
		"/",
		"",
		false,
		true,
	)

	log.Printf("Tenant logged in: ID=%d, Email=%s. JWT issued.", tenant.ID, tenant.Email)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"email":   tenant.Email,
		"name":    tenant.Name,
	})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	// Clear the JWT cookie by setting its MaxAge to -1 (immediately expire).
	c.SetCookie(
		"jwt_token",
		"",
		-1,
		"/",
		"",
		false,
		true,
	)

	log.Println("Tenant logged out (JWT cookie cleared).")
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Profile returns the logged-in tenant's account, including the API key the
// dashboard shows for snippet setup.
func (h *AuthHandlers) Profile(c *gin.Context) {
	email := c.MustGet("tenant_email").(string)
	tenant, err := h.TenantStore.GetTenantByEmail(c.Request.Context(), email)
	if err != nil {
		log.Printf("ERROR: Failed to load profile for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, tenant)
}
