package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/shared/clients"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/database/models/auth"
	utils "inventra-backend/shared/utils/auth"
	"inventra-backend/shared/utils/cache"
)

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

// principal is the common view over the admin and employee tables.
type principal struct {
	ID             uuid.UUID
	Email          string
	Password       string
	FirstName      string
	LastName       string
	EmailVerified  bool
	Role           string
	OrganizationID *uuid.UUID
}

// Login Request/Response structs
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@inventra.com"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

type LoginResponse struct {
	Token        string        `json:"token"`
	RefreshToken string        `json:"refresh_token"`
	Principal    PrincipalInfo `json:"principal"`
	ExpiresAt    time.Time     `json:"expires_at"`
}

type PrincipalInfo struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Role           string     `json:"role"`
	OrganizationID *uuid.UUID `json:"organization_id"`
	EmailVerified  bool       `json:"email_verified"`
}

// Register Request struct
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email" example:"user@example.com"`
	Password  string `json:"password" binding:"required,min=8" example:"securepassword123"`
	FirstName string `json:"first_name" binding:"required" example:"John"`
	LastName  string `json:"last_name" binding:"required" example:"Doe"`
	Role      string `json:"role" binding:"required,oneof=ADMIN EMPLOYEE" example:"EMPLOYEE"`
}

// Refresh Request struct
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh Response struct
type RefreshResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Validate Request struct
type ValidateRequest struct {
	Token string `json:"token" binding:"required"`
}

// Validate Response struct
type ValidateResponse struct {
	Valid       bool      `json:"valid"`
	PrincipalID uuid.UUID `json:"principal_id,omitempty"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// POST /api/auth/register
// @Summary Register new principal
// @Description Register a new admin or employee account
// @Tags auth
// @Accept json
// @Produce json
// @Param register body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{} "Registered successfully"
// @Failure 400 {object} map[string]string "Invalid request format or validation error"
// @Failure 409 {object} map[string]string "Email already exists"
// @Failure 500 {object} map[string]string "Failed to register"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Email validation
	if err := utils.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Password validation
	if err := utils.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check email uniqueness across both principal tables
	if _, err := h.findPrincipalByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		return
	}

	// Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password"})
		return
	}

	var principalID uuid.UUID
	if req.Role == auth.RoleAdmin {
		admin := models.Admin{
			Email:     req.Email,
			Password:  hashedPassword,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		if err := h.db.Create(&admin).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create admin"})
			return
		}
		principalID = admin.ID
	} else {
		employee := models.Employee{
			Email:     req.Email,
			Password:  hashedPassword,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}
		if err := h.db.Create(&employee).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create employee"})
			return
		}
		principalID = employee.ID
	}

	registered := gin.H{
		"id":         principalID,
		"email":      req.Email,
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"role":       req.Role,
	}

	// Send verification email automatically after registration
	verificationToken, err := utils.CreateEmailVerificationToken(h.db, principalID, req.Role, req.Email)
	if err != nil {
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Registered successfully but verification email failed to send",
			"principal": registered,
		})
		return
	}

	notificationClient := clients.NewNotificationClient()
	if err := notificationClient.SendVerificationEmail(req.Email, req.FirstName, verificationToken.Token); err != nil {
		c.JSON(http.StatusCreated, gin.H{
			"message":   "Registered successfully but verification email failed to send",
			"principal": registered,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Registered successfully. Please check your email to verify your account.",
		"principal": registered,
	})
}

// POST /api/auth/login
// @Summary Principal login
// @Description Authenticate an admin or employee and return JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Login credentials"
// @Success 200 {object} handlers.LoginResponse "Successful login"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid credentials or email not verified"
// @Failure 429 {object} map[string]string "Too many login attempts"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Rate limiting control (login attempt)
	clientIP := c.ClientIP()
	if !h.allowLoginAttempt(req.Email, clientIP) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Please try again later."})
		return
	}

	p, err := h.findPrincipalByEmail(req.Email)
	if err != nil {
		h.recordFailedLogin(req.Email, clientIP, "principal_not_found")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Check password
	if !utils.CheckPasswordHash(req.Password, p.Password) {
		h.recordFailedLogin(req.Email, clientIP, "wrong_password")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	// Check email verification
	if !p.EmailVerified {
		h.recordFailedLogin(req.Email, clientIP, "email_not_verified")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email not verified. Please verify your email before logging in."})
		return
	}

	token, err := utils.GenerateJWT(p.ID, p.Email, p.Role, p.EmailVerified)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshJWT(p.ID, p.Email, p.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	h.recordSuccessfulLogin(req.Email, clientIP)

	c.JSON(http.StatusOK, LoginResponse{
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(utils.GetJWTExpireDuration()),
		Principal: PrincipalInfo{
			ID:             p.ID,
			Email:          p.Email,
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Role:           p.Role,
			OrganizationID: p.OrganizationID,
			EmailVerified:  p.EmailVerified,
		},
	})
}

// POST /api/auth/refresh
// @Summary Refresh JWT token
// @Description Refresh an expired JWT token using a valid refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body RefreshRequest true "Refresh token"
// @Success 200 {object} handlers.RefreshResponse "Successfully refreshed tokens"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 401 {object} map[string]string "Invalid refresh token or principal gone"
// @Failure 500 {object} map[string]string "Failed to generate new tokens"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateRefreshJWT(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	principalID, err := uuid.Parse(claims.PrincipalID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid principal ID in token"})
		return
	}

	// The principal row must still exist
	p, err := h.findPrincipalByID(principalID, claims.Role)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Principal not found"})
		return
	}

	newToken, err := utils.GenerateJWT(p.ID, p.Email, p.Role, p.EmailVerified)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	newRefreshToken, err := utils.GenerateRefreshJWT(p.ID, p.Email, p.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{
		Token:        newToken,
		RefreshToken: newRefreshToken,
		ExpiresAt:    time.Now().Add(utils.GetJWTExpireDuration()),
	})
}

// POST /api/auth/logout
// @Summary Principal logout
// @Description Invalidate the presented token immediately
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "Logged out successfully"
// @Failure 400 {object} map[string]string "Token required"
// @Failure 401 {object} map[string]string "Invalid token"
// @Failure 500 {object} map[string]string "Could not logout"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token required"})
		return
	}

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	claims, err := utils.ValidateJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	if len(tokenString) < 32 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	tokenHash := tokenString[:32]
	principalID, _ := uuid.Parse(claims.PrincipalID)

	// Check if token is already blacklisted
	var existing auth.BlacklistedToken
	if err := h.db.Where("principal_id = ? AND token_hash = ?", principalID, tokenHash).First(&existing).Error; err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
		return
	}

	blacklisted := auth.BlacklistedToken{
		PrincipalID:   principalID,
		Role:          claims.Role,
		TokenHash:     tokenHash,
		ExpiresAt:     claims.ExpiresAt.Time,
		BlacklistedAt: time.Now(),
		Reason:        "logout",
	}
	if err := h.db.Create(&blacklisted).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not logout"})
		return
	}

	// Redis answers the hot-path blacklist lookups; the row above survives restarts
	if cm := cache.GetCacheManager(); cm != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if ttl > 0 {
			cm.BlacklistToken(tokenHash, ttl)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// POST /api/auth/validate
// @Summary Validate JWT token
// @Description Validate a JWT token and return its claims
// @Tags auth
// @Accept json
// @Produce json
// @Param validate body ValidateRequest true "JWT token to validate"
// @Success 200 {object} handlers.ValidateResponse "Token validation result"
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /auth/validate [post]
func (h *AuthHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	claims, err := utils.ValidateJWT(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	if claims.ExpiresAt.Time.Before(time.Now()) {
		c.JSON(http.StatusOK, ValidateResponse{Valid: false})
		return
	}

	principalID, _ := uuid.Parse(claims.PrincipalID)

	if len(req.Token) >= 32 {
		tokenHash := req.Token[:32]

		if cm := cache.GetCacheManager(); cm != nil && cm.IsTokenBlacklisted(tokenHash) {
			c.JSON(http.StatusOK, ValidateResponse{Valid: false})
			return
		}

		var blacklisted auth.BlacklistedToken
		if err := h.db.Where("principal_id = ? AND token_hash = ?", principalID, tokenHash).First(&blacklisted).Error; err == nil {
			c.JSON(http.StatusOK, ValidateResponse{Valid: false})
			return
		}
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Valid:       true,
		PrincipalID: principalID,
		Email:       claims.Email,
		Role:        claims.Role,
		ExpiresAt:   claims.ExpiresAt.Time,
	})
}

// GET /api/auth/verify-email/:token
// @Summary Verify email
// @Description Verify a principal's email using the emailed token, returning fresh auth tokens
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} map[string]interface{} "Email verified successfully with auth tokens"
// @Failure 400 {object} map[string]string "Invalid token"
// @Failure 500 {object} map[string]string "Failed to verify email"
// @Router /auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	verificationToken, err := utils.ConsumeEmailVerificationToken(h.db, token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Flip the verified flag on the principal row the token names
	switch verificationToken.Role {
	case auth.RoleAdmin:
		if err := h.db.Model(&models.Admin{}).
			Where("id = ?", verificationToken.PrincipalID).
			Update("email_verified", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
			return
		}
	case auth.RoleEmployee:
		if err := h.db.Model(&models.Employee{}).
			Where("id = ?", verificationToken.PrincipalID).
			Update("email_verified", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify email"})
			return
		}
	}

	p, err := h.findPrincipalByID(verificationToken.PrincipalID, verificationToken.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load principal"})
		return
	}

	authToken, err := utils.GenerateJWT(p.ID, p.Email, p.Role, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token"})
		return
	}

	refreshToken, err := utils.GenerateRefreshJWT(p.ID, p.Email, p.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email verified successfully",
		"principal": PrincipalInfo{
			ID:             p.ID,
			Email:          p.Email,
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			Role:           p.Role,
			OrganizationID: p.OrganizationID,
			EmailVerified:  true,
		},
		"token":         authToken,
		"refresh_token": refreshToken,
		"expires_at":    time.Now().Add(utils.GetJWTExpireDuration()),
	})
}

// POST /api/auth/resend-verification
// @Summary Resend verification email
// @Description Create a fresh verification token and email it to an unverified principal
// @Tags auth
// @Accept json
// @Produce json
// @Param request body map[string]string true "Email address"
// @Success 200 {object} map[string]string "Verification email sent"
// @Failure 400 {object} map[string]string "Invalid request or email already verified"
// @Failure 404 {object} map[string]string "Principal not found"
// @Failure 500 {object} map[string]string "Failed to create verification token"
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.findPrincipalByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Principal not found"})
		return
	}

	if p.EmailVerified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already verified"})
		return
	}

	// Invalidate old verification tokens
	if err := utils.InvalidateOldVerificationTokens(h.db, p.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invalidate old tokens"})
		return
	}

	verificationToken, err := utils.CreateEmailVerificationToken(h.db, p.ID, p.Role, p.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create verification token"})
		return
	}

	notificationClient := clients.NewNotificationClient()
	if err := notificationClient.SendVerificationEmail(p.Email, p.FirstName, verificationToken.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

// findPrincipalByEmail checks the admin table first, then the employee table.
func (h *AuthHandler) findPrincipalByEmail(email string) (*principal, error) {
	var admin models.Admin
	if err := h.db.Where("email = ?", email).First(&admin).Error; err == nil {
		return &principal{
			ID:             admin.ID,
			Email:          admin.Email,
			Password:       admin.Password,
			FirstName:      admin.FirstName,
			LastName:       admin.LastName,
			EmailVerified:  admin.EmailVerified,
			Role:           auth.RoleAdmin,
			OrganizationID: admin.OrganizationID,
		}, nil
	}

	var employee models.Employee
	if err := h.db.Where("email = ?", email).First(&employee).Error; err != nil {
		return nil, err
	}
	return &principal{
		ID:             employee.ID,
		Email:          employee.Email,
		Password:       employee.Password,
		FirstName:      employee.FirstName,
		LastName:       employee.LastName,
		EmailVerified:  employee.EmailVerified,
		Role:           auth.RoleEmployee,
		OrganizationID: employee.OrganizationID,
	}, nil
}

// findPrincipalByID consults the table the role claim names.
func (h *AuthHandler) findPrincipalByID(id uuid.UUID, role string) (*principal, error) {
	if role == auth.RoleAdmin {
		var admin models.Admin
		if err := h.db.First(&admin, id).Error; err != nil {
			return nil, err
		}
		return &principal{
			ID:             admin.ID,
			Email:          admin.Email,
			Password:       admin.Password,
			FirstName:      admin.FirstName,
			LastName:       admin.LastName,
			EmailVerified:  admin.EmailVerified,
			Role:           auth.RoleAdmin,
			OrganizationID: admin.OrganizationID,
		}, nil
	}

	var employee models.Employee
	if err := h.db.First(&employee, id).Error; err != nil {
		return nil, err
	}
	return &principal{
		ID:             employee.ID,
		Email:          employee.Email,
		Password:       employee.Password,
		FirstName:      employee.FirstName,
		LastName:       employee.LastName,
		EmailVerified:  employee.EmailVerified,
		Role:           auth.RoleEmployee,
		OrganizationID: employee.OrganizationID,
	}, nil
}

// Rate limiting helper functions
func (h *AuthHandler) allowLoginAttempt(email, ipAddress string) bool {
	var count int64
	h.db.Model(&auth.LoginAttempt{}).
		Where("(email = ? OR ip_address = ?) AND successful = ? AND created_at > ?",
			email, ipAddress, false, time.Now().Add(-15*time.Minute)).
		Count(&count)
	return count < 5
}

func (h *AuthHandler) recordFailedLogin(email, ipAddress, failureType string) {
	attempt := auth.LoginAttempt{
		Email:       email,
		IPAddress:   ipAddress,
		Successful:  false,
		FailureType: failureType,
		Attempts:    1,
		LastAttempt: time.Now(),
	}
	h.db.Create(&attempt)
}

func (h *AuthHandler) recordSuccessfulLogin(email, ipAddress string) {
	attempt := auth.LoginAttempt{
		Email:       email,
		IPAddress:   ipAddress,
		Successful:  true,
		Attempts:    1,
		LastAttempt: time.Now(),
	}
	h.db.Create(&attempt)
}
