package handlers

import (
	"fmt"
	"net/http"

	"inventra-backend/notification-service/services"
	"inventra-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// EmailHandler handles email-related HTTP requests
type EmailHandler struct {
	emailService *services.EmailService
	config       *config.Config
}

// NewEmailHandler creates a new email handler
func NewEmailHandler(emailService *services.EmailService, cfg *config.Config) *EmailHandler {
	return &EmailHandler{
		emailService: emailService,
		config:       cfg,
	}
}

// VerificationEmailRequest represents the request for sending verification email
type VerificationEmailRequest struct {
	Email             string `json:"email" binding:"required,email"`
	Name              string `json:"name" binding:"required"`
	VerificationToken string `json:"verification_token" binding:"required"`
}

// SuggestionResolvedEmailRequest represents the request for notifying a suggestion author
type SuggestionResolvedEmailRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Name           string `json:"name" binding:"required"`
	SuggestionName string `json:"suggestion_name" binding:"required"`
	Status         string `json:"status" binding:"required,oneof=APPROVED DECLINED"`
	Feedback       string `json:"feedback"`
}

// SendEmail godoc
// @Summary Send email
// @Description Send an email through the notification service
// @Tags email
// @Accept json
// @Produce json
// @Param email body services.EmailRequest true "Email request"
// @Success 200 {object} services.EmailResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/email/send [post]
func (eh *EmailHandler) SendEmail(c *gin.Context) {
	var request services.EmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendEmail(request)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// SendVerificationEmail godoc
// @Summary Send verification email
// @Description Send email verification link to a newly registered principal
// @Tags email
// @Accept json
// @Produce json
// @Param request body VerificationEmailRequest true "Verification email request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/email/verification [post]
func (eh *EmailHandler) SendVerificationEmail(c *gin.Context) {
	var request VerificationEmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	// Create verification URL
	verificationURL := fmt.Sprintf("%s/auth/verify-email/%s", eh.config.FrontendURL, request.VerificationToken)

	response, err := eh.emailService.SendVerificationEmail(request.Email, request.Name, verificationURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send verification email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Verification email sent successfully",
		"sent_at": response.SentAt,
	})
}

// SendSuggestionResolvedEmail godoc
// @Summary Send suggestion resolution email
// @Description Notify a suggestion author that an admin approved or declined their suggestion
// @Tags email
// @Accept json
// @Produce json
// @Param request body SuggestionResolvedEmailRequest true "Suggestion resolved email request"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/notifications/email/suggestion-resolved [post]
func (eh *EmailHandler) SendSuggestionResolvedEmail(c *gin.Context) {
	var request SuggestionResolvedEmailRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request format",
			"details": err.Error(),
		})
		return
	}

	response, err := eh.emailService.SendSuggestionResolvedEmail(
		request.Email,
		request.Name,
		request.SuggestionName,
		request.Status,
		request.Feedback,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to send suggestion resolution email",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Suggestion resolution email sent successfully",
		"sent_at": response.SentAt,
	})
}
