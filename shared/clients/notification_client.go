package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"inventra-backend/shared/config"

	"github.com/google/uuid"
)

// NotificationClient handles communication with the notification service
type NotificationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewNotificationClient creates a new notification client
func NewNotificationClient() *NotificationClient {
	cfg := config.GetConfig()
	return &NotificationClient{
		baseURL: cfg.NotificationServiceURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Email request structs
type VerificationEmailRequest struct {
	Email             string `json:"email"`
	Name              string `json:"name"`
	VerificationToken string `json:"verification_token"`
}

type SuggestionResolvedEmailRequest struct {
	Email          string `json:"email"`
	Name           string `json:"name"`
	SuggestionName string `json:"suggestion_name"`
	Status         string `json:"status"`
	Feedback       string `json:"feedback,omitempty"`
}

// PushEventRequest asks the notification service to broadcast a live event
type PushEventRequest struct {
	Type        string     `json:"type"`
	Level       string     `json:"level"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	PrincipalID uuid.UUID  `json:"principal_id"`
	EntityID    *uuid.UUID `json:"entity_id,omitempty"`
}

// SendVerificationEmail sends the email verification message
func (nc *NotificationClient) SendVerificationEmail(to, name, verificationToken string) error {
	request := VerificationEmailRequest{
		Email:             to,
		Name:              name,
		VerificationToken: verificationToken,
	}
	return nc.post("/api/notifications/email/verification", request)
}

// SendSuggestionResolvedEmail notifies a suggestion author about the admin's decision
func (nc *NotificationClient) SendSuggestionResolvedEmail(to, name, suggestionName, status, feedback string) error {
	request := SuggestionResolvedEmailRequest{
		Email:          to,
		Name:           name,
		SuggestionName: suggestionName,
		Status:         status,
		Feedback:       feedback,
	}
	return nc.post("/api/notifications/email/suggestion-resolved", request)
}

// PushEvent broadcasts a live event to the principal's websocket connection
func (nc *NotificationClient) PushEvent(event PushEventRequest) error {
	return nc.post("/api/notifications/events", event)
}

// post is the generic JSON sender
func (nc *NotificationClient) post(endpoint string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %v", err)
	}

	url := fmt.Sprintf("%s%s", nc.baseURL, endpoint)
	resp, err := nc.httpClient.Post(url, "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notification service returned status: %d", resp.StatusCode)
	}

	return nil
}
