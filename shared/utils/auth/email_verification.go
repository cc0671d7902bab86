package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"inventra-backend/shared/database/models/auth"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateVerificationToken generates a secure random token
func GenerateVerificationToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateEmailVerificationToken creates a new email verification token for a principal
func CreateEmailVerificationToken(db *gorm.DB, principalID uuid.UUID, role, email string) (*auth.EmailVerificationToken, error) {
	token, err := GenerateVerificationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	verificationToken := &auth.EmailVerificationToken{
		PrincipalID: principalID,
		Role:        role,
		Token:       token,
		Email:       email,
		ExpiresAt:   time.Now().Add(GetJWTExpireDuration()),
		Verified:    false,
	}

	if err := db.Create(verificationToken).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification token: %w", err)
	}

	return verificationToken, nil
}

// ConsumeEmailVerificationToken marks a pending token as verified and
// returns it so the caller can flip the principal's verified flag.
func ConsumeEmailVerificationToken(db *gorm.DB, token string) (*auth.EmailVerificationToken, error) {
	var verificationToken auth.EmailVerificationToken

	if err := db.Where("token = ? AND verified = ? AND expires_at > ?",
		token, false, time.Now()).First(&verificationToken).Error; err != nil {
		return nil, fmt.Errorf("invalid or expired token")
	}

	now := time.Now()
	verificationToken.Verified = true
	verificationToken.VerifiedAt = &now
	if err := db.Save(&verificationToken).Error; err != nil {
		return nil, fmt.Errorf("failed to update token: %w", err)
	}

	return &verificationToken, nil
}

// InvalidateOldVerificationTokens marks all pending tokens for a principal as used
func InvalidateOldVerificationTokens(db *gorm.DB, principalID uuid.UUID) error {
	return db.Model(&auth.EmailVerificationToken{}).
		Where("principal_id = ? AND verified = ?", principalID, false).
		Update("verified", true).Error
}

// CleanupExpiredTokens removes expired verification tokens
func CleanupExpiredTokens(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).
		Delete(&auth.EmailVerificationToken{}).Error
}
