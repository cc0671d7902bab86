package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"inventra-backend/shared/database/models/auth"
)

func newTokenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=private"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	require.NoError(t, db.AutoMigrate(&auth.EmailVerificationToken{}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong-pass", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	principalID := uuid.New()

	token, err := GenerateJWT(principalID, "admin@example.com", "ADMIN", true)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)

	assert.Equal(t, principalID.String(), claims.PrincipalID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.True(t, claims.Verified)
	assert.False(t, IsTokenExpired(token))
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	token, err := GenerateJWT(uuid.New(), "admin@example.com", "ADMIN", true)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	_, err = ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestRefreshJWTRoundTrip(t *testing.T) {
	principalID := uuid.New()

	token, err := GenerateRefreshJWT(principalID, "employee@example.com", "EMPLOYEE")
	require.NoError(t, err)

	claims, err := ValidateRefreshJWT(token)
	require.NoError(t, err)
	assert.Equal(t, principalID.String(), claims.PrincipalID)
	assert.Equal(t, "EMPLOYEE", claims.Role)
}

func TestEmailVerificationTokenLifecycle(t *testing.T) {
	db := newTokenDB(t)
	principalID := uuid.New()

	created, err := CreateEmailVerificationToken(db, principalID, "ADMIN", "admin@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Token)
	assert.False(t, created.Verified)

	consumed, err := ConsumeEmailVerificationToken(db, created.Token)
	require.NoError(t, err)
	assert.True(t, consumed.Verified)
	assert.Equal(t, principalID, consumed.PrincipalID)
	require.NotNil(t, consumed.VerifiedAt)

	// A consumed token cannot be used a second time.
	_, err = ConsumeEmailVerificationToken(db, created.Token)
	assert.Error(t, err)
}

func TestConsumeExpiredTokenFails(t *testing.T) {
	db := newTokenDB(t)

	expired := auth.EmailVerificationToken{
		PrincipalID: uuid.New(),
		Role:        "EMPLOYEE",
		Token:       "expired-token",
		Email:       "late@example.com",
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&expired).Error)

	_, err := ConsumeEmailVerificationToken(db, "expired-token")
	assert.Error(t, err)
}

func TestInvalidateOldVerificationTokens(t *testing.T) {
	db := newTokenDB(t)
	principalID := uuid.New()

	first, err := CreateEmailVerificationToken(db, principalID, "EMPLOYEE", "multi@example.com")
	require.NoError(t, err)

	require.NoError(t, InvalidateOldVerificationTokens(db, principalID))

	second, err := CreateEmailVerificationToken(db, principalID, "EMPLOYEE", "multi@example.com")
	require.NoError(t, err)

	// Only the fresh token is consumable.
	_, err = ConsumeEmailVerificationToken(db, first.Token)
	assert.Error(t, err)

	_, err = ConsumeEmailVerificationToken(db, second.Token)
	assert.NoError(t, err)
}

func TestValidateEmailAndPassword(t *testing.T) {
	assert.NoError(t, ValidateEmail("person@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail(""))

	assert.NoError(t, ValidatePassword("longenough"))
	assert.Error(t, ValidatePassword("short"))
}
