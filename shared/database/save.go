package database

import (
	"gorm.io/gorm"

	"inventra-backend/shared/utils/apperrors"
)

// SaveOrFail persists an expected-to-exist record and fails with a typed
// NoRowsAffected error when the write touched nothing. This distinguishes a
// lost race from a business-rule rejection.
func SaveOrFail(db *gorm.DB, value interface{}) error {
	result := db.Save(value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected by expected write")
	}
	return nil
}

// DeleteOrFail removes an expected-to-exist record with the same guard.
func DeleteOrFail(db *gorm.DB, value interface{}, conds ...interface{}) error {
	result := db.Delete(value, conds...)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected by expected delete")
	}
	return nil
}
