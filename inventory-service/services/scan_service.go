package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/ownership"
)

// ScanService manages stocktaking rounds. A property holds at most one
// IN_PROGRESS scan; per-item progress lives in the scan's join rows.
type ScanService struct {
	db *gorm.DB
}

func NewScanService(db *gorm.DB) *ScanService {
	return &ScanService{db: db}
}

// ScanProgress summarizes an active or finished scan.
type ScanProgress struct {
	Scan         models.PropertyScan `json:"scan"`
	TotalItems   int64               `json:"total_items"`
	ScannedItems int64               `json:"scanned_items"`
}

// CreateScan opens a new scan for the admin's property and pre-creates one
// unscanned row per existing item.
func (s *ScanService) CreateScan(ctx context.Context, admin *models.Admin) (*models.PropertyScan, error) {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		return nil, err
	}

	var scan models.PropertyScan
	err = db.Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&models.PropertyScan{}).
			Where("property_id = ? AND status = ?", property.ID, models.ScanStatusInProgress).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.NewBadRequest("property already has an active scan")
		}

		scan = models.PropertyScan{
			PropertyID: property.ID,
			Status:     models.ScanStatusInProgress,
		}
		if err := tx.Create(&scan).Error; err != nil {
			// The partial unique index catches a concurrent open the count
			// check could not see.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.NewBadRequest("property already has an active scan")
			}
			return err
		}

		var items []models.PropertyItem
		if err := tx.Where("property_id = ?", property.ID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			row := models.PropertyScanItem{ScanID: scan.ID, ItemID: item.ID}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &scan, nil
}

// ScanItem marks one of the employee's assigned items as scanned in the
// property's active scan. Re-scanning an already scanned item is a no-op.
func (s *ScanService) ScanItem(ctx context.Context, employee *models.Employee, itemID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfEmployee(db, employee)
	if err != nil {
		return err
	}

	scan, err := s.activeScan(db, property.ID)
	if err != nil {
		return err
	}

	item, err := findItem(db, itemID)
	if err != nil {
		return err
	}
	if err := ownership.AssertItemInProperty(item, property); err != nil {
		return err
	}
	if item.EmployeeID == nil || *item.EmployeeID != employee.ID {
		return apperrors.NewUnauthorized("item isn't assigned to the employee")
	}

	// Items added after the scan opened have no pre-created row yet.
	row := models.PropertyScanItem{ScanID: scan.ID, ItemID: item.ID, Scanned: true}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scan_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"scanned": true}),
	}).Create(&row).Error
}

// CompleteScan closes the property's active scan.
func (s *ScanService) CompleteScan(ctx context.Context, admin *models.Admin) (*models.PropertyScan, error) {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		return nil, err
	}

	scan, err := s.activeScan(db, property.ID)
	if err != nil {
		return nil, err
	}

	if err := s.finishScan(db, scan); err != nil {
		return nil, err
	}

	return scan, nil
}

// finishScan closes the scan only while it is still IN_PROGRESS, so a
// concurrent completion surfaces as a lost race instead of a silent rewrite.
func (s *ScanService) finishScan(db *gorm.DB, scan *models.PropertyScan) error {
	now := time.Now()

	result := db.Model(&models.PropertyScan{}).
		Where("id = ? AND status = ?", scan.ID, models.ScanStatusInProgress).
		Updates(map[string]interface{}{
			"status":       models.ScanStatusCompleted,
			"completed_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected while completing scan")
	}

	scan.Status = models.ScanStatusCompleted
	scan.CompletedAt = &now
	return nil
}

// ActiveScanProgress returns the property's active scan with scanned counts.
func (s *ScanService) ActiveScanProgress(ctx context.Context, propertyID uuid.UUID) (*ScanProgress, error) {
	db := s.db.WithContext(ctx)

	scan, err := s.activeScan(db, propertyID)
	if err != nil {
		return nil, err
	}
	return s.progressOf(db, scan)
}

// ScanProgressByID looks up any scan, active or completed, with its counts.
func (s *ScanService) ScanProgressByID(ctx context.Context, propertyID, scanID uuid.UUID) (*ScanProgress, error) {
	db := s.db.WithContext(ctx)

	var scan models.PropertyScan
	if err := db.First(&scan, scanID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("scan not found")
		}
		return nil, err
	}
	if scan.PropertyID != propertyID {
		return nil, apperrors.NewBadRequest("scan isn't part of the property")
	}
	return s.progressOf(db, &scan)
}

// ListScans returns the property's scans, newest first.
func (s *ScanService) ListScans(ctx context.Context, propertyID uuid.UUID) ([]models.PropertyScan, error) {
	db := s.db.WithContext(ctx)

	var scans []models.PropertyScan
	if err := db.Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}

func (s *ScanService) activeScan(db *gorm.DB, propertyID uuid.UUID) (*models.PropertyScan, error) {
	var scan models.PropertyScan
	err := db.Where("property_id = ? AND status = ?", propertyID, models.ScanStatusInProgress).
		First(&scan).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBadRequest("no active scan for the property")
		}
		return nil, err
	}
	return &scan, nil
}

func (s *ScanService) progressOf(db *gorm.DB, scan *models.PropertyScan) (*ScanProgress, error) {
	progress := ScanProgress{Scan: *scan}

	if err := db.Model(&models.PropertyScanItem{}).
		Where("scan_id = ?", scan.ID).
		Count(&progress.TotalItems).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.PropertyScanItem{}).
		Where("scan_id = ? AND scanned = ?", scan.ID, true).
		Count(&progress.ScannedItems).Error; err != nil {
		return nil, err
	}

	return &progress, nil
}
