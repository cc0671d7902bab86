package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/shared/database/models"
	"inventra-backend/shared/database/models/document"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/ownership"
	"inventra-backend/shared/utils/storage"
)

// ItemService is the single write path for property items. Admin-issued item
// commands and approved suggestion replays both go through it, so the same
// validation applies to both.
type ItemService struct {
	db *gorm.DB
}

func NewItemService(db *gorm.DB) *ItemService {
	return &ItemService{db: db}
}

// CreateItems validates and persists a batch of item specs all-or-nothing.
func (s *ItemService) CreateItems(ctx context.Context, propertyID, organizationID uuid.UUID, specs []models.ItemCreateSpec) ([]models.PropertyItem, error) {
	var created []models.PropertyItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.createItems(tx, propertyID, organizationID, specs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateItems validates and applies a batch of item updates all-or-nothing.
func (s *ItemService) UpdateItems(ctx context.Context, propertyID, organizationID uuid.UUID, specs []models.ItemUpdateSpec) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.updateItems(tx, propertyID, organizationID, specs)
	})
}

// DeleteItems removes a batch of items all-or-nothing. Attachment files are
// removed from storage once the rows are gone.
func (s *ItemService) DeleteItems(ctx context.Context, propertyID uuid.UUID, ids []uuid.UUID) error {
	var objectKeys []string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		objectKeys, err = s.deleteItems(tx, propertyID, ids)
		return err
	})
	if err != nil {
		return err
	}

	removeObjects(ctx, objectKeys)
	return nil
}

// createItems runs inside the caller's transaction so suggestion replay can
// share it with its own status update.
func (s *ItemService) createItems(tx *gorm.DB, propertyID, organizationID uuid.UUID, specs []models.ItemCreateSpec) ([]models.PropertyItem, error) {
	seen := newNumberSet()

	created := make([]models.PropertyItem, 0, len(specs))
	for _, spec := range specs {
		if err := validateItemDates(spec.PurchaseDate, spec.SaleDate); err != nil {
			return nil, err
		}
		if err := seen.add(spec.InventoryNumber, spec.RegistrationNumber, spec.DocumentNumber, spec.SerialNumber); err != nil {
			return nil, err
		}
		if err := assertNumbersUnique(tx, propertyID, spec.InventoryNumber, spec.RegistrationNumber, spec.DocumentNumber, spec.SerialNumber, nil); err != nil {
			return nil, err
		}
		if spec.EmployeeID != nil {
			if err := assertAssignableEmployee(tx, *spec.EmployeeID, organizationID); err != nil {
				return nil, err
			}
		}

		item := models.PropertyItem{
			PropertyID:         propertyID,
			EmployeeID:         spec.EmployeeID,
			Name:               spec.Name,
			Price:              spec.Price,
			InventoryNumber:    spec.InventoryNumber,
			RegistrationNumber: spec.RegistrationNumber,
			DocumentNumber:     spec.DocumentNumber,
			SerialNumber:       spec.SerialNumber,
			PurchaseDate:       spec.PurchaseDate,
			SaleDate:           spec.SaleDate,
			Location:           spec.Location,
			Room:               spec.Room,
		}
		if err := tx.Create(&item).Error; err != nil {
			return nil, err
		}
		created = append(created, item)
	}

	return created, nil
}

func (s *ItemService) updateItems(tx *gorm.DB, propertyID, organizationID uuid.UUID, specs []models.ItemUpdateSpec) error {
	var property models.Property
	if err := tx.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("property not found")
		}
		return err
	}

	for _, spec := range specs {
		var item models.PropertyItem
		if err := tx.First(&item, spec.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("item not found")
			}
			return err
		}

		if err := ownership.AssertItemInProperty(&item, &property); err != nil {
			return err
		}
		if err := validateItemDates(spec.PurchaseDate, spec.SaleDate); err != nil {
			return err
		}
		if err := assertNumbersUnique(tx, propertyID, spec.InventoryNumber, spec.RegistrationNumber, spec.DocumentNumber, spec.SerialNumber, &item.ID); err != nil {
			return err
		}

		// Moving an item between employees is a plain reassignment of the
		// foreign key; the new assignee must belong to the same organization.
		if spec.EmployeeID != nil {
			if err := assertAssignableEmployee(tx, *spec.EmployeeID, organizationID); err != nil {
				return err
			}
		}

		item.EmployeeID = spec.EmployeeID
		item.Name = spec.Name
		item.Price = spec.Price
		item.InventoryNumber = spec.InventoryNumber
		item.RegistrationNumber = spec.RegistrationNumber
		item.DocumentNumber = spec.DocumentNumber
		item.SerialNumber = spec.SerialNumber
		item.PurchaseDate = spec.PurchaseDate
		item.SaleDate = spec.SaleDate
		item.Location = spec.Location
		item.Room = spec.Room

		result := tx.Save(&item)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNoRowsAffected("no rows affected while updating item")
		}
	}

	return nil
}

// deleteItems removes the rows referencing each item along with it and
// returns the storage keys of detached attachments so the caller can clean
// them up after the transaction commits.
func (s *ItemService) deleteItems(tx *gorm.DB, propertyID uuid.UUID, ids []uuid.UUID) ([]string, error) {
	var property models.Property
	if err := tx.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("property not found")
		}
		return nil, err
	}

	var objectKeys []string
	for _, id := range ids {
		var item models.PropertyItem
		if err := tx.First(&item, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.NewNotFound("item not found")
			}
			return nil, err
		}

		if err := ownership.AssertItemInProperty(&item, &property); err != nil {
			return nil, err
		}

		// Scan progress rows reference the item and go with it.
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.PropertyScanItem{}).Error; err != nil {
			return nil, err
		}

		// So do document attachments; their files are removed post-commit.
		var docs []document.ItemDocument
		if err := tx.Where("item_id = ?", item.ID).Find(&docs).Error; err != nil {
			return nil, err
		}
		if len(docs) > 0 {
			for _, doc := range docs {
				objectKeys = append(objectKeys, doc.ObjectKey)
			}
			if err := tx.Where("item_id = ?", item.ID).Delete(&document.ItemDocument{}).Error; err != nil {
				return nil, err
			}
		}

		result := tx.Delete(&item)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.NewNoRowsAffected("no rows affected while deleting item")
		}
	}

	return objectKeys, nil
}

type objectStore interface {
	DeleteObject(ctx context.Context, objectKey string) error
}

var newObjectStore = func() (objectStore, error) {
	return storage.NewMinIOService()
}

// removeObjects deletes detached attachment files from storage. The rows are
// already gone, so failures are only logged.
func removeObjects(ctx context.Context, objectKeys []string) {
	if len(objectKeys) == 0 {
		return
	}

	store, err := newObjectStore()
	if err != nil {
		log.Printf("⚠️ Skipping storage cleanup of %d objects: %v", len(objectKeys), err)
		return
	}

	for _, key := range objectKeys {
		if err := store.DeleteObject(ctx, key); err != nil {
			log.Printf("⚠️ Failed to remove object %s: %v", key, err)
		}
	}
}

// findItem loads an item by id.
func findItem(db *gorm.DB, itemID uuid.UUID) (*models.PropertyItem, error) {
	var item models.PropertyItem
	if err := db.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("item not found")
		}
		return nil, err
	}
	return &item, nil
}

// validateItemDates enforces purchase-not-in-future and sale-after-purchase.
func validateItemDates(purchaseDate time.Time, saleDate *time.Time) error {
	if purchaseDate.After(time.Now()) {
		return apperrors.NewBadRequest("purchase date can't be in the future")
	}
	if saleDate != nil && saleDate.Before(purchaseDate) {
		return apperrors.NewBadRequest("sale date can't be before the purchase date")
	}
	return nil
}

// assertAssignableEmployee checks that the assignee exists and belongs to the
// property's organization.
func assertAssignableEmployee(tx *gorm.DB, employeeID, organizationID uuid.UUID) error {
	var employee models.Employee
	if err := tx.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("employee not found")
		}
		return err
	}
	if employee.OrganizationID == nil || *employee.OrganizationID != organizationID {
		return apperrors.NewBadRequest("employee isn't part of the organization")
	}
	return nil
}

// assertNumbersUnique checks the per-property uniqueness of the identifying
// numbers, excluding the item being updated when excludeID is set. The
// composite unique indexes remain the backstop against concurrent writers.
func assertNumbersUnique(tx *gorm.DB, propertyID uuid.UUID, inventoryNo, registrationNo, documentNo string, serialNo *string, excludeID *uuid.UUID) error {
	type numberCheck struct {
		column string
		value  string
		label  string
	}

	checks := []numberCheck{
		{"inventory_number", inventoryNo, "inventory number"},
		{"registration_number", registrationNo, "registration number"},
		{"document_number", documentNo, "document number"},
	}
	if serialNo != nil && *serialNo != "" {
		checks = append(checks, numberCheck{"serial_number", *serialNo, "serial number"})
	}

	for _, check := range checks {
		query := tx.Model(&models.PropertyItem{}).
			Where("property_id = ?", propertyID).
			Where(fmt.Sprintf("%s = ?", check.column), check.value)
		if excludeID != nil {
			query = query.Where("id != ?", *excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.NewBadRequest(fmt.Sprintf("an item with this %s already exists in the property", check.label))
		}
	}

	return nil
}

// numberSet catches duplicate identifying numbers inside a single batch
// before any row is written.
type numberSet struct {
	inventory    map[string]bool
	registration map[string]bool
	document     map[string]bool
	serial       map[string]bool
}

func newNumberSet() *numberSet {
	return &numberSet{
		inventory:    make(map[string]bool),
		registration: make(map[string]bool),
		document:     make(map[string]bool),
		serial:       make(map[string]bool),
	}
}

func (n *numberSet) add(inventoryNo, registrationNo, documentNo string, serialNo *string) error {
	if n.inventory[inventoryNo] {
		return apperrors.NewBadRequest("duplicate inventory number in the batch")
	}
	if n.registration[registrationNo] {
		return apperrors.NewBadRequest("duplicate registration number in the batch")
	}
	if n.document[documentNo] {
		return apperrors.NewBadRequest("duplicate document number in the batch")
	}
	n.inventory[inventoryNo] = true
	n.registration[registrationNo] = true
	n.document[documentNo] = true

	if serialNo != nil && *serialNo != "" {
		if n.serial[*serialNo] {
			return apperrors.NewBadRequest("duplicate serial number in the batch")
		}
		n.serial[*serialNo] = true
	}
	return nil
}
