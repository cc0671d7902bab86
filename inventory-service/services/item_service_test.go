package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inventra-backend/shared/database/models"
	"inventra-backend/shared/database/models/document"
	"inventra-backend/shared/utils/apperrors"
)

// fakeObjectStore records which objects were deleted from storage.
type fakeObjectStore struct {
	deleted []string
}

func (f *fakeObjectStore) DeleteObject(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func TestCreateItemsBatch(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	first := itemSpec("Laptop")
	first.EmployeeID = &tn.employee.ID
	second := itemSpec("Monitor")

	created, err := svc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{first, second})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, tn.property.ID, created[0].PropertyID)
	require.NotNil(t, created[0].EmployeeID)
	assert.Equal(t, tn.employee.ID, *created[0].EmployeeID)
	assert.Nil(t, created[1].EmployeeID)

	var count int64
	require.NoError(t, db.Model(&models.PropertyItem{}).Where("property_id = ?", tn.property.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestCreateItemsRejectsDuplicateNumberInProperty(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	existing := seedItem(t, db, tn.property.ID, nil)

	spec := itemSpec("Copy")
	spec.InventoryNumber = existing.InventoryNumber

	_, err := svc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{spec})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestCreateItemsAllowsSameNumberInOtherProperty(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := NewItemService(db)

	existing := seedItem(t, db, other.property.ID, nil)

	spec := itemSpec("Twin")
	spec.InventoryNumber = existing.InventoryNumber

	_, err := svc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{spec})
	assert.NoError(t, err)
}

func TestCreateItemsRejectsDuplicateNumberInBatch(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	first := itemSpec("One")
	second := itemSpec("Two")
	second.RegistrationNumber = first.RegistrationNumber

	_, err := svc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{first, second})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	// The batch is all-or-nothing.
	var count int64
	require.NoError(t, db.Model(&models.PropertyItem{}).Where("property_id = ?", tn.property.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateItemsRejectsFuturePurchaseDate(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	spec := itemSpec("Time Machine")
	spec.PurchaseDate = time.Now().Add(48 * time.Hour)

	_, err := svc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{spec})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestCreateItemsRejectsSaleBeforePurchase(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	spec := itemSpec("Sold Early")
	sale := spec.PurchaseDate.Add(-time.Hour)
	spec.SaleDate = &sale

	_, err := svc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{spec})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestCreateItemsRejectsAssigneeOutsideOrganization(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := NewItemService(db)

	spec := itemSpec("Foreign Hands")
	spec.EmployeeID = &other.employee.ID

	_, err := svc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{spec})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestUpdateItemsReplacesFieldsAndReassigns(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	item := seedItem(t, db, tn.property.ID, nil)

	spec := updateSpecFrom(item)
	spec.Name = "Renamed"
	spec.Room = "305"
	spec.EmployeeID = &tn.employee.ID

	require.NoError(t, svc.UpdateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemUpdateSpec{spec}))

	var updated models.PropertyItem
	require.NoError(t, db.First(&updated, item.ID).Error)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "305", updated.Room)
	require.NotNil(t, updated.EmployeeID)
	assert.Equal(t, tn.employee.ID, *updated.EmployeeID)
}

func TestUpdateItemsClearsAssignment(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	item := seedItem(t, db, tn.property.ID, &tn.employee.ID)

	spec := updateSpecFrom(item)
	spec.EmployeeID = nil

	require.NoError(t, svc.UpdateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemUpdateSpec{spec}))

	var updated models.PropertyItem
	require.NoError(t, db.First(&updated, item.ID).Error)
	assert.Nil(t, updated.EmployeeID)
}

func TestUpdateItemsRejectsItemFromOtherProperty(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := NewItemService(db)

	foreign := seedItem(t, db, other.property.ID, nil)

	spec := updateSpecFrom(foreign)
	spec.Name = "Hijacked"

	err := svc.UpdateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemUpdateSpec{spec})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestDeleteItemsRemovesScanRows(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	item := seedItem(t, db, tn.property.ID, nil)

	scan := models.PropertyScan{PropertyID: tn.property.ID, Status: models.ScanStatusInProgress}
	require.NoError(t, db.Create(&scan).Error)
	require.NoError(t, db.Create(&models.PropertyScanItem{ScanID: scan.ID, ItemID: item.ID}).Error)

	require.NoError(t, svc.DeleteItems(context.Background(), tn.property.ID, []uuid.UUID{item.ID}))

	var items int64
	require.NoError(t, db.Model(&models.PropertyItem{}).Where("id = ?", item.ID).Count(&items).Error)
	assert.EqualValues(t, 0, items)

	var rows int64
	require.NoError(t, db.Model(&models.PropertyScanItem{}).Where("item_id = ?", item.ID).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
}

func TestSerialNumberUniquePerPropertyInStore(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)

	serial := "SER-0001"
	first := seedItem(t, db, tn.property.ID, nil)
	first.SerialNumber = &serial
	require.NoError(t, db.Save(&first).Error)

	// Direct write with the same serial in the same property hits the index.
	twin := seedItem(t, db, tn.property.ID, nil)
	twin.SerialNumber = &serial
	err := db.Save(&twin).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The same serial is fine in another property, and absent serials never collide.
	foreign := seedItem(t, db, other.property.ID, nil)
	foreign.SerialNumber = &serial
	require.NoError(t, db.Save(&foreign).Error)
	seedItem(t, db, tn.property.ID, nil)
	seedItem(t, db, tn.property.ID, nil)
}

func TestDeleteItemsRemovesDocumentRowsAndObjects(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	store := &fakeObjectStore{}
	prev := newObjectStore
	newObjectStore = func() (objectStore, error) { return store, nil }
	t.Cleanup(func() { newObjectStore = prev })

	item := seedItem(t, db, tn.property.ID, nil)
	doc := document.ItemDocument{
		ItemID:       item.ID,
		FileName:     "invoice.pdf",
		ObjectKey:    "properties/x/items/y/invoice.pdf",
		ContentType:  "application/pdf",
		SizeBytes:    512,
		UploadedByID: tn.admin.ID,
		UploadedBy:   "ADMIN",
	}
	require.NoError(t, db.Create(&doc).Error)

	require.NoError(t, svc.DeleteItems(context.Background(), tn.property.ID, []uuid.UUID{item.ID}))

	var rows int64
	require.NoError(t, db.Model(&document.ItemDocument{}).Where("item_id = ?", item.ID).Count(&rows).Error)
	assert.EqualValues(t, 0, rows)
	assert.Equal(t, []string{doc.ObjectKey}, store.deleted)
}

func TestDeleteItemsUnknownIDIsNotFound(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewItemService(db)

	err := svc.DeleteItems(context.Background(), tn.property.ID, []uuid.UUID{uuid.New()})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
