package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
)

func TestCreateScanPreCreatesRows(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	seedItem(t, db, tn.property.ID, nil)
	seedItem(t, db, tn.property.ID, &tn.employee.ID)

	scan, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)
	assert.Equal(t, models.ScanStatusInProgress, scan.Status)

	progress, err := svc.ActiveScanProgress(context.Background(), tn.property.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, progress.TotalItems)
	assert.EqualValues(t, 0, progress.ScannedItems)
}

func TestCreateScanRejectsSecondActiveScan(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	_, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	_, err = svc.CreateScan(context.Background(), &tn.admin)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestActiveScanUniquePerPropertyInStore(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	_, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	// A writer that slipped past the service check still hits the index.
	second := models.PropertyScan{PropertyID: tn.property.ID, Status: models.ScanStatusInProgress}
	err = db.Create(&second).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// Completed scans stay out of the index, so history accumulates freely.
	_, err = svc.CompleteScan(context.Background(), &tn.admin)
	require.NoError(t, err)
	third := models.PropertyScan{PropertyID: tn.property.ID, Status: models.ScanStatusInProgress}
	require.NoError(t, db.Create(&third).Error)
}

func TestFinishScanLosesRaceToConcurrentCompletion(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	scan, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	stale := *scan
	_, err = svc.CompleteScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	err = svc.finishScan(db, &stale)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNoRowsAffected))
}

func TestScanItemMarksProgress(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	item := seedItem(t, db, tn.property.ID, &tn.employee.ID)
	seedItem(t, db, tn.property.ID, &tn.employee.ID)

	_, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	require.NoError(t, svc.ScanItem(context.Background(), &tn.employee, item.ID))

	progress, err := svc.ActiveScanProgress(context.Background(), tn.property.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, progress.TotalItems)
	assert.EqualValues(t, 1, progress.ScannedItems)
}

func TestScanItemIsIdempotent(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	item := seedItem(t, db, tn.property.ID, &tn.employee.ID)

	_, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	require.NoError(t, svc.ScanItem(context.Background(), &tn.employee, item.ID))
	require.NoError(t, svc.ScanItem(context.Background(), &tn.employee, item.ID))

	progress, err := svc.ActiveScanProgress(context.Background(), tn.property.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, progress.TotalItems)
	assert.EqualValues(t, 1, progress.ScannedItems)
}

func TestScanItemAddedAfterScanOpened(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	scanSvc := NewScanService(db)
	itemSvc := NewItemService(db)

	_, err := scanSvc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	spec := itemSpec("Late Arrival")
	spec.EmployeeID = &tn.employee.ID
	created, err := itemSvc.CreateItems(context.Background(), tn.property.ID, tn.org.ID, []models.ItemCreateSpec{spec})
	require.NoError(t, err)

	require.NoError(t, scanSvc.ScanItem(context.Background(), &tn.employee, created[0].ID))

	progress, err := scanSvc.ActiveScanProgress(context.Background(), tn.property.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, progress.TotalItems)
	assert.EqualValues(t, 1, progress.ScannedItems)
}

func TestScanItemWithoutActiveScanFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	item := seedItem(t, db, tn.property.ID, &tn.employee.ID)

	err := svc.ScanItem(context.Background(), &tn.employee, item.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestScanItemNotAssignedToEmployeeFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	unassigned := seedItem(t, db, tn.property.ID, nil)

	_, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	err = svc.ScanItem(context.Background(), &tn.employee, unassigned.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestScanItemFromOtherPropertyFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := NewScanService(db)

	foreign := seedItem(t, db, other.property.ID, &other.employee.ID)

	_, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	err = svc.ScanItem(context.Background(), &tn.employee, foreign.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestCompleteScanAllowsNewScan(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	first, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	completed, err := svc.CompleteScan(context.Background(), &tn.admin)
	require.NoError(t, err)
	assert.Equal(t, first.ID, completed.ID)
	assert.Equal(t, models.ScanStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	second, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCompleteScanWithoutActiveScanFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	_, err := svc.CompleteScan(context.Background(), &tn.admin)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestScanProgressByIDChecksProperty(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := NewScanService(db)

	scan, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	_, err = svc.ScanProgressByID(context.Background(), other.property.ID, scan.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	_, err = svc.ScanProgressByID(context.Background(), tn.property.ID, uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListScansNewestFirst(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := NewScanService(db)

	_, err := svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)
	_, err = svc.CompleteScan(context.Background(), &tn.admin)
	require.NoError(t, err)
	_, err = svc.CreateScan(context.Background(), &tn.admin)
	require.NoError(t, err)

	scans, err := svc.ListScans(context.Background(), tn.property.ID)
	require.NoError(t, err)
	require.Len(t, scans, 2)
}
