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

func newSuggestionService(db *gorm.DB) *SuggestionService {
	return NewSuggestionService(db, NewItemService(db))
}

func TestCreateSuggestionStartsPending(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Proposed Chair")}}

	suggestion, err := svc.Create(context.Background(), &tn.employee, "New chair", "for room 101", payload)
	require.NoError(t, err)

	assert.Equal(t, models.SuggestionStatusPending, suggestion.Status)
	assert.Equal(t, tn.property.ID, suggestion.PropertyID)
	assert.Equal(t, tn.employee.ID, suggestion.EmployeeID)

	// The payload must survive the round trip through its column.
	var reloaded models.PropertySuggestion
	require.NoError(t, db.First(&reloaded, suggestion.ID).Error)
	require.Len(t, reloaded.Payload.Create, 1)
	assert.Equal(t, "Proposed Chair", reloaded.Payload.Create[0].Name)
}

func TestCreateSuggestionRejectsEmptyPayload(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	_, err := svc.Create(context.Background(), &tn.employee, "Nothing", "", models.SuggestionPayload{})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestAcceptSuggestionReplaysPayload(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	toUpdate := seedItem(t, db, tn.property.ID, nil)
	toDelete := seedItem(t, db, tn.property.ID, nil)

	updateSpec := updateSpecFrom(toUpdate)
	updateSpec.Name = "Updated by suggestion"

	payload := models.SuggestionPayload{
		Create: []models.ItemCreateSpec{itemSpec("Created by suggestion")},
		Update: []models.ItemUpdateSpec{updateSpec},
		Delete: []uuid.UUID{toDelete.ID},
	}

	suggestion, err := svc.Create(context.Background(), &tn.employee, "Batch", "", payload)
	require.NoError(t, err)

	accepted, err := svc.Accept(context.Background(), &tn.admin, suggestion.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SuggestionStatusApproved, accepted.Status)
	require.NotNil(t, accepted.ResolvedAt)

	var created models.PropertyItem
	require.NoError(t, db.Where("property_id = ? AND name = ?", tn.property.ID, "Created by suggestion").First(&created).Error)

	var updated models.PropertyItem
	require.NoError(t, db.First(&updated, toUpdate.ID).Error)
	assert.Equal(t, "Updated by suggestion", updated.Name)

	var deleted int64
	require.NoError(t, db.Model(&models.PropertyItem{}).Where("id = ?", toDelete.ID).Count(&deleted).Error)
	assert.EqualValues(t, 0, deleted)
}

func TestAcceptSuggestionIsAtomic(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	existing := seedItem(t, db, tn.property.ID, nil)

	// Second spec collides with an existing inventory number, so the whole
	// replay must roll back.
	good := itemSpec("Fine")
	bad := itemSpec("Collides")
	bad.InventoryNumber = existing.InventoryNumber

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{good, bad}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Doomed", "", payload)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), &tn.admin, suggestion.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	// Nothing was written and the suggestion stays PENDING.
	var count int64
	require.NoError(t, db.Model(&models.PropertyItem{}).Where("property_id = ?", tn.property.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var reloaded models.PropertySuggestion
	require.NoError(t, db.First(&reloaded, suggestion.ID).Error)
	assert.Equal(t, models.SuggestionStatusPending, reloaded.Status)
}

func TestAcceptSuggestionTwiceFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Once")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Once", "", payload)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), &tn.admin, suggestion.ID)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), &tn.admin, suggestion.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	// The payload did not replay a second time.
	var count int64
	require.NoError(t, db.Model(&models.PropertyItem{}).Where("property_id = ?", tn.property.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDeclineSuggestionKeepsInventoryUntouched(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Rejected")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Rejected", "", payload)
	require.NoError(t, err)

	declined, err := svc.Decline(context.Background(), &tn.admin, suggestion.ID, "not in budget")
	require.NoError(t, err)

	assert.Equal(t, models.SuggestionStatusDeclined, declined.Status)
	require.NotNil(t, declined.Feedback)
	assert.Equal(t, "not in budget", *declined.Feedback)
	require.NotNil(t, declined.ResolvedAt)

	var count int64
	require.NoError(t, db.Model(&models.PropertyItem{}).Where("property_id = ?", tn.property.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestUpdateDeclinedSuggestionReturnsToPending(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Try Again")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Retry", "", payload)
	require.NoError(t, err)

	_, err = svc.Decline(context.Background(), &tn.admin, suggestion.ID, "too expensive")
	require.NoError(t, err)

	cheaper := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Cheaper Option")}}
	require.NoError(t, svc.Update(context.Background(), &tn.employee, suggestion.ID, "cheaper now", cheaper))

	var reloaded models.PropertySuggestion
	require.NoError(t, db.First(&reloaded, suggestion.ID).Error)
	assert.Equal(t, models.SuggestionStatusPending, reloaded.Status)
	assert.Nil(t, reloaded.Feedback)
	assert.Nil(t, reloaded.ResolvedAt)
	require.Len(t, reloaded.Payload.Create, 1)
	assert.Equal(t, "Cheaper Option", reloaded.Payload.Create[0].Name)
}

func TestUpdateApprovedSuggestionFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Locked")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Locked", "", payload)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), &tn.admin, suggestion.ID)
	require.NoError(t, err)

	err = svc.Update(context.Background(), &tn.employee, suggestion.ID, "", payload)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestUpdateSuggestionOfAnotherEmployeeFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	colleague := models.Employee{
		Email:          "colleague@example.com",
		Password:       "hashed",
		OrganizationID: tn.employee.OrganizationID,
	}
	require.NoError(t, db.Create(&colleague).Error)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Private")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Private", "", payload)
	require.NoError(t, err)

	err = svc.Update(context.Background(), &colleague, suggestion.ID, "", payload)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestAcceptSuggestionFromAnotherPropertyFails(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	other := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Elsewhere")}}
	suggestion, err := svc.Create(context.Background(), &other.employee, "Elsewhere", "", payload)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), &tn.admin, suggestion.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestEmployeeCannotDeleteApprovedSuggestion(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Permanent")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Permanent", "", payload)
	require.NoError(t, err)

	_, err = svc.Accept(context.Background(), &tn.admin, suggestion.ID)
	require.NoError(t, err)

	err = svc.DeleteAsEmployee(context.Background(), &tn.employee, suggestion.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnauthorized))
}

func TestAdminCanDeletePendingSuggestion(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Disposable")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Disposable", "", payload)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAsAdmin(context.Background(), &tn.admin, suggestion.ID))

	var count int64
	require.NoError(t, db.Model(&models.PropertySuggestion{}).Where("id = ?", suggestion.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestResolveSuggestionLosesRaceToConcurrentResolution(t *testing.T) {
	db := newServiceDB(t)
	tn := newTenant(t, db)
	svc := newSuggestionService(db)

	payload := models.SuggestionPayload{Create: []models.ItemCreateSpec{itemSpec("Contested")}}
	suggestion, err := svc.Create(context.Background(), &tn.employee, "Contested", "", payload)
	require.NoError(t, err)

	// Another resolver closed the suggestion after this copy was loaded.
	stale := *suggestion
	require.NoError(t, db.Model(&models.PropertySuggestion{}).
		Where("id = ?", suggestion.ID).
		Update("status", models.SuggestionStatusApproved).Error)

	feedback := "too late"
	err = svc.resolveSuggestion(db, &stale, models.SuggestionStatusDeclined, &feedback)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNoRowsAffected))

	// The winning resolution sticks.
	var reloaded models.PropertySuggestion
	require.NoError(t, db.First(&reloaded, suggestion.ID).Error)
	assert.Equal(t, models.SuggestionStatusApproved, reloaded.Status)
	assert.Nil(t, reloaded.Feedback)
}
