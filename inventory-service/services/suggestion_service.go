package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/ownership"
)

// SuggestionService runs the suggestion state machine. A suggestion's payload
// is opaque until an admin accepts it; acceptance replays the payload through
// the same ItemService used for direct admin edits, so there is no second
// validation path to drift.
type SuggestionService struct {
	db    *gorm.DB
	items *ItemService
}

func NewSuggestionService(db *gorm.DB, items *ItemService) *SuggestionService {
	return &SuggestionService{db: db, items: items}
}

// Create stores a new PENDING suggestion authored by the employee.
func (s *SuggestionService) Create(ctx context.Context, employee *models.Employee, name, description string, payload models.SuggestionPayload) (*models.PropertySuggestion, error) {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfEmployee(db, employee)
	if err != nil {
		return nil, err
	}

	if payload.IsEmpty() {
		return nil, apperrors.NewBadRequest("suggestion payload can't be empty")
	}

	suggestion := models.PropertySuggestion{
		PropertyID:  property.ID,
		EmployeeID:  employee.ID,
		Name:        name,
		Description: description,
		Status:      models.SuggestionStatusPending,
		Payload:     payload,
	}
	if err := db.Create(&suggestion).Error; err != nil {
		return nil, err
	}

	return &suggestion, nil
}

// Update replaces the payload and description of a PENDING or DECLINED
// suggestion. A declined suggestion returns to PENDING with its feedback and
// resolution cleared.
func (s *SuggestionService) Update(ctx context.Context, employee *models.Employee, suggestionID uuid.UUID, description string, payload models.SuggestionPayload) error {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfEmployee(db, employee)
	if err != nil {
		return err
	}

	suggestion, err := s.findSuggestion(db, suggestionID)
	if err != nil {
		return err
	}
	if suggestion.PropertyID != property.ID {
		return apperrors.NewBadRequest("suggestion isn't part of the property")
	}
	if suggestion.EmployeeID != employee.ID {
		return apperrors.NewUnauthorized("suggestion doesn't belong to the employee")
	}
	if suggestion.Status == models.SuggestionStatusApproved {
		return apperrors.NewBadRequest("suggestion is approved and cannot be updated")
	}

	if payload.IsEmpty() {
		return apperrors.NewBadRequest("suggestion payload can't be empty")
	}

	suggestion.Description = description
	suggestion.Payload = payload
	suggestion.Status = models.SuggestionStatusPending
	suggestion.Feedback = nil
	suggestion.ResolvedAt = nil

	result := db.Save(suggestion)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected while updating suggestion")
	}
	return nil
}

// DeleteAsEmployee removes the author's own suggestion unless it has been approved.
func (s *SuggestionService) DeleteAsEmployee(ctx context.Context, employee *models.Employee, suggestionID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfEmployee(db, employee)
	if err != nil {
		return err
	}

	suggestion, err := s.findSuggestion(db, suggestionID)
	if err != nil {
		return err
	}
	if suggestion.PropertyID != property.ID {
		return apperrors.NewBadRequest("suggestion isn't part of the property")
	}
	if suggestion.EmployeeID != employee.ID {
		return apperrors.NewUnauthorized("suggestion doesn't belong to the employee")
	}

	return s.deleteSuggestion(db, suggestion)
}

// DeleteAsAdmin removes any not-yet-approved suggestion in the admin's property.
func (s *SuggestionService) DeleteAsAdmin(ctx context.Context, admin *models.Admin, suggestionID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		return err
	}

	suggestion, err := s.findSuggestion(db, suggestionID)
	if err != nil {
		return err
	}
	if suggestion.PropertyID != property.ID {
		return apperrors.NewBadRequest("suggestion isn't part of the property")
	}

	return s.deleteSuggestion(db, suggestion)
}

// Accept replays a PENDING suggestion's payload through the item write path
// and marks it APPROVED. The replay and the status change commit together.
func (s *SuggestionService) Accept(ctx context.Context, admin *models.Admin, suggestionID uuid.UUID) (*models.PropertySuggestion, error) {
	db := s.db.WithContext(ctx)

	org, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.findSuggestion(db, suggestionID)
	if err != nil {
		return nil, err
	}
	if suggestion.PropertyID != property.ID {
		return nil, apperrors.NewBadRequest("suggestion isn't part of the property")
	}
	if suggestion.Status != models.SuggestionStatusPending {
		return nil, apperrors.NewBadRequest("suggestion is already closed or approved")
	}

	var objectKeys []string
	err = db.Transaction(func(tx *gorm.DB) error {
		// Creates run first so updates and deletes in the same batch never
		// race a row that doesn't exist yet.
		if len(suggestion.Payload.Create) > 0 {
			if _, err := s.items.createItems(tx, property.ID, org.ID, suggestion.Payload.Create); err != nil {
				return err
			}
		}
		if len(suggestion.Payload.Update) > 0 {
			if err := s.items.updateItems(tx, property.ID, org.ID, suggestion.Payload.Update); err != nil {
				return err
			}
		}
		if len(suggestion.Payload.Delete) > 0 {
			var err error
			if objectKeys, err = s.items.deleteItems(tx, property.ID, suggestion.Payload.Delete); err != nil {
				return err
			}
		}

		return s.resolveSuggestion(tx, suggestion, models.SuggestionStatusApproved, nil)
	})
	if err != nil {
		return nil, err
	}

	removeObjects(ctx, objectKeys)
	return suggestion, nil
}

// Decline closes a PENDING suggestion with feedback. No inventory mutation occurs.
func (s *SuggestionService) Decline(ctx context.Context, admin *models.Admin, suggestionID uuid.UUID, feedback string) (*models.PropertySuggestion, error) {
	db := s.db.WithContext(ctx)

	_, property, err := ownership.PropertyOfAdmin(db, admin)
	if err != nil {
		return nil, err
	}

	suggestion, err := s.findSuggestion(db, suggestionID)
	if err != nil {
		return nil, err
	}
	if suggestion.PropertyID != property.ID {
		return nil, apperrors.NewBadRequest("suggestion isn't part of the property")
	}
	if suggestion.Status != models.SuggestionStatusPending {
		return nil, apperrors.NewBadRequest("suggestion is already closed or approved")
	}

	if err := s.resolveSuggestion(db, suggestion, models.SuggestionStatusDeclined, &feedback); err != nil {
		return nil, err
	}

	return suggestion, nil
}

// resolveSuggestion closes a suggestion with a conditional write so a
// concurrent resolution loses the race instead of silently replaying. The
// in-memory struct is only updated once the row actually changed.
func (s *SuggestionService) resolveSuggestion(db *gorm.DB, suggestion *models.PropertySuggestion, status string, feedback *string) error {
	now := time.Now()
	changes := map[string]interface{}{
		"status":      status,
		"resolved_at": now,
	}
	if feedback != nil {
		changes["feedback"] = *feedback
	}

	result := db.Model(&models.PropertySuggestion{}).
		Where("id = ? AND status = ?", suggestion.ID, models.SuggestionStatusPending).
		Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected while resolving suggestion")
	}

	suggestion.Status = status
	suggestion.Feedback = feedback
	suggestion.ResolvedAt = &now
	return nil
}

func (s *SuggestionService) findSuggestion(db *gorm.DB, suggestionID uuid.UUID) (*models.PropertySuggestion, error) {
	var suggestion models.PropertySuggestion
	if err := db.First(&suggestion, suggestionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("suggestion not found")
		}
		return nil, err
	}
	return &suggestion, nil
}

func (s *SuggestionService) deleteSuggestion(db *gorm.DB, suggestion *models.PropertySuggestion) error {
	if suggestion.Status == models.SuggestionStatusApproved {
		return apperrors.NewUnauthorized("suggestion is already approved by the admin")
	}

	result := db.Delete(suggestion)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected while deleting suggestion")
	}
	return nil
}
