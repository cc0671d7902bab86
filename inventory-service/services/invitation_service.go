package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventra-backend/shared/config"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
	"inventra-backend/shared/utils/ownership"
)

// InvitationService handles organization membership onboarding. An invitation
// is open until the invitee accepts it or either side deletes it.
type InvitationService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewInvitationService(db *gorm.DB, cfg *config.Config) *InvitationService {
	return &InvitationService{db: db, cfg: cfg}
}

// Create issues an invitation from the admin's organization to an employee.
func (s *InvitationService) Create(ctx context.Context, admin *models.Admin, employeeID uuid.UUID, description string) (*models.OrganizationInvitation, error) {
	db := s.db.WithContext(ctx)

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		return nil, err
	}

	var employee models.Employee
	if err := db.First(&employee, employeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("employee not found")
		}
		return nil, err
	}

	var existing int64
	if err := db.Model(&models.OrganizationInvitation{}).
		Where("organization_id = ? AND employee_id = ?", org.ID, employee.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperrors.NewConflict("employee is already invited to the organization")
	}

	var open int64
	if err := db.Model(&models.OrganizationInvitation{}).
		Where("organization_id = ?", org.ID).
		Count(&open).Error; err != nil {
		return nil, err
	}
	if open >= int64(s.cfg.GetMaxOpenInvitations()) {
		return nil, apperrors.NewConflict("organization has reached the open invitation limit")
	}

	invitation := models.OrganizationInvitation{
		OrganizationID: org.ID,
		EmployeeID:     employee.ID,
		Description:    description,
	}
	if err := db.Create(&invitation).Error; err != nil {
		return nil, err
	}

	return &invitation, nil
}

// Accept moves the employee into the inviting organization and removes the
// invitation. Both writes commit together.
func (s *InvitationService) Accept(ctx context.Context, employee *models.Employee, invitationID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	invitation, err := s.findInvitation(db, invitationID)
	if err != nil {
		return err
	}
	if invitation.EmployeeID != employee.ID {
		return apperrors.NewUnauthorized("invitation isn't addressed to the employee")
	}

	var org models.Organization
	if err := db.First(&org, invitation.OrganizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("organization not found")
		}
		return err
	}

	if employee.OrganizationID != nil && *employee.OrganizationID != org.ID {
		return apperrors.NewBadRequest("employee is already part of another organization")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		employee.OrganizationID = &org.ID

		result := tx.Save(employee)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNoRowsAffected("no rows affected while joining organization")
		}

		result = tx.Delete(invitation)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNoRowsAffected("no rows affected while removing invitation")
		}
		return nil
	})
}

// UpdateAsAdmin rewrites the description of an invitation issued by the
// admin's organization.
func (s *InvitationService) UpdateAsAdmin(ctx context.Context, admin *models.Admin, invitationID uuid.UUID, description string) error {
	db := s.db.WithContext(ctx)

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		return err
	}

	invitation, err := s.findInvitation(db, invitationID)
	if err != nil {
		return err
	}
	if invitation.OrganizationID != org.ID {
		return apperrors.NewBadRequest("invitation isn't part of the organization")
	}

	return s.saveDescription(db, invitation, description)
}

// UpdateAsEmployee rewrites the description of an invitation addressed to the
// employee.
func (s *InvitationService) UpdateAsEmployee(ctx context.Context, employee *models.Employee, invitationID uuid.UUID, description string) error {
	db := s.db.WithContext(ctx)

	invitation, err := s.findInvitation(db, invitationID)
	if err != nil {
		return err
	}
	if invitation.EmployeeID != employee.ID {
		return apperrors.NewUnauthorized("invitation isn't addressed to the employee")
	}

	return s.saveDescription(db, invitation, description)
}

// DeleteAsAdmin withdraws an invitation issued by the admin's organization.
func (s *InvitationService) DeleteAsAdmin(ctx context.Context, admin *models.Admin, invitationID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		return err
	}

	invitation, err := s.findInvitation(db, invitationID)
	if err != nil {
		return err
	}
	if invitation.OrganizationID != org.ID {
		return apperrors.NewBadRequest("invitation isn't part of the organization")
	}

	return s.deleteInvitation(db, invitation)
}

// DeleteAsEmployee declines an invitation addressed to the employee.
func (s *InvitationService) DeleteAsEmployee(ctx context.Context, employee *models.Employee, invitationID uuid.UUID) error {
	db := s.db.WithContext(ctx)

	invitation, err := s.findInvitation(db, invitationID)
	if err != nil {
		return err
	}
	if invitation.EmployeeID != employee.ID {
		return apperrors.NewUnauthorized("invitation isn't addressed to the employee")
	}

	return s.deleteInvitation(db, invitation)
}

// ListForOrganization returns the open invitations issued by the admin's organization.
func (s *InvitationService) ListForOrganization(ctx context.Context, admin *models.Admin) ([]models.OrganizationInvitation, error) {
	db := s.db.WithContext(ctx)

	org, err := ownership.OrganizationOfAdmin(db, admin)
	if err != nil {
		return nil, err
	}

	var invitations []models.OrganizationInvitation
	if err := db.Preload("Employee").
		Where("organization_id = ?", org.ID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

// ListForEmployee returns the invitations addressed to the employee.
func (s *InvitationService) ListForEmployee(ctx context.Context, employee *models.Employee) ([]models.OrganizationInvitation, error) {
	db := s.db.WithContext(ctx)

	var invitations []models.OrganizationInvitation
	if err := db.Preload("Organization").
		Where("employee_id = ?", employee.ID).
		Order("created_at DESC").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (s *InvitationService) findInvitation(db *gorm.DB, invitationID uuid.UUID) (*models.OrganizationInvitation, error) {
	var invitation models.OrganizationInvitation
	if err := db.First(&invitation, invitationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("invitation not found")
		}
		return nil, err
	}
	return &invitation, nil
}

func (s *InvitationService) saveDescription(db *gorm.DB, invitation *models.OrganizationInvitation, description string) error {
	invitation.Description = description

	result := db.Save(invitation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected while updating invitation")
	}
	return nil
}

func (s *InvitationService) deleteInvitation(db *gorm.DB, invitation *models.OrganizationInvitation) error {
	result := db.Delete(invitation)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNoRowsAffected("no rows affected while removing invitation")
	}
	return nil
}
