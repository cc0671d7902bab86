// Package ownership resolves the tenancy chain every mutating operation must
// walk: principal → organization → property → target entity. Handlers call
// the hops in that order so a missing owning link is always reported as a bad
// request, a missing target as not found, and a relationship mismatch as a
// bad request or unauthorized, never interchangeably.
package ownership

import (
	"errors"

	"gorm.io/gorm"

	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
)

// OrganizationOfAdmin returns the organization the admin owns.
func OrganizationOfAdmin(db *gorm.DB, admin *models.Admin) (*models.Organization, error) {
	if admin.OrganizationID == nil {
		return nil, apperrors.NewBadRequest("admin doesn't own an organization")
	}

	var org models.Organization
	if err := db.First(&org, *admin.OrganizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBadRequest("admin doesn't own an organization")
		}
		return nil, err
	}
	return &org, nil
}

// OrganizationOfEmployee returns the organization the employee belongs to.
func OrganizationOfEmployee(db *gorm.DB, employee *models.Employee) (*models.Organization, error) {
	if employee.OrganizationID == nil {
		return nil, apperrors.NewBadRequest("employee isn't part of any organization")
	}

	var org models.Organization
	if err := db.First(&org, *employee.OrganizationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBadRequest("employee isn't part of any organization")
		}
		return nil, err
	}
	return &org, nil
}

// PropertyOf returns the property owned by the organization.
func PropertyOf(db *gorm.DB, org *models.Organization) (*models.Property, error) {
	var property models.Property
	if err := db.Where("organization_id = ?", org.ID).First(&property).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewBadRequest("organization doesn't have a property")
		}
		return nil, err
	}
	return &property, nil
}

// PropertyOfAdmin walks admin → organization → property in one call.
func PropertyOfAdmin(db *gorm.DB, admin *models.Admin) (*models.Organization, *models.Property, error) {
	org, err := OrganizationOfAdmin(db, admin)
	if err != nil {
		return nil, nil, err
	}
	property, err := PropertyOf(db, org)
	if err != nil {
		return nil, nil, err
	}
	return org, property, nil
}

// PropertyOfEmployee walks employee → organization → property in one call.
func PropertyOfEmployee(db *gorm.DB, employee *models.Employee) (*models.Organization, *models.Property, error) {
	org, err := OrganizationOfEmployee(db, employee)
	if err != nil {
		return nil, nil, err
	}
	property, err := PropertyOf(db, org)
	if err != nil {
		return nil, nil, err
	}
	return org, property, nil
}

// AssertItemInProperty checks that the item is part of the property.
func AssertItemInProperty(item *models.PropertyItem, property *models.Property) error {
	if item.PropertyID != property.ID {
		return apperrors.NewBadRequest("item isn't part of the property")
	}
	return nil
}

// AssertEmployeeInOrganization checks that the employee is a member of the organization.
func AssertEmployeeInOrganization(employee *models.Employee, org *models.Organization) error {
	if employee.OrganizationID == nil || *employee.OrganizationID != org.ID {
		return apperrors.NewBadRequest("employee isn't part of the organization")
	}
	return nil
}
