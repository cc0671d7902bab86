package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models"
	"inventra-backend/shared/utils/apperrors"
)

func seedChain(t *testing.T, db *gorm.DB) (models.Organization, models.Admin, models.Property, models.Employee) {
	t.Helper()

	org := models.Organization{Name: "Chain Org"}
	require.NoError(t, db.Create(&org).Error)

	admin := models.Admin{Email: "chain-admin@example.com", Password: "hashed", OrganizationID: &org.ID}
	require.NoError(t, db.Create(&admin).Error)

	property := models.Property{OrganizationID: org.ID, Name: "Chain Property"}
	require.NoError(t, db.Create(&property).Error)

	employee := models.Employee{Email: "chain-employee@example.com", Password: "hashed", OrganizationID: &org.ID}
	require.NoError(t, db.Create(&employee).Error)

	return org, admin, property, employee
}

func TestPropertyOfAdmin(t *testing.T) {
	db := database.NewTestDB(t)
	org, admin, property, _ := seedChain(t, db)

	gotOrg, gotProperty, err := PropertyOfAdmin(db, &admin)
	require.NoError(t, err)
	assert.Equal(t, org.ID, gotOrg.ID)
	assert.Equal(t, property.ID, gotProperty.ID)
}

func TestPropertyOfAdminWithoutOrganization(t *testing.T) {
	db := database.NewTestDB(t)

	admin := models.Admin{Email: "rootless@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&admin).Error)

	_, _, err := PropertyOfAdmin(db, &admin)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestPropertyOfAdminWithoutProperty(t *testing.T) {
	db := database.NewTestDB(t)

	org := models.Organization{Name: "Empty Org"}
	require.NoError(t, db.Create(&org).Error)
	admin := models.Admin{Email: "landless@example.com", Password: "hashed", OrganizationID: &org.ID}
	require.NoError(t, db.Create(&admin).Error)

	_, _, err := PropertyOfAdmin(db, &admin)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestPropertyOfEmployee(t *testing.T) {
	db := database.NewTestDB(t)
	org, _, property, employee := seedChain(t, db)

	gotOrg, gotProperty, err := PropertyOfEmployee(db, &employee)
	require.NoError(t, err)
	assert.Equal(t, org.ID, gotOrg.ID)
	assert.Equal(t, property.ID, gotProperty.ID)
}

func TestPropertyOfEmployeeWithoutOrganization(t *testing.T) {
	db := database.NewTestDB(t)

	employee := models.Employee{Email: "drifter@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&employee).Error)

	_, _, err := PropertyOfEmployee(db, &employee)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestAssertItemInProperty(t *testing.T) {
	db := database.NewTestDB(t)
	_, _, property, _ := seedChain(t, db)

	otherOrg := models.Organization{Name: "Other Org"}
	require.NoError(t, db.Create(&otherOrg).Error)
	otherProperty := models.Property{OrganizationID: otherOrg.ID, Name: "Other Property"}
	require.NoError(t, db.Create(&otherProperty).Error)

	item := models.PropertyItem{PropertyID: property.ID, Name: "Thing", InventoryNumber: "I-1", RegistrationNumber: "R-1", DocumentNumber: "D-1"}
	require.NoError(t, db.Create(&item).Error)

	assert.NoError(t, AssertItemInProperty(&item, &property))

	err := AssertItemInProperty(&item, &otherProperty)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}

func TestAssertEmployeeInOrganization(t *testing.T) {
	db := database.NewTestDB(t)
	org, _, _, employee := seedChain(t, db)

	otherOrg := models.Organization{Name: "Second Org"}
	require.NoError(t, db.Create(&otherOrg).Error)

	assert.NoError(t, AssertEmployeeInOrganization(&employee, &org))

	err := AssertEmployeeInOrganization(&employee, &otherOrg)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))

	loner := models.Employee{Email: "loner@example.com", Password: "hashed"}
	require.NoError(t, db.Create(&loner).Error)
	err = AssertEmployeeInOrganization(&loner, &org)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindBadRequest))
}
