package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"inventra-backend/shared/database"
	"inventra-backend/shared/database/models"
)

// tenant bundles one organization with its admin, property and a member
// employee, the minimal setup almost every service operation needs.
type tenant struct {
	org      models.Organization
	admin    models.Admin
	property models.Property
	employee models.Employee
}

var tenantSeq int

// newTenant creates a fully linked organization in the test database.
func newTenant(t *testing.T, db *gorm.DB) *tenant {
	t.Helper()
	tenantSeq++
	n := tenantSeq

	org := models.Organization{Name: fmt.Sprintf("Org %d", n)}
	require.NoError(t, db.Create(&org).Error)

	admin := models.Admin{
		Email:          fmt.Sprintf("admin%d@example.com", n),
		Password:       "hashed",
		FirstName:      "Ada",
		LastName:       "Admin",
		EmailVerified:  true,
		OrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(&admin).Error)

	property := models.Property{OrganizationID: org.ID, Name: fmt.Sprintf("Property %d", n)}
	require.NoError(t, db.Create(&property).Error)

	employee := models.Employee{
		Email:          fmt.Sprintf("employee%d@example.com", n),
		Password:       "hashed",
		FirstName:      "Emma",
		LastName:       "Employee",
		EmailVerified:  true,
		OrganizationID: &org.ID,
	}
	require.NoError(t, db.Create(&employee).Error)

	return &tenant{org: org, admin: admin, property: property, employee: employee}
}

// newOrphanEmployee creates an employee without an organization.
func newOrphanEmployee(t *testing.T, db *gorm.DB) models.Employee {
	t.Helper()
	tenantSeq++

	employee := models.Employee{
		Email:         fmt.Sprintf("orphan%d@example.com", tenantSeq),
		Password:      "hashed",
		FirstName:     "Olive",
		LastName:      "Orphan",
		EmailVerified: true,
	}
	require.NoError(t, db.Create(&employee).Error)
	return employee
}

var itemSeq int

// itemSpec produces a create spec with unique identifying numbers.
func itemSpec(name string) models.ItemCreateSpec {
	itemSeq++
	return models.ItemCreateSpec{
		Name:               name,
		Price:              100,
		InventoryNumber:    fmt.Sprintf("INV-%04d", itemSeq),
		RegistrationNumber: fmt.Sprintf("REG-%04d", itemSeq),
		DocumentNumber:     fmt.Sprintf("DOC-%04d", itemSeq),
		PurchaseDate:       time.Now().Add(-24 * time.Hour),
		Location:           "HQ",
		Room:               "101",
	}
}

// seedItem persists one item directly and returns it.
func seedItem(t *testing.T, db *gorm.DB, propertyID uuid.UUID, employeeID *uuid.UUID) models.PropertyItem {
	t.Helper()
	spec := itemSpec("Seeded Item")

	item := models.PropertyItem{
		PropertyID:         propertyID,
		EmployeeID:         employeeID,
		Name:               spec.Name,
		Price:              spec.Price,
		InventoryNumber:    spec.InventoryNumber,
		RegistrationNumber: spec.RegistrationNumber,
		DocumentNumber:     spec.DocumentNumber,
		PurchaseDate:       spec.PurchaseDate,
		Location:           spec.Location,
		Room:               spec.Room,
	}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	return database.NewTestDB(t)
}

func updateSpecFrom(item models.PropertyItem) models.ItemUpdateSpec {
	return models.ItemUpdateSpec{
		ID:                 item.ID,
		Name:               item.Name,
		Price:              item.Price,
		InventoryNumber:    item.InventoryNumber,
		RegistrationNumber: item.RegistrationNumber,
		DocumentNumber:     item.DocumentNumber,
		SerialNumber:       item.SerialNumber,
		PurchaseDate:       item.PurchaseDate,
		SaleDate:           item.SaleDate,
		Location:           item.Location,
		Room:               item.Room,
		EmployeeID:         item.EmployeeID,
	}
}
