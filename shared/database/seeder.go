package database

import (
	"fmt"
	"log"
	"time"

	"inventra-backend/shared/config"
	"inventra-backend/shared/database/models"
	utils "inventra-backend/shared/utils/auth"
)

// SeedDatabase seeds the database with demo data
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	org, created, err := seedOrganization()
	if err != nil {
		return err
	}

	if err := seedAdminFromConfig(org); err != nil {
		return err
	}

	property, err := seedProperty(org)
	if err != nil {
		return err
	}

	employees, err := seedEmployees(org)
	if err != nil {
		return err
	}

	itemsCreated, err := seedItems(property, employees)
	if err != nil {
		return err
	}

	if created || itemsCreated > 0 {
		log.Printf("✅ Database seeding completed (%d items created)", itemsCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return nil
}

// seedOrganization creates the demo organization
func seedOrganization() (*models.Organization, bool, error) {
	var org models.Organization
	result := DB.Where("name = ?", "Demo Organization").First(&org)
	if result.Error == nil {
		return &org, false, nil
	}

	org = models.Organization{Name: "Demo Organization"}
	if err := DB.Create(&org).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create demo organization: %v", err)
	}

	return &org, true, nil
}

// seedAdminFromConfig creates the admin account from config
func seedAdminFromConfig(org *models.Organization) error {
	cfg := config.GetConfig()

	var existing models.Admin
	if err := DB.Where("email = ?", cfg.SeedAdminEmail).First(&existing).Error; err == nil {
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %v", err)
	}

	admin := models.Admin{
		Email:          cfg.SeedAdminEmail,
		Password:       hashedPassword,
		FirstName:      "Demo",
		LastName:       "Admin",
		EmailVerified:  true,
		OrganizationID: &org.ID,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %v", err)
	}

	log.Printf("✅ Admin created: %s", cfg.SeedAdminEmail)
	return nil
}

// seedProperty creates the demo property for the organization
func seedProperty(org *models.Organization) (*models.Property, error) {
	var property models.Property
	result := DB.Where("organization_id = ?", org.ID).First(&property)
	if result.Error == nil {
		return &property, nil
	}

	property = models.Property{
		OrganizationID: org.ID,
		Name:           "Main Office",
	}
	if err := DB.Create(&property).Error; err != nil {
		return nil, fmt.Errorf("failed to create demo property: %v", err)
	}

	return &property, nil
}

// seedEmployees creates demo employees for the organization
func seedEmployees(org *models.Organization) ([]models.Employee, error) {
	seeds := []models.Employee{
		{Email: "john.doe@inventra.com", FirstName: "John", LastName: "Doe"},
		{Email: "jane.smith@inventra.com", FirstName: "Jane", LastName: "Smith"},
	}

	hashedPassword, err := utils.HashPassword("employee123")
	if err != nil {
		return nil, fmt.Errorf("failed to hash employee password: %v", err)
	}

	var employees []models.Employee
	for _, seed := range seeds {
		var existing models.Employee
		if err := DB.Where("email = ?", seed.Email).First(&existing).Error; err == nil {
			employees = append(employees, existing)
			continue
		}

		seed.Password = hashedPassword
		seed.EmailVerified = true
		seed.OrganizationID = &org.ID
		if err := DB.Create(&seed).Error; err != nil {
			return nil, fmt.Errorf("failed to create employee %s: %v", seed.Email, err)
		}
		employees = append(employees, seed)
	}

	return employees, nil
}

// seedItems creates demo inventory items, half assigned to employees
func seedItems(property *models.Property, employees []models.Employee) (int, error) {
	serial := func(s string) *string { return &s }

	items := []models.PropertyItem{
		{Name: "Dell Latitude 5440", Price: 1250, InventoryNumber: "INV-0001", RegistrationNumber: "REG-0001", DocumentNumber: "DOC-0001", SerialNumber: serial("DL5440-88341"), Location: "Main Office", Room: "201"},
		{Name: "HP LaserJet Pro M404", Price: 380, InventoryNumber: "INV-0002", RegistrationNumber: "REG-0002", DocumentNumber: "DOC-0002", SerialNumber: serial("HPLJ-55012"), Location: "Main Office", Room: "Print Room"},
		{Name: "Herman Miller Aeron", Price: 1100, InventoryNumber: "INV-0003", RegistrationNumber: "REG-0003", DocumentNumber: "DOC-0003", Location: "Main Office", Room: "201"},
		{Name: "Samsung 27\" Monitor", Price: 240, InventoryNumber: "INV-0004", RegistrationNumber: "REG-0004", DocumentNumber: "DOC-0004", SerialNumber: serial("SM27-73320"), Location: "Main Office", Room: "202"},
		{Name: "Cisco Meraki MR46", Price: 900, InventoryNumber: "INV-0005", RegistrationNumber: "REG-0005", DocumentNumber: "DOC-0005", SerialNumber: serial("CM46-10284"), Location: "Main Office", Room: "Server Room"},
	}

	created := 0
	for i, item := range items {
		var existing models.PropertyItem
		result := DB.Where("property_id = ? AND inventory_number = ?", property.ID, item.InventoryNumber).First(&existing)
		if result.Error == nil {
			continue
		}

		item.PropertyID = property.ID
		item.PurchaseDate = time.Now().AddDate(0, -i, 0)

		// Alternate assignments across the seeded employees
		if len(employees) > 0 && i%2 == 0 {
			employeeID := employees[i/2%len(employees)].ID
			item.EmployeeID = &employeeID
		}

		if err := DB.Create(&item).Error; err != nil {
			return created, fmt.Errorf("failed to create item %s: %v", item.InventoryNumber, err)
		}
		created++
	}

	return created, nil
}
