// Package seed populates the database with the demo tenants, roles,
// permissions and users. Every step is idempotent so the seeder can run on
// each deploy.
package seed

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"business-app-server/internal/models"
)

// Run seeds the database.
func Run(db *gorm.DB, log *zap.SugaredLogger) error {
	companyA, err := ensureCompany(db, models.Company{
		Name: "Empresa A", Slug: "empresa-a", ThemeColor: "blue", ThemeName: "Tech",
	})
	if err != nil {
		return err
	}
	companyB, err := ensureCompany(db, models.Company{
		Name: "Empresa B", Slug: "empresa-b", ThemeColor: "pink", ThemeName: "Creative",
	})
	if err != nil {
		return err
	}

	permManageUsers, err := ensurePermission(db, "users.manage", "Manage users")
	if err != nil {
		return err
	}
	permViewProducts, err := ensurePermission(db, "products.view", "View products")
	if err != nil {
		return err
	}
	permManageProducts, err := ensurePermission(db, "products.manage", "Manage products")
	if err != nil {
		return err
	}

	adminRole, err := ensureRole(db, "admin", "Company administrator")
	if err != nil {
		return err
	}
	memberRole, err := ensureRole(db, "member", "Regular company user")
	if err != nil {
		return err
	}

	rolePerms := []struct {
		role *models.Role
		perm *models.Permission
	}{
		{adminRole, permManageUsers},
		{adminRole, permViewProducts},
		{adminRole, permManageProducts},
		{memberRole, permViewProducts},
	}
	for _, rp := range rolePerms {
		if err := ensureRolePermission(db, rp.role.ID, rp.perm.ID); err != nil {
			return err
		}
	}

	admin, err := ensureUser(db, "admin@ejemplo.com", "Admin", "User", "password123")
	if err != nil {
		return err
	}
	// Admin of empresa-a, plain member of empresa-b: two memberships with
	// different roles in different tenants.
	if err := ensureMembership(db, admin.ID, companyA.ID, adminRole.ID); err != nil {
		return err
	}
	if err := ensureMembership(db, admin.ID, companyB.ID, memberRole.ID); err != nil {
		return err
	}

	if err := ensureProduct(db, companyB.ID, "Sample Product", "Producto de ejemplo para company B", 9.99, 100); err != nil {
		return err
	}

	// Superadmin: every permission, membership in every company.
	superRole, err := ensureRole(db, "superadmin", "Super administrator with full access")
	if err != nil {
		return err
	}
	var allPerms []models.Permission
	if err := db.Find(&allPerms).Error; err != nil {
		return fmt.Errorf("seed: list permissions: %w", err)
	}
	for _, p := range allPerms {
		if err := ensureRolePermission(db, superRole.ID, p.ID); err != nil {
			return err
		}
	}

	super, err := ensureUser(db, "superadmin@consorcio.com", "Super", "Admin", "superadmin")
	if err != nil {
		return err
	}
	var companies []models.Company
	if err := db.Find(&companies).Error; err != nil {
		return fmt.Errorf("seed: list companies: %w", err)
	}
	for _, c := range companies {
		if err := ensureMembership(db, super.ID, c.ID, superRole.ID); err != nil {
			return err
		}
	}

	log.Infow("seed complete", "companies", len(companies), "admin", admin.Email, "superadmin", super.Email)
	return nil
}

func ensureCompany(db *gorm.DB, company models.Company) (*models.Company, error) {
	var existing models.Company
	err := db.Where("slug = ?", company.Slug).FirstOrCreate(&existing, company).Error
	if err != nil {
		return nil, fmt.Errorf("seed: company %s: %w", company.Slug, err)
	}
	return &existing, nil
}

func ensurePermission(db *gorm.DB, key, name string) (*models.Permission, error) {
	var existing models.Permission
	err := db.Where("`key` = ?", key).FirstOrCreate(&existing, models.Permission{Key: key, Name: name}).Error
	if err != nil {
		return nil, fmt.Errorf("seed: permission %s: %w", key, err)
	}
	return &existing, nil
}

func ensureRole(db *gorm.DB, name, description string) (*models.Role, error) {
	var existing models.Role
	err := db.Where("name = ?", name).FirstOrCreate(&existing, models.Role{Name: name, Description: description}).Error
	if err != nil {
		return nil, fmt.Errorf("seed: role %s: %w", name, err)
	}
	return &existing, nil
}

func ensureRolePermission(db *gorm.DB, roleID, permissionID string) error {
	var existing models.RolePermission
	err := db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		FirstOrCreate(&existing, models.RolePermission{RoleID: roleID, PermissionID: permissionID}).Error
	if err != nil {
		return fmt.Errorf("seed: role permission: %w", err)
	}
	return nil
}

func ensureUser(db *gorm.DB, email, firstName, lastName, password string) (*models.User, error) {
	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("seed: user %s: %w", email, err)
	}

	user := models.User{Email: email, FirstName: firstName, LastName: lastName, IsActive: true}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("seed: hash password for %s: %w", email, err)
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("seed: create user %s: %w", email, err)
	}
	return &user, nil
}

func ensureMembership(db *gorm.DB, userID, companyID, roleID string) error {
	var existing models.Membership
	err := db.Where("user_id = ? AND company_id = ?", userID, companyID).
		FirstOrCreate(&existing, models.Membership{UserID: userID, CompanyID: companyID, RoleID: roleID}).Error
	if err != nil {
		return fmt.Errorf("seed: membership: %w", err)
	}
	return nil
}

func ensureProduct(db *gorm.DB, companyID, name, description string, price float64, stock int) error {
	var existing models.Product
	err := db.Where("name = ? AND company_id = ?", name, companyID).
		FirstOrCreate(&existing, models.Product{
			CompanyID: companyID, Name: name, Description: description, Price: price, Stock: stock,
		}).Error
	if err != nil {
		return fmt.Errorf("seed: product %s: %w", name, err)
	}
	return nil
}
