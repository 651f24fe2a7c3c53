package seeders

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"concrete-reservation/constants"
	userModel "concrete-reservation/models/user"
)

// SeedUsers makes sure one staff account per role exists. Passwords
// come from the environment; a missing variable skips that account so
// production never ships a default credential.
func SeedUsers(db *gorm.DB) error {
	log.Printf("🔍 Checking staff accounts...")

	accounts := []struct {
		username    string
		fullName    string
		passwordEnv string
		permissions userModel.StringSlice
	}{
		{
			username:    "admin",
			fullName:    "Administrator",
			passwordEnv: "ADMIN_PASSWORD",
			permissions: userModel.StringSlice{
				constants.PermSuperAdminFull,
				constants.PermManagerFull,
				constants.PermConfirmerFull,
				constants.PermAccountantFull,
			},
		},
		{
			username:    "manager",
			fullName:    "Reservation Manager",
			passwordEnv: "MANAGER_PASSWORD",
			permissions: userModel.StringSlice{constants.PermManagerFull},
		},
		{
			username:    "confirmer",
			fullName:    "Reservation Confirmer",
			passwordEnv: "CONFIRMER_PASSWORD",
			permissions: userModel.StringSlice{constants.PermConfirmerFull},
		},
		{
			username:    "accountant",
			fullName:    "Accountant",
			passwordEnv: "ACCOUNTANT_PASSWORD",
			permissions: userModel.StringSlice{constants.PermAccountantFull},
		},
	}

	for _, account := range accounts {
		var count int64
		if err := db.Model(&userModel.User{}).Where("username = ?", account.username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check account %s: %w", account.username, err)
		}
		if count > 0 {
			continue
		}

		password := os.Getenv(account.passwordEnv)
		if password == "" {
			log.Printf("⚠️ %s not set, skipping seed of %s", account.passwordEnv, account.username)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", account.username, err)
		}

		seeded := userModel.User{
			Username:     account.username,
			FullName:     account.fullName,
			PasswordHash: string(hash),
			Permissions:  account.permissions,
		}
		if err := db.Create(&seeded).Error; err != nil {
			return fmt.Errorf("failed to seed account %s: %w", account.username, err)
		}
		log.Printf("✅ Seeded staff account %s", account.username)
	}

	return nil
}
