package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/choudharyperfumes/storefront/models"
)

// SeedAdminUser creates the admin account on first boot. passwordHash must
// already be a bcrypt hash.
func SeedAdminUser(ctx context.Context, admins AdminStore, username, passwordHash string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || passwordHash == "" {
		return fmt.Errorf("missing ADMIN_USERNAME or ADMIN_PASSWORD")
	}

	now := time.Now().UTC()
	created, err := admins.SeedAdmin(ctx, &models.AdminUser{
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}

	if created {
		log.Println("Admin user seeded:", username)
	} else {
		log.Println("Admin user already exists:", username)
	}
	return nil
}
