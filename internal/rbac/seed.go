package rbac

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// SeedStore is the persistence surface the bootstrap needs. All operations
// are idempotent upserts keyed by alias/name/email.
type SeedStore interface {
	UpsertPermission(ctx context.Context, p Permission) error
	EnsureRole(ctx context.Context, role Role, aliases []string) error
	EnsureAdmin(ctx context.Context, email, name, passwordHash, roleName string) error
}

// SeedConfig carries the default super admin credentials.
type SeedConfig struct {
	AdminEmail    string
	AdminName     string
	AdminPassword string
}

// permissionCatalog is the fixed capability list loaded at bootstrap.
// Aliases are immutable once shipped; routes reference them by constant.
var permissionCatalog = []Permission{
	{Name: "View admins", Description: "List and inspect admin accounts", Alias: PermViewAdmins, Rank: 1},
	{Name: "Manage admins", Description: "Create, update and disable admin accounts", Alias: PermManageAdmins, Rank: 1},
	{Name: "View roles", Description: "List roles and their permission sets", Alias: PermViewRoles, Rank: 1},
	{Name: "Manage roles", Description: "Create and modify roles", Alias: PermManageRoles, Rank: 1},
	{Name: "View permissions", Description: "List the permission catalog", Alias: PermViewPermissions, Rank: 1},
	{Name: "View audit trail", Description: "Read the audit trail", Alias: PermViewAudits, Rank: 1},
	{Name: "Download audit trail", Description: "Export the audit trail as CSV", Alias: PermDownloadAudits, Rank: 1},
	{Name: "View users", Description: "List and inspect platform users", Alias: PermViewUsers, Rank: 2},
	{Name: "Manage users", Description: "Suspend and restore platform users", Alias: PermManageUsers, Rank: 2},
	{Name: "Blacklist users", Description: "Blacklist and whitelist platform users", Alias: PermBlacklistUsers, Rank: 2},
	{Name: "Download users", Description: "Export platform users as CSV", Alias: PermDownloadUsers, Rank: 2},
	{Name: "View banks", Description: "List user bank accounts", Alias: PermViewBanks, Rank: 2},
	{Name: "Manage banks", Description: "Maintain and verify user bank accounts", Alias: PermManageBanks, Rank: 2},
	{Name: "View notifications", Description: "List notifications", Alias: PermViewNotifications, Rank: 3},
	{Name: "Manage notifications", Description: "Create, edit and dispatch notifications", Alias: PermManageNotifications, Rank: 3},
	{Name: "View FAQs", Description: "List FAQ entries", Alias: PermViewFaqs, Rank: 3},
	{Name: "Manage FAQs", Description: "Create and edit FAQ entries", Alias: PermManageFaqs, Rank: 3},
	{Name: "View exchange rates", Description: "List exchange rates", Alias: PermViewRates, Rank: 3},
	{Name: "Manage exchange rates", Description: "Create and edit exchange rates", Alias: PermManageRates, Rank: 3},
	{Name: "View blogs", Description: "List blog posts", Alias: PermViewBlogs, Rank: 3},
	{Name: "Manage blogs", Description: "Create, edit and publish blog posts", Alias: PermManageBlogs, Rank: 3},
	{Name: "View settlements", Description: "List settlement accounts", Alias: PermViewSettlements, Rank: 3},
	{Name: "Manage settlements", Description: "Maintain settlement accounts", Alias: PermManageSettlements, Rank: 3},
	{Name: "View referrals", Description: "List referral activity", Alias: PermViewReferrals, Rank: 3},
}

// RoleSuperAdmin is the seeded role the default admin is attached to.
const RoleSuperAdmin = "super-admin"

func seedRoles() []struct {
	Role    Role
	Aliases []string
} {
	all := make([]string, len(permissionCatalog))
	for i, p := range permissionCatalog {
		all[i] = p.Alias
	}
	return []struct {
		Role    Role
		Aliases []string
	}{
		{
			Role:    Role{Name: RoleSuperAdmin, Description: "Full platform access", Status: true, Rank: 1},
			Aliases: all,
		},
		{
			Role: Role{Name: "operations", Description: "Day-to-day resource management", Status: true, Rank: 2},
			Aliases: []string{
				PermViewUsers, PermManageUsers, PermBlacklistUsers, PermDownloadUsers,
				PermViewBanks, PermManageBanks,
				PermViewNotifications, PermManageNotifications,
				PermViewFaqs, PermManageFaqs,
				PermViewRates, PermManageRates,
				PermViewBlogs, PermManageBlogs,
				PermViewSettlements, PermManageSettlements,
				PermViewReferrals,
			},
		},
		{
			Role: Role{Name: "support", Description: "Read-only access", Status: true, Rank: 3},
			Aliases: []string{
				PermViewUsers, PermViewBanks, PermViewNotifications, PermViewFaqs,
				PermViewRates, PermViewBlogs, PermViewSettlements, PermViewReferrals,
			},
		},
	}
}

// Bootstrap seeds permissions, roles and the default admin in strict
// dependency order. Each stage completes before the next starts, and every
// step is an upsert so the routine is safe to re-run.
func Bootstrap(ctx context.Context, store SeedStore, cfg SeedConfig, logger *slog.Logger) error {
	for _, p := range permissionCatalog {
		if err := store.UpsertPermission(ctx, p); err != nil {
			return fmt.Errorf("rbac: seed permission %s: %w", p.Alias, err)
		}
	}
	logger.Info("seeded permission catalog", slog.Int("count", len(permissionCatalog)))

	for _, entry := range seedRoles() {
		if err := store.EnsureRole(ctx, entry.Role, entry.Aliases); err != nil {
			return fmt.Errorf("rbac: seed role %s: %w", entry.Role.Name, err)
		}
	}

	if cfg.AdminEmail != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("rbac: hash seed admin password: %w", err)
		}
		if err := store.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminName, string(hash), RoleSuperAdmin); err != nil {
			return fmt.Errorf("rbac: seed admin: %w", err)
		}
		logger.Info("ensured default admin", slog.String("email", cfg.AdminEmail))
	}
	return nil
}
