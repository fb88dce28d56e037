package rbac

// Permission aliases checked by the gate. Routes reference these constants;
// the seed catalog in seed.go is the single source of their descriptions.
const (
	PermViewAdmins   = "view-admins"
	PermManageAdmins = "manage-admins"

	PermViewRoles       = "view-roles"
	PermManageRoles     = "manage-roles"
	PermViewPermissions = "view-permissions"

	PermViewAudits     = "view-audits"
	PermDownloadAudits = "download-audits"

	PermViewUsers      = "view-users"
	PermManageUsers    = "manage-users"
	PermBlacklistUsers = "blacklist-users"
	PermDownloadUsers  = "download-users"

	PermViewBanks   = "view-banks"
	PermManageBanks = "manage-banks"

	PermViewNotifications   = "view-notifications"
	PermManageNotifications = "manage-notifications"

	PermViewFaqs   = "view-faqs"
	PermManageFaqs = "manage-faqs"

	PermViewRates   = "view-rates"
	PermManageRates = "manage-rates"

	PermViewBlogs   = "view-blogs"
	PermManageBlogs = "manage-blogs"

	PermViewSettlements   = "view-settlements"
	PermManageSettlements = "manage-settlements"

	PermViewReferrals = "view-referrals"
)
