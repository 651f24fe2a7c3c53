package constants

// Staff permissions. These gate the HTTP layer only; the lifecycle
// engine stays authorization-agnostic.
const (
	// Admin permissions
	PermSuperAdminFull = "concrete.super-admin.full-permit"
	PermManagerFull    = "concrete.manager.full-permit"
	PermConfirmerFull  = "concrete.confirmer.full-permit"
	PermAccountantFull = "concrete.accountant.full-permit"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	StaffPermissions = []string{
		PermManagerFull,
		PermConfirmerFull,
		PermAccountantFull,
	}
)
