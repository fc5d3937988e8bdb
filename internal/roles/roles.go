package roles

// Role identifies the caller of a workflow operation.
type Role string

// Known caller roles.
const (
	SuperAdmin      Role = "SuperAdmin"
	Developer       Role = "Developer"
	Admin           Role = "Admin"
	BusinessAccount Role = "BusinessAccount"
	PersonalAccount Role = "PersonalAccount"
	Customer        Role = "Customer" // Unauthenticated public caller.
)

// Capability names a single permitted action class.
type Capability string

// Declared capabilities. Role checks go through Can, never through
// ad hoc role-name comparisons at call sites.
const (
	// CapViewDeleted allows requesting the soft-deleted partition.
	CapViewDeleted Capability = "view-deleted"
	// CapViewUnscoped allows listing records without the isDeleted filter.
	CapViewUnscoped Capability = "view-unscoped"
	// CapModerate allows approval/rejection transitions.
	CapModerate Capability = "moderate"
	// CapManageAdmins allows creating and editing admin accounts.
	CapManageAdmins Capability = "manage-admins"
	// CapManageContent allows managing categories, galleries, news and events.
	CapManageContent Capability = "manage-content"
	// CapSubmitContent allows creating jobs and advertisements.
	CapSubmitContent Capability = "submit-content"
	// CapRestore allows restoring soft-deleted records.
	CapRestore Capability = "restore"
)

// grants is the declarative capability table per role.
var grants = map[Role]map[Capability]bool{
	SuperAdmin: {
		CapViewDeleted:   true,
		CapViewUnscoped:  true,
		CapModerate:      true,
		CapManageAdmins:  true,
		CapManageContent: true,
		CapSubmitContent: true,
		CapRestore:       true,
	},
	Developer: {
		CapViewDeleted:   true,
		CapViewUnscoped:  true,
		CapModerate:      true,
		CapManageAdmins:  true,
		CapManageContent: true,
		CapSubmitContent: true,
		CapRestore:       true,
	},
	Admin: {
		CapViewUnscoped:  true,
		CapModerate:      true,
		CapManageContent: true,
		CapSubmitContent: true,
	},
	BusinessAccount: {
		CapSubmitContent: true,
	},
	PersonalAccount: {
		CapSubmitContent: true,
	},
	Customer: {},
}

// Can reports whether the role holds the capability. Unknown roles hold none.
func Can(role Role, cap Capability) bool {
	caps, ok := grants[role]
	if !ok {
		return false
	}
	return caps[cap]
}

// IsAdmin reports whether the role is any administrator role.
func IsAdmin(role Role) bool {
	return role == SuperAdmin || role == Developer || role == Admin
}

// IsAccount reports whether the role is a business or personal account.
func IsAccount(role Role) bool {
	return role == BusinessAccount || role == PersonalAccount
}

// Valid reports whether the role is one of the declared roles.
func Valid(role Role) bool {
	_, ok := grants[role]
	return ok
}
