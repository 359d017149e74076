package tracking

import "strings"

// Event types
const (
	EventStart = "Start"
	EventEnd   = "End"
)

// Well-known stage names. Stage names arrive from clients as free strings;
// these are the ones the pairing and exit policies key on.
const (
	StageSecurityGate   = "Security Gate"
	StageJobCard        = "Job Card Creation + Customer Approval"
	StageBayAllocation  = "Bay Allocation Started"
	StageMaintenance    = "Maintenance Started"
	StageInteractiveBay = "Interactive Bay"
)

// Staff roles. Security Guard and Bay Technician carry role-specific event
// attributes; Admin gates administrative endpoints.
const (
	RoleAdmin         = "Admin"
	RoleSecurityGuard = "Security Guard"
	RoleBayTechnician = "Bay Technician"
)

// AllowedRoles is the fixed set accepted at registration.
var AllowedRoles = []string{
	RoleAdmin,
	RoleSecurityGuard,
	"Active Reception Technician",
	"Service Advisor",
	"Job Controller",
	RoleBayTechnician,
	"Final Inspection Technician",
	"Diagnosis Engineer",
	"Washing",
}

// IsAllowedRole reports whether role is in the fixed registration set.
func IsAllowedRole(role string) bool {
	for _, r := range AllowedRoles {
		if r == role {
			return true
		}
	}
	return false
}

// bridgedTo maps a bridging stage to the successor stage whose first Start
// implicitly closes it. These stages have no explicit End event in the
// workflow; the next step beginning is what ends them.
var bridgedTo = map[string]string{
	StageJobCard:       StageBayAllocation,
	StageBayAllocation: StageMaintenance,
}

// BridgeSuccessor returns the stage whose first Start closes stageName, if
// stageName is a bridging stage.
func BridgeSuccessor(stageName string) (string, bool) {
	next, ok := bridgedTo[stageName]
	return next, ok
}

// IsBayRelated reports whether a stage permits overlapping Start events.
// Several bay work items may run in parallel on one vehicle, so bay stages
// skip the single-open-interval rule.
func IsBayRelated(stageName string) bool {
	return stageName == StageBayAllocation || strings.Contains(stageName, "Bay")
}

// NormalizeNumber canonicalizes a vehicle number for lookup.
func NormalizeNumber(number string) string {
	return strings.ToUpper(strings.TrimSpace(number))
}
