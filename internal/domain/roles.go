package domain

import "fmt"

// Role is the closed set of principal categories on the marketplace.
// Every authorization checkpoint works off this type; ad hoc string
// comparisons against role names are not allowed outside ParseRole.
type Role string

const (
	RoleAdmin               Role = "ADMIN"
	RoleSupport             Role = "SUPPORT"
	RoleOperator            Role = "OPERATOR"
	RoleTAS                 Role = "TAS"
	RoleCandidate           Role = "CANDIDATE"
	RoleCompanyAdmin        Role = "COMPANY_ADMIN"
	RoleCompanyMember       Role = "COMPANY_MEMBER"
	RoleInterviewer         Role = "INTERVIEWER"
	RoleDecisionMaker       Role = "DECISION_MAKER"
	RoleFinancialController Role = "FINANCIAL_CONTROLLER"
	RoleComplianceOfficer   Role = "COMPLIANCE_OFFICER"
)

// AllRoles lists every valid role exactly once. Used for validation and
// for exhaustiveness checks in tests.
var AllRoles = []Role{
	RoleAdmin,
	RoleSupport,
	RoleOperator,
	RoleTAS,
	RoleCandidate,
	RoleCompanyAdmin,
	RoleCompanyMember,
	RoleInterviewer,
	RoleDecisionMaker,
	RoleFinancialController,
	RoleComplianceOfficer,
}

// ParseRole converts a raw string (from the DB or a request body) into a
// Role, rejecting anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupport, RoleOperator, RoleTAS, RoleCandidate,
		RoleCompanyAdmin, RoleCompanyMember, RoleInterviewer,
		RoleDecisionMaker, RoleFinancialController, RoleComplianceOfficer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// OrgScoped reports whether identities with this role belong to a company
// organization and therefore carry an OrgID in their claims.
func (r Role) OrgScoped() bool {
	switch r {
	case RoleCompanyAdmin, RoleCompanyMember, RoleInterviewer, RoleDecisionMaker:
		return true
	}
	return false
}

// SelfServiceRoles are the roles a user may pick at signup. Staff roles
// (admin, support, finance, compliance) are provisioned by an admin.
var SelfServiceRoles = []Role{RoleTAS, RoleCandidate, RoleCompanyAdmin}

// VerificationStatus is the trust-lifecycle state of an identity,
// orthogonal to its role.
type VerificationStatus string

const (
	StatusPending     VerificationStatus = "PENDING"
	StatusUnderReview VerificationStatus = "UNDER_REVIEW"
	StatusVerified    VerificationStatus = "VERIFIED"
	StatusRejected    VerificationStatus = "REJECTED"
	StatusSuspended   VerificationStatus = "SUSPENDED"
	StatusBanned      VerificationStatus = "BANNED"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusVerified,
		StatusRejected, StatusSuspended, StatusBanned:
		return true
	}
	return false
}

func (s VerificationStatus) String() string { return string(s) }
