package domain

type CtxKey string

const (
	KeyUserID     CtxKey = "UserID"
	KeyUserRole   CtxKey = "Role"
	KeyUserOrgID  CtxKey = "OrgID"
	KeyUserStatus CtxKey = "VerificationStatus"
)
