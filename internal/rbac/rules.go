package rbac

// Service-token roles. Learner clients run quiz sessions; ingest clients
// load candidate pools.
const (
	RoleLearner = "learner"
	RoleIngest  = "ingest"
	RoleAdmin   = "admin"
)

const (
	PermQuizGenerate  = "quiz:generate"
	PermQuizRead      = "quiz:read"
	PermProgressWrite = "progress:write"
	PermPoolWrite     = "pool:write"
)

var RolePermissions = map[string][]string{
	RoleLearner: {
		PermQuizGenerate,
		PermQuizRead,
		PermProgressWrite,
	},
	RoleIngest: {
		"pool:*",
		PermQuizRead,
	},
	RoleAdmin: {
		"*",
	},
}
