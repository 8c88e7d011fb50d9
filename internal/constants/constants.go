package constants

// ContextKeyUser is the gin context key under which the authenticated user is stored.
const ContextKeyUser = "current_user"

const (
	MinPasswordLength = 6
	MaxCommentLength  = 1000
)
