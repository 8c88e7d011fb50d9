// Package policy is the access control engine: pure predicates over entity
// snapshots and an acting user. All membership and ownership decisions funnel
// through here so the services never repeat relationship checks inline.
package policy

import (
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/models"
)

// IsOwner reports whether userID owns the project.
func IsOwner(project *models.Project, userID uint64) bool {
	return project.OwnerID == userID
}

// IsMember reports whether userID is the owner or appears in the member set.
// The owner is always treated as a member even if the join row is missing.
func IsMember(project *models.Project, userID uint64) bool {
	if IsOwner(project, userID) {
		return true
	}
	for _, m := range project.Members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// RequireMember fails with Forbidden unless userID is a member of the project.
func RequireMember(project *models.Project, userID uint64) error {
	if !IsMember(project, userID) {
		return apierrors.Forbidden("you are not a member of this project")
	}
	return nil
}

// RequireOwner fails with Forbidden unless userID owns the project.
func RequireOwner(project *models.Project, userID uint64) error {
	if !IsOwner(project, userID) {
		return apierrors.Forbidden("only the project owner may perform this action")
	}
	return nil
}

// RequireCommentAuthor fails with Forbidden unless userID wrote the comment.
// Membership in the surrounding project is irrelevant to this check.
func RequireCommentAuthor(comment *models.Comment, userID uint64) error {
	if comment.AuthorID != userID {
		return apierrors.Forbidden("only the comment author may delete it")
	}
	return nil
}
