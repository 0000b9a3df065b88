package auth

import (
	"paperflow/internal/apperr"
	"paperflow/internal/model"
)

// RelationTo resolves the actor's relation to a paper as a role: RoleStudent
// if the actor is the paper's owner, RoleTeacher if its assigned teacher,
// RoleAdmin if the actor holds the admin role, RoleUnknown otherwise.
// Ownership wins over the token's role claims: a teacher reviewing their own
// submission acts as its owner.
func RelationTo(actor model.Actor, paper *model.Paper) model.Role {
	switch {
	case actor.ID == paper.OwnerID:
		return model.RoleStudent
	case actor.ID == paper.TeacherID:
		return model.RoleTeacher
	case actor.HasRole(model.RoleAdmin):
		return model.RoleAdmin
	}
	return model.RoleUnknown
}

// RequireAuthenticated fails with Unauthenticated when the actor has no identity.
func RequireAuthenticated(actor model.Actor) error {
	if !actor.Authenticated() {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

// RequireOwner binds an operation to the paper's recorded owner.
func RequireOwner(actor model.Actor, paper *model.Paper) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.ID != paper.OwnerID {
		return apperr.Forbidden("NOT_OWNER", "only the paper owner may perform this operation")
	}
	return nil
}

// RequireParticipant allows the paper's owner or its assigned teacher.
func RequireParticipant(actor model.Actor, paper *model.Paper) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.ID != paper.OwnerID && actor.ID != paper.TeacherID {
		return apperr.Forbidden("NOT_PARTICIPANT", "actor is neither the paper owner nor its teacher")
	}
	return nil
}

// RequireViewer allows the owner, the teacher, or an admin (read access).
func RequireViewer(actor model.Actor, paper *model.Paper) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if RelationTo(actor, paper) == model.RoleUnknown {
		return apperr.Forbidden("NOT_VIEWER", "actor may not view this paper")
	}
	return nil
}

// RequireOwnerOrAdmin gates destructive operations.
func RequireOwnerOrAdmin(actor model.Actor, paper *model.Paper) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.ID != paper.OwnerID && !actor.HasRole(model.RoleAdmin) {
		return apperr.Forbidden("NOT_OWNER_OR_ADMIN", "only the paper owner or an admin may perform this operation")
	}
	return nil
}
