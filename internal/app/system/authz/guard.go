// internal/app/system/authz/guard.go

// Package authz evaluates whether a role satisfies a required permission
// set. The guard is pure and synchronous; the only side effect is an audit
// observation written through zap, which never alters the outcome.
package authz

import (
	"github.com/rabindra-basnet/team-project-saas/internal/app/system/apperror"
	"go.uber.org/zap"
)

// Guard checks required permissions against an immutable role table.
// Construct one at startup and share it; tests inject their own tables.
type Guard struct {
	table map[string]map[Permission]struct{}
	log   *zap.Logger
}

// NewGuard builds a Guard from the given role table. The table is copied
// into lookup sets, so later mutation of the argument has no effect.
func NewGuard(table RoleTable, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	sets := make(map[string]map[Permission]struct{}, len(table))
	for role, perms := range table {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		sets[role] = set
	}
	return &Guard{table: sets, log: logger}
}

// Require returns nil iff every required permission is in the role's
// configured set. The failure is all-or-nothing: a single missing
// permission denies the whole request, and the error carries no
// partial-success information. An empty required set always passes; a role
// absent from the table always fails (fail closed).
func (g *Guard) Require(role string, required ...Permission) error {
	perms, ok := g.table[role]
	if !ok {
		if len(required) == 0 {
			return nil
		}
		g.log.Warn("access denied",
			zap.String("role", role),
			zap.Strings("missing", Strings(required)))
		return apperror.Unauthorized("You do not have the necessary permissions to perform this action")
	}

	var missing []Permission
	for _, p := range required {
		if _, ok := perms[p]; !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		g.log.Warn("access denied",
			zap.String("role", role),
			zap.Strings("missing", Strings(missing)))
		return apperror.Unauthorized("You do not have the necessary permissions to perform this action")
	}

	g.log.Info("access granted",
		zap.String("role", role),
		zap.Strings("required", Strings(required)))
	return nil
}

// Roles returns the role names configured in the table. Used by the
// startup seeder to mirror the table into the roles collection.
func (g *Guard) Roles() []string {
	names := make([]string, 0, len(g.table))
	for role := range g.table {
		names = append(names, role)
	}
	return names
}
