// Package auth normalizes raw role strings into the closed Role enum and
// binds actors to the papers they may operate on.
package auth

import (
	"strings"

	"paperflow/internal/model"
)

// roleSynonyms folds the ad hoc role strings seen in identity tokens
// (case variants, plurals, bilingual synonyms) into the closed enum.
var roleSynonyms = map[string]model.Role{
	"student":       model.RoleStudent,
	"pupil":         model.RoleStudent,
	"学生":            model.RoleStudent,
	"teacher":       model.RoleTeacher,
	"instructor":    model.RoleTeacher,
	"教师":            model.RoleTeacher,
	"老师":            model.RoleTeacher,
	"admin":         model.RoleAdmin,
	"administrator": model.RoleAdmin,
	"管理员":           model.RoleAdmin,
}

// ParseRole normalizes a single raw role string. Unrecognized strings map to
// RoleUnknown rather than failing; an actor with only unknown roles simply
// holds no privileges.
func ParseRole(raw string) model.Role {
	s := strings.ToLower(strings.TrimSpace(raw))
	if r, ok := roleSynonyms[s]; ok {
		return r
	}
	// Strip a plural suffix ("teachers", "students", "admins").
	if trimmed, ok := strings.CutSuffix(s, "s"); ok {
		if r, ok := roleSynonyms[trimmed]; ok {
			return r
		}
	}
	return model.RoleUnknown
}

// ParseRoles normalizes a set of raw role strings, dropping duplicates and
// unknowns.
func ParseRoles(raw []string) []model.Role {
	seen := make(map[model.Role]bool, len(raw))
	roles := make([]model.Role, 0, len(raw))
	for _, s := range raw {
		r := ParseRole(s)
		if r == model.RoleUnknown || seen[r] {
			continue
		}
		seen[r] = true
		roles = append(roles, r)
	}
	return roles
}
