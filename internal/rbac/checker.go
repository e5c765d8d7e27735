package rbac

import (
	"context"
	"strings"

	"github.com/samber/lo"
)

// Checker answers whether a service role holds a permission. Permissions are
// "resource:action"; a "resource:*" grant covers every action on the
// resource and "*" covers everything.
type Checker struct {
	grants map[string]map[string]struct{}
}

func NewChecker(rp map[string][]string) *Checker {
	if rp == nil {
		rp = RolePermissions
	}
	grants := lo.MapValues(rp, func(perms []string, _ string) map[string]struct{} {
		return lo.SliceToMap(perms, func(p string) (string, struct{}) { return p, struct{}{} })
	})
	return &Checker{grants: grants}
}

func (c *Checker) Has(role, perm string) bool {
	g, ok := c.grants[role]
	if !ok {
		return false
	}
	resource, _, _ := strings.Cut(perm, ":")
	for _, key := range []string{"*", perm, resource + ":*"} {
		if _, ok := g[key]; ok {
			return true
		}
	}
	return false
}

type roleKey struct{}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(roleKey{}).(string)
	return role
}
