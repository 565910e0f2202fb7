package auth

import (
	"net/http"

	"github.com/frahmantamala/tenant-crm/internal/access"
	"github.com/frahmantamala/tenant-crm/internal/permission"
)

// Rule is what a protected route declares: one coarse permission and,
// optionally, the resource type its {id} parameter names.
type Rule struct {
	Permission permission.Name
	Resource   access.ResourceType
}

// Gate composes the permission and resource stages. The identity stage is
// mounted once per router group through Handler.AuthMiddleware.
type Gate struct {
	rbac *RBACAuthorization
	abac *ABACPolicy
}

func NewGate(rbac *RBACAuthorization, abac *ABACPolicy) *Gate {
	return &Gate{rbac: rbac, abac: abac}
}

// Protect runs the permission check first; a denial there never reaches the
// resource lookup.
func (g *Gate) Protect(rule Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		h := next
		if rule.Resource != "" {
			h = g.abac.RequireResourceAccess(rule.Resource)(h)
		}
		return g.rbac.Middleware(rule.Permission)(h)
	}
}

func Require(p permission.Name) Rule {
	return Rule{Permission: p}
}

func RequireOn(p permission.Name, t access.ResourceType) Rule {
	return Rule{Permission: p, Resource: t}
}
