package permission

import (
	"fmt"
	"sort"
	"strings"
)

// Name is a catalog permission of the shape "resource:action". Route guards,
// seeders and migrations reference these constants, never literals.
type Name string

const (
	UsersRead   Name = "users:read"
	UsersWrite  Name = "users:write"
	UsersDelete Name = "users:delete"

	CustomersRead   Name = "customers:read"
	CustomersWrite  Name = "customers:write"
	CustomersDelete Name = "customers:delete"

	DealsRead   Name = "deals:read"
	DealsWrite  Name = "deals:write"
	DealsDelete Name = "deals:delete"

	TasksRead   Name = "tasks:read"
	TasksWrite  Name = "tasks:write"
	TasksDelete Name = "tasks:delete"

	AccountsRead   Name = "accounts:read"
	AccountsWrite  Name = "accounts:write"
	AccountsDelete Name = "accounts:delete"

	BusinessUnitsRead   Name = "business-units:read"
	BusinessUnitsWrite  Name = "business-units:write"
	BusinessUnitsDelete Name = "business-units:delete"

	TenantsRead   Name = "tenants:read"
	TenantsWrite  Name = "tenants:write"
	TenantsDelete Name = "tenants:delete"

	ReportsRead   Name = "reports:read"
	ReportsWrite  Name = "reports:write"
	ReportsDelete Name = "reports:delete"

	PermissionsRead   Name = "permissions:read"
	PermissionsWrite  Name = "permissions:write"
	PermissionsDelete Name = "permissions:delete"
)

var catalog = []Name{
	UsersRead, UsersWrite, UsersDelete,
	CustomersRead, CustomersWrite, CustomersDelete,
	DealsRead, DealsWrite, DealsDelete,
	TasksRead, TasksWrite, TasksDelete,
	AccountsRead, AccountsWrite, AccountsDelete,
	BusinessUnitsRead, BusinessUnitsWrite, BusinessUnitsDelete,
	TenantsRead, TenantsWrite, TenantsDelete,
	ReportsRead, ReportsWrite, ReportsDelete,
	PermissionsRead, PermissionsWrite, PermissionsDelete,
}

var byName = func() map[string]Name {
	m := make(map[string]Name, len(catalog))
	for _, n := range catalog {
		m[string(n)] = n
	}
	return m
}()

// All returns the catalog in declaration order.
func All() []Name {
	out := make([]Name, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup reports whether s is a catalog name. Legacy spellings such as
// "business_units:read" are not catalog names.
func Lookup(s string) (Name, bool) {
	n, ok := byName[s]
	return n, ok
}

func (n Name) Valid() bool {
	_, ok := byName[string(n)]
	return ok
}

func (n Name) Resource() string {
	resource, _, _ := strings.Cut(string(n), ":")
	return resource
}

func (n Name) Action() string {
	_, action, _ := strings.Cut(string(n), ":")
	return action
}

func (n Name) String() string {
	return string(n)
}

type Definition struct {
	Name        Name   `json:"name"`
	Description string `json:"description"`
}

var actionVerbs = map[string]string{
	"read":   "View",
	"write":  "Create and update",
	"delete": "Delete",
}

func Describe(n Name) string {
	verb, ok := actionVerbs[n.Action()]
	if !ok {
		verb = n.Action()
	}
	return fmt.Sprintf("%s %s", verb, strings.ReplaceAll(n.Resource(), "-", " "))
}

// Definitions is the catalog with human readable descriptions, as seeded.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(catalog))
	for _, n := range catalog {
		defs = append(defs, Definition{Name: n, Description: Describe(n)})
	}
	return defs
}

// Set is a deduplicated collection of permission names.
type Set map[Name]struct{}

func NewSet(names ...Name) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s Set) Has(n Name) bool {
	_, ok := s[n]
	return ok
}

func (s Set) Add(names ...Name) {
	for _, n := range names {
		s[n] = struct{}{}
	}
}

func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for n := range s {
		out[n] = struct{}{}
	}
	for n := range other {
		out[n] = struct{}{}
	}
	return out
}

func (s Set) Clone() Set {
	return s.Union(nil)
}

// Names returns the members sorted, for stable responses and logs.
func (s Set) Names() []Name {
	out := make([]Name, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s Set) Strings() []string {
	names := s.Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
