package authz

import (
	"strings"

	"github.com/edvin/mongoadmin/internal/model"
)

// Engine decides what a user may see and do. It holds no per-user state;
// every call is evaluated against the user record passed in.
type Engine struct {
	reserved map[string]struct{}
}

// New returns an Engine hiding the given database names from admin listings.
func New(reserved ...string) *Engine {
	set := make(map[string]struct{}, len(reserved))
	for _, r := range reserved {
		set[r] = struct{}{}
	}
	return &Engine{reserved: set}
}

// HasPermission reports whether u may perform action. resource is optional;
// it is only consulted for actions that are not capability flags.
func (e *Engine) HasPermission(u *model.User, action model.Capability, resource string) bool {
	if u == nil || u.Permissions == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	if v, known := u.Permissions.Flag(action); known {
		return v
	}
	if resource != "" {
		return u.Permissions.Databases.Allows(resource)
	}
	return false
}

// VisibleDatabases filters all down to what u may list. Admins see
// everything except reserved names; other users see their namespace only.
func (e *Engine) VisibleDatabases(u *model.User, all []string) []string {
	out := []string{}
	if u == nil {
		return out
	}
	if u.IsAdmin() {
		for _, name := range all {
			if _, hidden := e.reserved[name]; !hidden {
				out = append(out, name)
			}
		}
		return out
	}
	ns := Namespace(u.Identity())
	for _, name := range all {
		if strings.HasPrefix(name, ns) {
			out = append(out, name)
		}
	}
	return out
}

// QualifyDatabaseName places name inside u's namespace.
func (e *Engine) QualifyDatabaseName(u *model.User, name string) string {
	return Qualify(Namespace(u.Identity()), name)
}

// CanAccessDatabase reports whether u may operate on db by name. Admins may
// touch any database; other users only those inside their namespace.
func (e *Engine) CanAccessDatabase(u *model.User, db string) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return strings.HasPrefix(db, Namespace(u.Identity()))
}
