package guard

import (
	"strings"

	"github.com/storerate/storerate/internal/cli/session"
)

// Access says how a route treats authentication
type Access int

const (
	// Protected routes need a session; Roles narrows them further when non-empty.
	Protected Access = iota
	// Public routes (login, signup) are for anonymous visitors only.
	Public
	// Open routes render in every state.
	Open
	// RoleHome sends visitors to their role's home screen.
	RoleHome
)

func (a Access) String() string {
	switch a {
	case Protected:
		return "protected"
	case Public:
		return "public"
	case Open:
		return "open"
	case RoleHome:
		return "role-home"
	}
	return "unknown"
}

// Well-known paths
const (
	LoginPath          = "/login"
	SignupPath         = "/signup"
	RootPath           = "/"
	UnauthorizedPath   = "/unauthorized"
	ChangePasswordPath = "/change-password"

	UserHomePath       = "/dashboard"
	AdminHomePath      = "/admin/dashboard"
	StoreOwnerHomePath = "/store-owner/dashboard"
)

// Route is one Route Authorization Rule
type Route struct {
	Pattern string
	Access  Access
	Roles   []session.Role // empty = any authenticated role
	Title   string
}

// Allows reports whether role may view a protected route
func (r Route) Allows(role session.Role) bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, allowed := range r.Roles {
		if allowed == role {
			return true
		}
	}
	return false
}

func roles(r ...session.Role) []session.Role { return r }

// DefaultRoutes is the route table of the rating platform
func DefaultRoutes() []Route {
	user := roles(session.RoleUser)
	admin := roles(session.RoleAdmin)
	owner := roles(session.RoleStoreOwner)

	return []Route{
		{Pattern: LoginPath, Access: Public, Title: "Login"},
		{Pattern: SignupPath, Access: Public, Title: "Sign up"},
		{Pattern: RootPath, Access: RoleHome, Title: "Home"},
		{Pattern: ChangePasswordPath, Access: Protected, Title: "Change Password"},

		{Pattern: UserHomePath, Access: Protected, Roles: user, Title: "Dashboard"},
		{Pattern: "/stores", Access: Protected, Roles: user, Title: "Browse Stores"},
		{Pattern: "/my-ratings", Access: Protected, Roles: user, Title: "My Ratings"},

		{Pattern: AdminHomePath, Access: Protected, Roles: admin, Title: "Dashboard"},
		{Pattern: "/admin/users", Access: Protected, Roles: admin, Title: "Users"},
		{Pattern: "/admin/users/create", Access: Protected, Roles: admin, Title: "Create User"},
		{Pattern: "/admin/users/:id", Access: Protected, Roles: admin, Title: "User Details"},
		{Pattern: "/admin/stores", Access: Protected, Roles: admin, Title: "Stores"},
		{Pattern: "/admin/stores/create", Access: Protected, Roles: admin, Title: "Create Store"},

		{Pattern: StoreOwnerHomePath, Access: Protected, Roles: owner, Title: "Dashboard"},
		{Pattern: "/store-owner/stores", Access: Protected, Roles: owner, Title: "My Stores"},
		{Pattern: "/store-owner/ratings", Access: Protected, Roles: owner, Title: "My Ratings"},

		{Pattern: UnauthorizedPath, Access: Open, Title: "Access Denied"},
	}
}

// HomePath maps a role to its home screen
func HomePath(role session.Role) string {
	switch role {
	case session.RoleAdmin:
		return AdminHomePath
	case session.RoleStoreOwner:
		return StoreOwnerHomePath
	default:
		return UserHomePath
	}
}

// NavLinks returns the menu entries shown to a role, in display order
func NavLinks(role session.Role) []string {
	var links []string
	switch role {
	case session.RoleAdmin:
		links = []string{AdminHomePath, "/admin/users", "/admin/stores"}
	case session.RoleStoreOwner:
		links = []string{StoreOwnerHomePath, "/store-owner/stores", "/store-owner/ratings"}
	case session.RoleUser:
		links = []string{UserHomePath, "/stores", "/my-ratings"}
	}
	return append(links, ChangePasswordPath)
}

// Normalize strips query and fragment and the trailing slash; "" becomes "/".
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func splitPath(path string) []string {
	if path == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

// match returns the route params when pattern matches path, and the number of
// static segments so the most specific pattern can win.
func match(pattern, path string) (map[string]string, int, bool) {
	ps, xs := splitPath(pattern), splitPath(path)
	if len(ps) != len(xs) {
		return nil, 0, false
	}
	var params map[string]string
	static := 0
	for i, seg := range ps {
		if strings.HasPrefix(seg, ":") {
			if xs[i] == "" {
				return nil, 0, false
			}
			if params == nil {
				params = map[string]string{}
			}
			params[seg[1:]] = xs[i]
			continue
		}
		if seg != xs[i] {
			return nil, 0, false
		}
		static++
	}
	return params, static, true
}
