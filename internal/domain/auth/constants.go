package auth

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleLabourer = "labourer"
)

var Roles = []string{RoleAdmin, RoleManager, RoleLabourer}

// Staff are the roles that manage labourers rather than being one.
var Staff = []string{RoleAdmin, RoleManager}

func ValidRole(role string) bool {
	for _, candidate := range Roles {
		if role == candidate {
			return true
		}
	}
	return false
}
