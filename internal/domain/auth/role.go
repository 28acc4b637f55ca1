package auth

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleUniversity Role = "university"
	RoleAdmin      Role = "admin"
)

// Roles lists every role in a stable order.
var Roles = []Role{RoleStudent, RoleTeacher, RoleUniversity, RoleAdmin}

func (r Role) String() string { return string(r) }

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleUniversity, RoleAdmin:
		return true
	}
	return false
}

// ParseRole maps a stored or claimed role string onto the closed Role set.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   Role      `json:"role"`
}

func (p Principal) Is(r Role) bool { return p.Role == r }

// RoleCases holds one branch per role. Dispatch refuses to run with a
// missing branch so adding a role breaks every call site at once.
type RoleCases[T any] struct {
	Student    func(Principal) (T, error)
	Teacher    func(Principal) (T, error)
	University func(Principal) (T, error)
	Admin      func(Principal) (T, error)
}

func Dispatch[T any](p Principal, cases RoleCases[T]) (T, error) {
	var zero T
	if cases.Student == nil || cases.Teacher == nil || cases.University == nil || cases.Admin == nil {
		return zero, fmt.Errorf("role dispatch: incomplete case set")
	}
	switch p.Role {
	case RoleStudent:
		return cases.Student(p)
	case RoleTeacher:
		return cases.Teacher(p)
	case RoleUniversity:
		return cases.University(p)
	case RoleAdmin:
		return cases.Admin(p)
	default:
		return zero, fmt.Errorf("role dispatch: unknown role %q", p.Role)
	}
}
