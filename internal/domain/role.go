package domain

import "fmt"

// Role describes what a user is, or is looking for, on a trip.
type Role string

const (
	RoleBuddy   Role = "buddy"
	RoleCoach   Role = "coach"
	RoleStudent Role = "student"
)

// ParseRole converts a raw string to a Role, returning an error for unknown
// values.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleBuddy, RoleCoach, RoleStudent:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// ParseRequestRole validates a role usable on a buddy request. A request can
// invite a buddy or a coach; "student" only exists as a seeking preference.
func ParseRequestRole(s string) (Role, error) {
	r := Role(s)
	switch r {
	case RoleBuddy, RoleCoach:
		return r, nil
	}
	return "", fmt.Errorf("role %q not allowed on a buddy request", s)
}
