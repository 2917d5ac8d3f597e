package models

import "github.com/Temutjin2k/safebike-web/internal/domain/types"

// User is an account row on the admin users screen.
type User struct {
	ID          ID     `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	UserType    string `json:"userType"`
	Role        string `json:"role"`
}

// RoleName returns the role the backend reported, whichever key it used.
func (u User) RoleName() types.Role {
	r := u.UserType
	if r == "" {
		r = u.Role
	}
	role, _ := types.ParseRole(r)
	return role
}
