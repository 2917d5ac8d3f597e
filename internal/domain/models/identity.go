package models

import (
	"encoding/json"
	"strings"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
)

// Identity is the authenticated user as returned by the backend login call.
type Identity struct {
	ID        ID         `json:"id"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Email     string     `json:"email"`
	Role      types.Role `json:"userType"`
}

// FullName joins first and last name for display.
func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// UnmarshalJSON accepts the role under either "userType" or "role".
func (i *Identity) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        ID     `json:"id"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		UserType  string `json:"userType"`
		Role      string `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	role := raw.UserType
	if role == "" {
		role = raw.Role
	}
	parsed, _ := types.ParseRole(role)

	*i = Identity{
		ID:        raw.ID,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Email:     raw.Email,
		Role:      parsed,
	}
	return nil
}
