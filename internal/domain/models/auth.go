package models

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

type LoginResponse struct {
	User  Identity `json:"user"`
	Token string   `json:"token"`
}

// RegisterPassengerRequest mirrors the backend payload; ResidencyAddress keeps
// the capitalized key the backend expects.
type RegisterPassengerRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phoneNumber"`
	ResidencyAddress string `json:"ResidencyAddress"`
	Password         string `json:"password"`
}

type RegisterRiderRequest struct {
	RegisterPassengerRequest
	PlateNumber string `json:"plateNumber"`
}
