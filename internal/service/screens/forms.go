package screens

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
	"github.com/Temutjin2k/safebike-web/internal/domain/types"
	"github.com/Temutjin2k/safebike-web/pkg/validator"
)

const minPasswordLength = 8

type LoginForm struct {
	Email    string
	Password string
	UserType string
}

func (f LoginForm) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(f.Email), "email", "Email is required")
	v.Check(validator.Matches(f.Email, validator.EmailRX), "email", "Invalid email")
	v.Check(validator.NotBlank(f.Password), "password", "Password is required")
	v.Check(validator.PermittedValue(f.UserType, string(types.RolePassenger), string(types.RoleRider)), "userType", "User type is required")
}

func (f LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		UserType: f.UserType,
	}
}

// RegisterForm backs both registration screens; PlateNumber is only read for riders.
type RegisterForm struct {
	FirstName        string
	LastName         string
	Email            string
	PhoneNumber      string
	ResidencyAddress string
	PlateNumber      string
	Password         string
	ConfirmPassword  string
}

func (f RegisterForm) Validate(v *validator.Validator, rider bool) {
	v.Check(validator.NotBlank(f.FirstName), "firstName", "First name is required")
	v.Check(validator.NotBlank(f.LastName), "lastName", "Last name is required")
	v.Check(validator.NotBlank(f.Email), "email", "Email is required")
	v.Check(validator.Matches(f.Email, validator.EmailRX), "email", "Invalid email")
	v.Check(validator.NotBlank(f.PhoneNumber), "phoneNumber", "Phone number is required")
	v.Check(validator.NotBlank(f.ResidencyAddress), "ResidencyAddress", "Residency address is required")
	if rider {
		v.Check(validator.NotBlank(f.PlateNumber), "plateNumber", "Plate number is required")
	}
	v.Check(f.Password != "", "password", "Password is required")
	v.Check(len(f.Password) >= minPasswordLength, "password", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	v.Check(f.ConfirmPassword != "", "confirmPassword", "Confirm password is required")
	v.Check(f.ConfirmPassword == f.Password, "confirmPassword", "Passwords must match")
}

func (f RegisterForm) PassengerRequest() models.RegisterPassengerRequest {
	return models.RegisterPassengerRequest{
		FirstName:        strings.TrimSpace(f.FirstName),
		LastName:         strings.TrimSpace(f.LastName),
		Email:            strings.TrimSpace(f.Email),
		PhoneNumber:      strings.TrimSpace(f.PhoneNumber),
		ResidencyAddress: strings.TrimSpace(f.ResidencyAddress),
		Password:         f.Password,
	}
}

func (f RegisterForm) RiderRequest() models.RegisterRiderRequest {
	return models.RegisterRiderRequest{
		RegisterPassengerRequest: f.PassengerRequest(),
		PlateNumber:              strings.ToUpper(strings.TrimSpace(f.PlateNumber)),
	}
}

// PackageForm holds the raw form values of a new delivery request.
type PackageForm struct {
	RecipientName    string
	RecipientPhone   string
	RecipientEmail   string
	PickupLocation   string
	DeliveryLocation string
	Description      string
	EstimatedValue   string
}

func (f PackageForm) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(f.RecipientName), "recipientName", "Recipient name is required")
	v.Check(validator.NotBlank(f.RecipientPhone), "recipientPhone", "Recipient phone is required")
	v.Check(validator.NotBlank(f.RecipientEmail), "recipientEmail", "Recipient email is required")
	v.Check(validator.Matches(f.RecipientEmail, validator.EmailRX), "recipientEmail", "Invalid email")
	v.Check(validator.NotBlank(f.PickupLocation), "pickupLocation", "Pickup location is required")
	v.Check(validator.NotBlank(f.DeliveryLocation), "deliveryLocation", "Delivery location is required")
	v.Check(validator.NotBlank(f.Description), "description", "Package description is required")

	v.Check(validator.NotBlank(f.EstimatedValue), "estimatedValue", "Estimated value is required")
	value, err := strconv.ParseFloat(strings.TrimSpace(f.EstimatedValue), 64)
	v.Check(err == nil, "estimatedValue", "Estimated value must be a number")
	v.Check(err != nil || !math.IsInf(value, 0), "estimatedValue", "Estimated value must be a number")
	v.Check(err != nil || value >= 0, "estimatedValue", "Value must be positive")
}

// Request converts a validated form; call Validate first.
func (f PackageForm) Request() models.CreatePackageRequest {
	value, _ := strconv.ParseFloat(strings.TrimSpace(f.EstimatedValue), 64)
	return models.CreatePackageRequest{
		RecipientName:    strings.TrimSpace(f.RecipientName),
		RecipientPhone:   strings.TrimSpace(f.RecipientPhone),
		RecipientEmail:   strings.TrimSpace(f.RecipientEmail),
		PickupLocation:   strings.TrimSpace(f.PickupLocation),
		DeliveryLocation: strings.TrimSpace(f.DeliveryLocation),
		Description:      strings.TrimSpace(f.Description),
		EstimatedValue:   value,
	}
}

// AssignForm is the rider's accept action.
type AssignForm struct {
	PackageID   string
	PlateNumber string
}

func (f AssignForm) Validate(v *validator.Validator) {
	v.Check(validator.NotBlank(f.PackageID), "packageId", "Package is required")
	v.Check(validator.NotBlank(f.PlateNumber), "plateNumber", "Plate number is required")
}

// validate runs check against a fresh validator and returns ErrValidation with
// the field errors when anything failed.
func validate(check func(v *validator.Validator)) (map[string]string, error) {
	v := validator.New()
	check(v)
	if v.Valid() {
		return nil, nil
	}
	return v.Errors, types.ErrValidation
}
