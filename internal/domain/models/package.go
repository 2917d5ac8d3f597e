package models

import (
	"time"

	"github.com/Temutjin2k/safebike-web/internal/domain/types"
)

// DeliveryRequest is the display copy of a package owned by the backend.
type DeliveryRequest struct {
	ID               ID                  `json:"id"`
	RecipientName    string              `json:"recipientName"`
	RecipientPhone   string              `json:"recipientPhone"`
	RecipientEmail   string              `json:"recipientEmail"`
	PickupLocation   string              `json:"pickupLocation"`
	DeliveryLocation string              `json:"deliveryLocation"`
	Description      string              `json:"description"`
	EstimatedValue   float64             `json:"estimatedValue"`
	Status           types.PackageStatus `json:"status"`
	PassengerID      ID                  `json:"passengerId"`
	RiderID          *ID                 `json:"riderId,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

// CreatePackageRequest is the body of the create call.
type CreatePackageRequest struct {
	RecipientName    string  `json:"recipientName"`
	RecipientPhone   string  `json:"recipientPhone"`
	RecipientEmail   string  `json:"recipientEmail"`
	PickupLocation   string  `json:"pickupLocation"`
	DeliveryLocation string  `json:"deliveryLocation"`
	Description      string  `json:"description"`
	EstimatedValue   float64 `json:"estimatedValue"`
}

type AssignPackageRequest struct {
	PlateNumber string `json:"plateNumber"`
}

type PassengerStats struct {
	Total     int
	Active    int
	Delivered int
}

type RiderStats struct {
	Assigned   int
	InProgress int
	Delivered  int
}

type AdminStats struct {
	Packages int
	Users    int
	ByStatus map[types.PackageStatus]int
}

// CanCancel reports whether the passenger may still cancel the request.
func (d DeliveryRequest) CanCancel() bool {
	return d.Status == types.StatusPending
}

// CanConfirmReceipt reports whether the passenger may confirm the package arrived.
func (d DeliveryRequest) CanConfirmReceipt() bool {
	return d.Status == types.StatusInTransit
}

func (d DeliveryRequest) CanAccept() bool {
	return d.Status == types.StatusPending
}

func (d DeliveryRequest) CanConfirmPickup() bool {
	return d.Status == types.StatusAccepted
}

func (d DeliveryRequest) CanConfirmDelivery() bool {
	return d.Status == types.StatusPickedUp || d.Status == types.StatusInTransit
}
