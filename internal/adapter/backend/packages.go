package backend

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
)

func (c *Client) CreatePackage(ctx context.Context, req models.CreatePackageRequest) (models.DeliveryRequest, error) {
	var pkg models.DeliveryRequest
	err := c.do(ctx, "Client.CreatePackage", http.MethodPost, "/packages", req, func(b []byte) error {
		return decodeObject(b, &pkg)
	})
	return pkg, err
}

func (c *Client) GetPackage(ctx context.Context, id string) (models.DeliveryRequest, error) {
	var pkg models.DeliveryRequest
	err := c.do(ctx, "Client.GetPackage", http.MethodGet, packagePath(id, ""), nil, func(b []byte) error {
		return decodeObject(b, &pkg)
	})
	return pkg, err
}

func (c *Client) ListMyPackages(ctx context.Context) ([]models.DeliveryRequest, error) {
	return c.listPackages(ctx, "Client.ListMyPackages", "/packages/passenger")
}

func (c *Client) ListAvailablePackages(ctx context.Context) ([]models.DeliveryRequest, error) {
	return c.listPackages(ctx, "Client.ListAvailablePackages", "/packages/available")
}

func (c *Client) ListRiderPackages(ctx context.Context) ([]models.DeliveryRequest, error) {
	return c.listPackages(ctx, "Client.ListRiderPackages", "/packages/rider")
}

func (c *Client) ListAllPackages(ctx context.Context) ([]models.DeliveryRequest, error) {
	return c.listPackages(ctx, "Client.ListAllPackages", "/packages")
}

func (c *Client) CancelPackage(ctx context.Context, id string) error {
	return c.do(ctx, "Client.CancelPackage", http.MethodPost, packagePath(id, "/cancel"), nil, nil)
}

func (c *Client) AssignPackage(ctx context.Context, id string, req models.AssignPackageRequest) error {
	return c.do(ctx, "Client.AssignPackage", http.MethodPost, packagePath(id, "/assign"), req, nil)
}

func (c *Client) ConfirmPickup(ctx context.Context, id string) error {
	return c.do(ctx, "Client.ConfirmPickup", http.MethodPost, packagePath(id, "/pickup"), nil, nil)
}

func (c *Client) ConfirmDelivery(ctx context.Context, id string) error {
	return c.do(ctx, "Client.ConfirmDelivery", http.MethodPost, packagePath(id, "/deliver"), nil, nil)
}

func (c *Client) ConfirmReceipt(ctx context.Context, id string) error {
	return c.do(ctx, "Client.ConfirmReceipt", http.MethodPost, packagePath(id, "/confirm-receipt"), nil, nil)
}

func (c *Client) listPackages(ctx context.Context, op, path string) ([]models.DeliveryRequest, error) {
	var items []models.DeliveryRequest
	err := c.do(ctx, op, http.MethodGet, path, nil, func(b []byte) error {
		var err error
		items, err = decodeList[models.DeliveryRequest](b)
		return err
	})
	return items, err
}
