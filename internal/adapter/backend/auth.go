package backend

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
)

func (c *Client) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, "Client.Login", http.MethodPost, "/auth/login", req, func(b []byte) error {
		return decodeObject(b, &resp)
	})
	return resp, err
}

func (c *Client) RegisterPassenger(ctx context.Context, req models.RegisterPassengerRequest) error {
	return c.do(ctx, "Client.RegisterPassenger", http.MethodPost, "/passenger/create", req, nil)
}

func (c *Client) RegisterRider(ctx context.Context, req models.RegisterRiderRequest) error {
	return c.do(ctx, "Client.RegisterRider", http.MethodPost, "/biker/create", req, nil)
}
