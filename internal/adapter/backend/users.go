package backend

import (
	"context"
	"net/http"

	"github.com/Temutjin2k/safebike-web/internal/domain/models"
)

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, "Client.ListUsers", http.MethodGet, "/users", nil, func(b []byte) error {
		var err error
		users, err = decodeList[models.User](b)
		return err
	})
	return users, err
}
