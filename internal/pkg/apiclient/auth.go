package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-console/internal/domain/auth"
)

// Login implements auth.Gateway. A missing tokens.accessToken on a 2xx
// response is reported as auth.ErrNoToken.
func (c *Client) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/v1/login", nil, req)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	var resp auth.LoginResponse
	if err := c.do(c.httpClient, httpReq, &resp); err != nil {
		// a 401 on login is a credential rejection, not an expired session
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return auth.LoginResponse{}, &auth.AuthError{Message: apiErr.Message, Err: auth.ErrInvalidCredentials}
		}
		return auth.LoginResponse{}, err
	}

	if resp.AccessToken() == "" {
		return resp, &auth.AuthError{Err: auth.ErrNoToken}
	}
	return resp, nil
}
