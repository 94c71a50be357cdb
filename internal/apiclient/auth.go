package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/jobos/frontend/internal/model"
)

var errMissingToken = errors.New("response has no token")

// Signup creates an account. Any 2xx is success; the body is ignored.
func (c *Client) Signup(ctx context.Context, form model.SignupForm) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/signup", form)
	if err != nil {
		return &Error{Op: "signup", Kind: KindNetwork, Err: err}
	}
	return c.do("signup", req, nil)
}

// Signin checks credentials and returns the bearer token verbatim.
func (c *Client) Signin(ctx context.Context, form model.SigninForm) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/signin", form)
	if err != nil {
		return "", &Error{Op: "signin", Kind: KindNetwork, Err: err}
	}

	var out struct {
		Token string `json:"token"`
	}
	err = c.do("signin", req, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &Error{Op: "signin", Kind: KindDecode, Status: http.StatusOK, Err: errMissingToken}
	}
	return out.Token, nil
}
