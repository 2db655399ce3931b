package store

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/valyala/fasthttp"
)

// RecoverPassword asks the identity provider to send a password reset email
// pointing back at redirectTo. Uses the publishable key only; no user
// credential is involved yet.
func (c *Client) RecoverPassword(ctx context.Context, email, redirectTo string) error {
	uri := c.baseURL + "/auth/v1/recover"
	if redirectTo != "" {
		uri += "?redirect_to=" + url.QueryEscape(redirectTo)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	body, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return err
	}

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.Set("apikey", c.apiKey)
	req.Header.SetContentType("application/json")
	req.SetBodyRaw(body)

	if err := c.do(ctx, req, resp); err != nil {
		return err
	}
	if status := resp.StatusCode(); status >= fasthttp.StatusBadRequest {
		return decodeAuthError(status, resp.Body())
	}
	return nil
}

// UpdatePassword changes the password of the user owning the delegated
// credential. The provider itself validates the recovery token.
func (s *Scoped) UpdatePassword(ctx context.Context, password string) error {
	c := s.client

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	body, err := json.Marshal(map[string]string{"password": password})
	if err != nil {
		return err
	}

	req.SetRequestURI(c.baseURL + "/auth/v1/user")
	req.Header.SetMethod(fasthttp.MethodPut)
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.SetContentType("application/json")
	req.SetBodyRaw(body)

	if err := c.do(ctx, req, resp); err != nil {
		return err
	}
	if status := resp.StatusCode(); status >= fasthttp.StatusBadRequest {
		return decodeAuthError(status, resp.Body())
	}
	return nil
}
