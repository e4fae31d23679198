package apiclient

import (
	"context"
	"errors"
	"net/http"
)

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

// refreshAccessToken exchanges refreshToken for a new access token and stores it. With
// dedup enabled, concurrent callers holding the same refresh token share one call.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if !c.dedupRefresh {
		return c.refresh(ctx, refreshToken)
	}

	ch := c.refreshGroup.DoChan(refreshToken, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), refreshToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (string, error) {
	req, err := NewJSONRequest(http.MethodPost, c.refreshPath, refreshRequest{Refresh: refreshToken})
	if err != nil {
		return "", &RefreshError{Err: err}
	}

	// The refresh call carries no bearer token and is never itself refreshed.
	p := pendingRequest{req: req, requestID: c.newRequestID(), attempted: true}
	resp, err := c.send(ctx, p, "")
	if err == nil {
		resp, err = c.result(p, resp)
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("request_id", p.requestID).Msg("token refresh failed")
		return "", &RefreshError{Err: err}
	}

	var out refreshResponse
	if err := resp.Decode(&out); err != nil {
		return "", &RefreshError{Err: err}
	}
	if out.Access == "" {
		return "", &RefreshError{Err: errors.New("refresh response has no access token")}
	}

	if err := c.creds.UpdateAccessToken(ctx, refreshToken, out.Access); err != nil {
		if errors.Is(err, ErrSessionEnded) {
			c.logger.Info().Str("request_id", p.requestID).Msg("session ended while refreshing; discarding token")
			return "", err
		}
		// The request can still be replayed with the new token even if persisting it failed.
		c.logger.Error().Err(err).Msg("failed to store refreshed access token")
	}
	return out.Access, nil
}
