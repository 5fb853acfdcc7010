package splunkbase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/codes"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	// absent on success
	StatusCode *int   `json:"status_code"`
	Message    string `json:"message"`
}

// LoginUsernamePassword exchanges the credentials for session cookies,
// which the client's cookie jar keeps for the following requests.
func (c *Client) LoginUsernamePassword(ctx context.Context, username, password string) error {
	ctx, span := tracer.Start(ctx, "client:LoginUsernamePassword")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(credentials{Username: username, Password: password}).
		Post(c.AuthUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to make auth request")
		return err
	}

	var payload authResponse
	err = json.Unmarshal(res.Body(), &payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to unmarshal auth response")
		return fmt.Errorf("decode auth response (status %d): %w", res.StatusCode(), err)
	}

	if payload.StatusCode != nil && *payload.StatusCode != http.StatusOK {
		authErr := &AuthError{StatusCode: *payload.StatusCode, Message: payload.Message}
		span.SetStatus(codes.Error, authErr.Error())
		return authErr
	}
	if payload.StatusCode == nil && res.IsError() {
		message := payload.Message
		if message == "" {
			message = res.Status()
		}
		authErr := &AuthError{StatusCode: res.StatusCode(), Message: message}
		span.SetStatus(codes.Error, authErr.Error())
		return authErr
	}

	return nil
}
