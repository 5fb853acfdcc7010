package splunkbase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type Credentials struct {
	Username string
	Password string
}

// Download runs the whole flow for one release: authenticate, resolve the
// interstitial page in front of the release, then download it into `dir`.
// Every stage must succeed for the next one to run.
func (c *Client) Download(ctx context.Context, creds Credentials, target Target, dir string) (Artifact, error) {
	ctx, span := tracer.Start(ctx, "client:Download")
	defer span.End()

	span.SetAttributes(
		attribute.String("app_id", target.AppId),
		attribute.String("version", target.Version),
	)
	slog.InfoContext(
		ctx, fmt.Sprintf("Downloading app with id %s version %s...", target.AppId, target.Version),
		"app_id", target.AppId,
		"version", target.Version,
	)
	link := c.ReleaseUrl(target)

	err := c.LoginUsernamePassword(ctx, creds.Username, creds.Password)
	if err != nil {
		span.SetStatus(codes.Error, "authentication failed")
		return Artifact{}, fmt.Errorf("authenticate: %w", err)
	}
	slog.DebugContext(ctx, "authenticated", "username", creds.Username)

	err = c.ResolveInterstitial(ctx, link)
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve interstitial")
		return Artifact{}, fmt.Errorf("resolve interstitial: %w", err)
	}
	slog.DebugContext(ctx, "interstitial resolved", "url", link)

	artifact, err := c.DownloadRelease(ctx, link, dir)
	if err != nil {
		span.SetStatus(codes.Error, "failed to download release")
		return Artifact{}, fmt.Errorf("download release: %w", err)
	}

	slog.InfoContext(
		ctx, fmt.Sprintf("Successfully downloaded package %s", artifact.Filename),
		"path", artifact.Path,
		"size", artifact.Size,
	)
	return artifact, nil
}
