package splunkbase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Artifact describes a downloaded release package on disk.
type Artifact struct {
	Filename string
	Path     string
	Size     int64
	Sha256   string
}

// SafeFilename derives a local file name from a Content-Disposition
// header, only the base name of the suggested filename is kept.
func SafeFilename(contentDisposition string) (string, error) {
	if contentDisposition == "" {
		return "", ErrMissingContentDisposition
	}
	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrMissingFilename, err.Error())
	}
	filename, ok := params["filename"]
	if !ok {
		return "", ErrMissingFilename
	}

	filename = strings.ReplaceAll(filename, `\`, "/")
	if i := strings.LastIndex(filename, "/"); i >= 0 {
		filename = filename[i+1:]
	}
	filename = strings.TrimSpace(filename)
	if filename == "" || filename == "." || filename == ".." || strings.ContainsRune(filename, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, params["filename"])
	}
	return filename, nil
}

// writeFile replaces `path` with `contents`, the data goes to a temporary
// file in the same directory which is renamed over `path` once complete.
func writeFile(path string, contents []byte) (err error) {
	suffix, err := random.String(8)
	if err != nil {
		return err
	}
	tmpPath := filepath.Join(
		filepath.Dir(path),
		fmt.Sprintf(".%s.%s.part", filepath.Base(path), suffix),
	)

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	_, err = f.Write(contents)
	if err == nil {
		err = f.Sync()
	}
	closeErr := f.Close()
	if err != nil {
		return errors.Join(err, closeErr)
	}
	if closeErr != nil {
		return closeErr
	}

	return os.Rename(tmpPath, path)
}

// DownloadRelease fetches `link` through the authorized session and writes
// the body into `dir`, named after the response's Content-Disposition.
// An existing file of the same name is overwritten.
func (c *Client) DownloadRelease(ctx context.Context, link, dir string) (Artifact, error) {
	ctx, span := tracer.Start(ctx, "client:DownloadRelease")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch release")
		return Artifact{}, err
	}
	err = checkStatusCode(res.StatusCode())
	if err != nil {
		span.SetStatus(codes.Error, "release returned an error status")
		return Artifact{}, err
	}

	filename, err := SafeFilename(res.Header().Get("Content-Disposition"))
	if err != nil {
		span.SetStatus(codes.Error, "failed to determine filename")
		return Artifact{}, err
	}

	path := filepath.Join(dir, filename)
	body := res.Body()
	err = writeFile(path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write release")
		return Artifact{}, fmt.Errorf("write %s: %w", path, err)
	}

	digest := sha256.Sum256(body)
	artifact := Artifact{
		Filename: filename,
		Path:     path,
		Size:     int64(len(body)),
		Sha256:   hex.EncodeToString(digest[:]),
	}
	span.SetAttributes(
		attribute.String("artifact.filename", artifact.Filename),
		attribute.Int64("artifact.size", artifact.Size),
	)
	return artifact, nil
}
