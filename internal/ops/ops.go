package ops

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"github.com/hpungsan/contentvault/internal/content"
	"github.com/hpungsan/contentvault/internal/errors"
	"github.com/hpungsan/contentvault/internal/fetch"
)

// MarkdownSource fetches markdown documents by URL.
type MarkdownSource interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Result, error)
}

// upstreamMessenger is implemented by store errors that carry a
// message from the upstream service.
type upstreamMessenger interface {
	UpstreamMessage() string
}

// upstreamError maps a store failure to a VaultError. Non-internal
// VaultErrors pass through unchanged; otherwise the upstream message is
// used when present, else fallback.
func upstreamError(err error, fallback string) error {
	var vErr *errors.VaultError
	if stderrors.As(err, &vErr) && vErr.Code != errors.ErrInternal {
		return vErr
	}
	var msg string
	var um upstreamMessenger
	if stderrors.As(err, &um) {
		msg = um.UpstreamMessage()
	}
	return errors.NewUpstream(msg, fallback, err)
}

// storeError is like upstreamError but always reports msg, never the
// upstream service's own message.
func storeError(err error, msg string) error {
	var vErr *errors.VaultError
	if stderrors.As(err, &vErr) && vErr.Code != errors.ErrInternal {
		return vErr
	}
	return errors.NewUpstream("", msg, err)
}

// validateID trims and requires an item id.
func validateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// validateWebURL requires an absolute http(s) URL.
func validateWebURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.NewInvalidRequest("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.NewInvalidRequest("url must be an absolute http(s) URL")
	}
	return raw, nil
}

// validateStatus requires one of the known statuses.
func validateStatus(status string) error {
	if !content.IsKnownStatus(status) {
		return errors.NewInvalidRequest("invalid status: " + status)
	}
	return nil
}
