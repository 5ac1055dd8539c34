package version

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goversion "github.com/hashicorp/go-version"
	"github.com/nulzo/model-catalog/internal/httpclient"
)

// Version is set at build time with -ldflags "-X ...version.Version=v1.2.3".
var Version = "v0.0.0"

const ReleasesURL = "https://api.github.com/repos/nulzo/model-catalog/releases/latest"

type release struct {
	TagName string `json:"tag_name"`
}

// Status compares the running build to the latest published release.
type Status struct {
	Current  string `json:"current" yaml:"current"`
	Latest   string `json:"latest" yaml:"latest"`
	Outdated bool   `json:"outdated" yaml:"outdated"`
}

// Check fetches the latest release from url and compares it to current.
func Check(ctx context.Context, client httpclient.HTTPClient, url, current string) (*Status, error) {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}

	var rel release
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if err := httpclient.GetJSON(ctx, client, url, headers, &rel); err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}

	return Compare(current, rel.TagName)
}

// Compare reports whether current is older than latest.
func Compare(current, latest string) (*Status, error) {
	cur, err := goversion.NewVersion(current)
	if err != nil {
		return nil, fmt.Errorf("parse current version %q: %w", current, err)
	}
	lat, err := goversion.NewVersion(latest)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", latest, err)
	}

	return &Status{
		Current:  current,
		Latest:   latest,
		Outdated: cur.LessThan(lat),
	}, nil
}
