// Package sharepoint is the implementation of the storage client component.
// The storage client authenticates to a SharePoint site and exposes the
// download, upload and folder management operations the worker needs.
package sharepoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dkautomation/planrefresh/internal/constants"
)

var (
	// ErrAuth is returned when authentication or the verification round-trip fails.
	ErrAuth = errors.New("storage authentication failed")
	// ErrDownloadTimeout is returned when a downloaded file never appears locally within the wait limit.
	ErrDownloadTimeout = errors.New("downloaded file did not appear within the wait limit")
	// ErrUpload is returned when the remote folder cannot be resolved or the byte upload fails.
	ErrUpload = errors.New("file upload failed")
	// ErrArchive is returned when the archive folder creation or upload fails.
	ErrArchive = errors.New("monthly archive failed")
)

// FileInfo describes a file on the site after an upload.
type FileInfo struct {
	Name              string `json:"Name"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
	Length            int64  `json:"Length,string"`
}

// Folder describes a folder on the site.
type Folder struct {
	Name              string `json:"Name"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
	Exists            bool   `json:"Exists"`
}

// Client is an authenticated handle to one SharePoint site.
// It is created per run and holds no state beyond the session itself.
type Client struct {
	site     *url.URL
	username string
	password string

	http         *http.Client
	pollInterval time.Duration
	waitLimit    time.Duration

	log *slog.Logger
}

type options struct {
	// Private members exported for tests.
	httpClient   *http.Client
	pollInterval time.Duration
	waitLimit    time.Duration
}

// Options represents an optional function to override Client default values.
type Options func(*options)

func defaultOptions() options {
	return options{
		httpClient:   &http.Client{Timeout: 5 * time.Minute},
		pollInterval: constants.DownloadPollInterval,
		waitLimit:    constants.DownloadWaitLimit,
	}
}

// Connect verifies the session by fetching the site's web descriptor.
// It must be called once before any download or upload operation.
func (c *Client) Connect(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL("web"), nil)
	if err != nil {
		return errors.Join(ErrAuth, fmt.Errorf("failed to create request: %v", err))
	}

	var web struct {
		Title string `json:"Title"`
	}
	if err := c.do(req, &web); err != nil {
		return errors.Join(ErrAuth, err)
	}

	c.log.Info("[Ok] authenticated successfully", "site", c.site.String(), "title", web.Title)
	return nil
}

// New returns a new Client for the given site.
//
// The credentials are used for every request; they are never persisted.
// Connect must be called before any other operation to verify the session.
func New(l *slog.Logger, site, username, password string, args ...Options) (*Client, error) {
	u, err := url.Parse(site)
	if err != nil {
		return nil, fmt.Errorf("failed to parse site URL %s: %v", site, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("site URL %s is missing a scheme or host", site)
	}

	opts := defaultOptions()
	for _, opt := range args {
		opt(&opts)
	}

	return &Client{
		site:     u,
		username: username,
		password: password,

		http:         opts.httpClient,
		pollInterval: opts.pollInterval,
		waitLimit:    opts.waitLimit,

		log: l,
	}, nil
}

// SplitPath splits a remote path of the form Library/Sub1/.../FileName.ext
// into the document library, the chain of subfolders inside it, and the file
// name. The first segment is always the library and the last segment is
// always the file name.
func SplitPath(remote string) (library string, folders []string, file string) {
	parts := strings.Split(strings.Trim(remote, "/"), "/")

	library = parts[0]
	file = parts[len(parts)-1]
	if len(parts) > 2 {
		folders = parts[1 : len(parts)-1]
	}
	return library, folders, file
}

// serverRelative returns the server-relative URL for a path inside the site,
// e.g. /sites/A/Library/Sub for site https://host/sites/A.
func (c *Client) serverRelative(parts ...string) string {
	segments := append([]string{"/", c.site.Path}, parts...)
	return path.Join(segments...)
}

// apiURL builds an absolute URL for an _api endpoint of the site.
func (c *Client) apiURL(endpoint string) string {
	u := *c.site
	u.Path = path.Join(u.Path, "_api", endpoint)
	return u.String()
}

// do performs an authenticated request and decodes a JSON response into out,
// if out is non-nil. Non-2xx responses are returned as errors carrying the
// status and response body.
func (c *Client) do(req *http.Request, out any) error {
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json;odata=nometadata")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %v", req.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, req.URL, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %v", req.URL, err)
	}
	return nil
}
