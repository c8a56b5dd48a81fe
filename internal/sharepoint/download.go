package sharepoint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dkautomation/planrefresh/internal/fileutils"
	"github.com/sethvargo/go-retry"
)

// Download fetches the file at remotePath into dir, under the file name taken
// verbatim from the path's last segment, and returns the local path.
//
// After issuing the download the local path is polled for existence once per
// poll interval until the wait limit elapses; ErrDownloadTimeout is returned
// if the file never materializes. The remote path may stream asynchronously,
// so the poll is kept even though the common case completes synchronously.
func (c *Client) Download(ctx context.Context, remotePath, dir string) (string, error) {
	_, _, file := SplitPath(remotePath)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create download directory: %v", err)
	}
	localPath := filepath.Join(dir, file)

	endpoint := fmt.Sprintf("web/GetFileByServerRelativeUrl('%s')/$value", c.serverRelative(remotePath))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(endpoint), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %v", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request for %s failed: %v", remotePath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d downloading %s", resp.StatusCode, remotePath)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read download of %s: %v", remotePath, err)
	}
	// The existence poll below must never see a half written file.
	if err := fileutils.AtomicWrite(localPath, data); err != nil {
		return "", fmt.Errorf("failed to write local file %s: %v", localPath, err)
	}

	if err := c.waitForFile(ctx, localPath); err != nil {
		// The caller never sees the local path on failure, so the scratch
		// file has to go here.
		if rerr := fileutils.RemoveIfExists(localPath); rerr != nil {
			err = errors.Join(err, rerr)
		}
		return "", err
	}

	c.log.Info("[Ok] file has been downloaded", "path", localPath)
	return localPath, nil
}

// waitForFile polls for the existence of path with a constant interval until
// the wait limit elapses.
func (c *Client) waitForFile(ctx context.Context, path string) error {
	backoff := retry.WithMaxDuration(c.waitLimit, retry.NewConstant(c.pollInterval))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if _, err := os.Stat(path); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		// A cancelled run is not a download timeout.
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		return errors.Join(ErrDownloadTimeout,
			fmt.Errorf("file not found at %s after waiting for %s", path, c.waitLimit))
	}
	return nil
}
