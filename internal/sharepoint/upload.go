package sharepoint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
)

// Upload puts the bytes of localPath back on the site at remotePath, under
// the original file name. The target folder is reconstructed from the same
// library/subfolder split used for the download and must already exist.
func (c *Client) Upload(ctx context.Context, remotePath, localPath string) (FileInfo, error) {
	library, folders, file := SplitPath(remotePath)

	folderURL := c.serverRelative(path.Join(append([]string{library}, folders...)...))
	if _, err := c.getFolder(ctx, folderURL); err != nil {
		return FileInfo{}, errors.Join(ErrUpload, err)
	}

	info, err := c.uploadFile(ctx, folderURL, file, localPath)
	if err != nil {
		return FileInfo{}, errors.Join(ErrUpload, err)
	}

	c.log.Info("[Ok] file has been uploaded", "url", info.ServerRelativeURL)
	return info, nil
}

// getFolder resolves a folder by its server-relative URL.
func (c *Client) getFolder(ctx context.Context, folderURL string) (Folder, error) {
	endpoint := fmt.Sprintf("web/GetFolderByServerRelativeUrl('%s')", folderURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL(endpoint), nil)
	if err != nil {
		return Folder{}, fmt.Errorf("failed to create folder request: %v", err)
	}

	var folder Folder
	if err := c.do(req, &folder); err != nil {
		return Folder{}, fmt.Errorf("failed to resolve folder %s: %w", folderURL, err)
	}
	return folder, nil
}

// EnsureFolder creates name beneath the parent folder, or resolves it when it
// already exists, and returns the resulting folder.
func (c *Client) EnsureFolder(ctx context.Context, parentURL, name string) (Folder, error) {
	folderURL := path.Join(parentURL, name)

	endpoint := fmt.Sprintf("web/GetFolderByServerRelativeUrl('%s')/folders/add('%s')", parentURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(endpoint), nil)
	if err != nil {
		return Folder{}, fmt.Errorf("failed to create folder request: %v", err)
	}

	var folder Folder
	if err := c.do(req, &folder); err != nil {
		// The add call is not idempotent on every farm; fall back to resolving.
		folder, gerr := c.getFolder(ctx, folderURL)
		if gerr != nil {
			return Folder{}, fmt.Errorf("failed to create folder %s: %v", folderURL, err)
		}
		return folder, nil
	}
	if folder.ServerRelativeURL == "" {
		folder.ServerRelativeURL = folderURL
	}
	return folder, nil
}

// uploadFile uploads the bytes of localPath into the folder under name,
// overwriting any existing file.
func (c *Client) uploadFile(ctx context.Context, folderURL, name, localPath string) (FileInfo, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to read local file %s: %v", localPath, err)
	}

	endpoint := fmt.Sprintf("web/GetFolderByServerRelativeUrl('%s')/Files/add(url='%s',overwrite=true)", folderURL, name)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL(endpoint), bytes.NewReader(data))
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create upload request: %v", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var info FileInfo
	if err := c.do(req, &info); err != nil {
		return FileInfo{}, fmt.Errorf("failed to upload %s to %s: %w", name, folderURL, err)
	}
	if info.ServerRelativeURL == "" {
		info.ServerRelativeURL = path.Join(folderURL, name)
	}
	return info, nil
}
