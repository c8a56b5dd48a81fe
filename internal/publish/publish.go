// Package publish is the implementation of the result publisher component.
// The publisher puts the refreshed file back at its original remote location,
// optionally duplicates it into the monthly archive, and always removes the
// local scratch copy afterwards.
package publish

import (
	"context"
	"log/slog"
	"time"

	"github.com/dkautomation/planrefresh/internal/fileutils"
	"github.com/dkautomation/planrefresh/internal/sharepoint"
	"github.com/dkautomation/planrefresh/internal/workitem"
	"github.com/ubuntu/decorate"
)

type timeProvider interface {
	Now() time.Time
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}

// Uploader is the slice of the storage client the publisher needs.
type Uploader interface {
	Upload(ctx context.Context, remotePath, localPath string) (sharepoint.FileInfo, error)
	ArchiveMonthly(ctx context.Context, localPath string, now time.Time) (sharepoint.FileInfo, error)
}

// Publisher sequences the uploads of a refreshed file.
type Publisher struct {
	uploader     Uploader
	timeProvider timeProvider

	log *slog.Logger
}

type options struct {
	// Private members exported for tests.
	timeProvider timeProvider
}

// Options represents an optional function to override Publisher default values.
type Options func(*options)

// New returns a new Publisher uploading through u.
func New(l *slog.Logger, u Uploader, args ...Options) Publisher {
	opts := options{
		timeProvider: realTimeProvider{},
	}
	for _, opt := range args {
		opt(&opts)
	}

	return Publisher{
		uploader:     u,
		timeProvider: opts.timeProvider,
		log:          l,
	}
}

// Publish uploads localPath back to the item's remote path and, if the item
// requests it, into the monthly archive. The scratch file is removed
// unconditionally afterwards, whether or not the uploads succeeded.
func (p Publisher) Publish(ctx context.Context, item workitem.Item, localPath string) (err error) {
	defer decorate.OnError(&err, "publish failed")
	defer func() {
		if rerr := fileutils.RemoveIfExists(localPath); rerr != nil {
			p.log.Warn("Failed to remove local scratch file", "path", localPath, "error", rerr)
		}
	}()

	if _, err := p.uploader.Upload(ctx, item.FolderPath, localPath); err != nil {
		return err
	}

	if item.WantsMonthlyArchive() {
		p.log.Info("Custom function requested", "function", item.CustomFunction)
		if _, err := p.uploader.ArchiveMonthly(ctx, localPath, p.timeProvider.Now()); err != nil {
			return err
		}
	}

	return nil
}
