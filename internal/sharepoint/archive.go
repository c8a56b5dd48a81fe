package sharepoint

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dkautomation/planrefresh/internal/constants"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// danishMonths maps time.Month to the Danish month name, lower case as
// written in running text.
var danishMonths = map[time.Month]string{
	time.January:   "januar",
	time.February:  "februar",
	time.March:     "marts",
	time.April:     "april",
	time.May:       "maj",
	time.June:      "juni",
	time.July:      "juli",
	time.August:    "august",
	time.September: "september",
	time.October:   "oktober",
	time.November:  "november",
	time.December:  "december",
}

var danishTitle = cases.Title(language.Danish)

// MonthName returns the capitalized Danish name of the month of t.
func MonthName(t time.Time) string {
	return danishTitle.String(danishMonths[t.Month()])
}

// ArchiveMonthly duplicates localPath into the year/month archive.
//
// The archive lives in a fixed library and subfolder; a folder for the
// current year and one for the current month (Danish name) are created
// beneath it as needed, and the file is uploaded there under a synthesized
// DKPlan_<Month>_<Year>.xlsx name. The time is passed in by the caller so
// tests can pin it.
func (c *Client) ArchiveMonthly(ctx context.Context, localPath string, now time.Time) (FileInfo, error) {
	month := MonthName(now)
	year := strconv.Itoa(now.Year())

	parentURL := c.serverRelative(constants.ArchiveLibrary, constants.ArchiveFolder)
	yearFolder, err := c.EnsureFolder(ctx, parentURL, year)
	if err != nil {
		return FileInfo{}, errors.Join(ErrArchive, err)
	}
	monthFolder, err := c.EnsureFolder(ctx, yearFolder.ServerRelativeURL, month)
	if err != nil {
		return FileInfo{}, errors.Join(ErrArchive, err)
	}

	name := fmt.Sprintf(constants.ArchiveFilePattern, month, year)
	info, err := c.uploadFile(ctx, monthFolder.ServerRelativeURL, name, localPath)
	if err != nil {
		return FileInfo{}, errors.Join(ErrArchive, err)
	}

	c.log.Info("[Ok] file has been archived", "url", info.ServerRelativeURL)
	return info, nil
}
