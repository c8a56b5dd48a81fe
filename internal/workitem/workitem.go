// Package workitem is the implementation of the work item parser component.
// A work item is one queued description of a spreadsheet to refresh and relocate.
package workitem

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkautomation/planrefresh/internal/constants"
	"github.com/google/uuid"
)

var (
	// ErrMissingSite is returned when the payload has no SharePointSite field.
	ErrMissingSite = errors.New("work item has no SharePointSite")
	// ErrMissingFolderPath is returned when the payload has no FolderPath field.
	ErrMissingFolderPath = errors.New("work item has no FolderPath")
)

// Item describes one queued job: which site to talk to, which file to
// refresh, and the optional custom function requested for the run.
type Item struct {
	ID uuid.UUID

	Site           string
	FolderPath     string
	CustomFunction string
}

// payload is the wire shape of a queue element's data field.
type payload struct {
	SharePointSite string `json:"SharePointSite"`
	FolderPath     string `json:"FolderPath"`
	CustomFunction string `json:"CustomFunction"`
}

// Parse decodes a queue payload into an Item.
//
// SharePointSite and FolderPath are required. CustomFunction is optional and
// defaults to the empty string. No validation of URL or path well-formedness
// is performed here; malformed paths surface later as storage errors.
func Parse(id uuid.UUID, data []byte) (Item, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Item{}, fmt.Errorf("failed to decode work item payload: %v", err)
	}

	if p.SharePointSite == "" {
		return Item{}, ErrMissingSite
	}
	if p.FolderPath == "" {
		return Item{}, ErrMissingFolderPath
	}

	return Item{
		ID:             id,
		Site:           p.SharePointSite,
		FolderPath:     p.FolderPath,
		CustomFunction: p.CustomFunction,
	}, nil
}

// WantsMonthlyArchive reports whether the item requests the dated archive copy.
// Only the exact literal "MonthlyFolder" is recognized; any other value is ignored.
func (i Item) WantsMonthlyArchive() bool {
	return i.CustomFunction == constants.MonthlyFolderFunction
}
