// Package constants is responsible for defining the constants used in the application.
package constants

import (
	"log/slog"
	"time"
)

var (
	// Version is the version of the application.
	Version = "Dev"

	// DefaultRefreshCommand is the external bridge invoked to refresh a workbook.
	// The workbook path is appended as the last argument.
	DefaultRefreshCommand = []string{"xlrefresh", "--headless"}
)

const (
	// CmdName is the name of the command line tool.
	CmdName = "planrefresh"

	// DefaultLogLevel is the default log level of the application.
	DefaultLogLevel = slog.LevelWarn

	// CredentialName is the orchestrator credential looked up for the storage service.
	CredentialName = "Robot365User"

	// DefaultQueueName is the orchestrator queue the worker claims elements from.
	DefaultQueueName = "dkplan-refresh"

	// MonthlyFolderFunction is the work item custom function that requests a dated archive copy.
	MonthlyFolderFunction = "MonthlyFolder"

	// DefaultRefreshTimeout is the wall-clock budget for the refresh subprocess.
	DefaultRefreshTimeout = 60 * time.Second

	// DownloadPollInterval is how often the downloaded file is checked for existence.
	DownloadPollInterval = 1 * time.Second

	// DownloadWaitLimit is how long the downloaded file is polled for before giving up.
	DownloadWaitLimit = 60 * time.Second

	// ArchiveLibrary is the document library holding the monthly archive.
	ArchiveLibrary = "Dokumenter"

	// ArchiveFolder is the subfolder of ArchiveLibrary holding the year folders.
	ArchiveFolder = "Historik"

	// ArchiveFilePattern is the name of the archived copy, filled with month and year.
	ArchiveFilePattern = "DKPlan_%s_%s.xlsx"
)
