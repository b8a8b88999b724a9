package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBTableExistsCheckError
	DBTxError
	DBReplaceError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// Storage errors
	StoreUpsertError
	StoreNotFoundError
	StoreValidationError
	StoreListError
	StoreStatsError
	StoreSnapshotError

	// Sources errors
	SourcesConfigError
	SourcesDocumentError

	// Import errors
	ImportSourceReadError
	ImportAllDocumentsFailedError
	ImportCancelledError

	// Search errors
	SearchQueryError

	// Rebuild errors
	RebuildBuildError
	RebuildIntegrityError
	RebuildSwapError
	RebuildCancelledError
)
