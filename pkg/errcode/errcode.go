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
	WriteFileError
	LockError

	// Logging errors
	CreateLogFileError

	// Catalogue errors
	DatasetsConfigError
	UnknownDatasetError

	// Residue and structure errors
	UnknownResidueError
	StructureReadError
	PairShapeMismatchError

	// Fetch errors
	FetchRequestError
	FetchDownloadError

	// Pipeline errors
	PrerequisiteError
	CheckpointReadError
	CheckpointWriteError
	CheckpointInvariantError
	RowIndexError
	StructureWriteError
	CancelledError

	// Table errors
	TableOpenError
	TableWriteError
	TableReadError
	TableSchemaMismatchError

	// Model errors
	ModelTrainError
	ModelReadError
	ModelWriteError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableExistsCheckError

	// Schema errors
	SchemaGORMConnectionError
	SchemaMigrateError

	// Export errors
	ExportError
)
