package store

import "codeberg.org/mutker/droidscout/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig = errors.ErrorCode("store_invalid_config")
	ErrInvalidDBPath = errors.ErrorCode("store_invalid_db_path")

	// Schema Errors
	ErrSchemaInitFailed  = errors.ErrorCode("store_schema_init_failed")
	ErrTransactionFailed = errors.ErrorCode("store_transaction_failed")

	// Storage Errors
	ErrStorageAccess = errors.ErrorCode("store_storage_access_failed")
	ErrStorageInit   = errors.ErrorCode("store_storage_init_failed")
	ErrStorageClose  = errors.ErrorCode("store_storage_close_failed")

	// Collection Errors
	ErrEmptySession = errors.ErrorCode("store_empty_session")
)
