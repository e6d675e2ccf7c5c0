package service

import "errors"

var (
	ErrValidation          = errors.New("error invalid input")
	ErrUnsupportedMarket   = errors.New("error market not supported for this operation")
	ErrCloudStorageOff     = errors.New("error cloud storage is not configured")
	ErrNothingToImport     = errors.New("error import file holds no rows")
	ErrUnknownImportTarget = errors.New("error unknown import target")
)
