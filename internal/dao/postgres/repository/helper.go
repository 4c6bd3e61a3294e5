package repository

import (
	"errors"

	"kiu_social_server/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBError maps GORM errors onto business codes:
// ErrRecordNotFound -> CodeNotFound, ErrDuplicatedKey -> CodeConflict,
// anything else -> CodeDBError.
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrap(err, errorx.CodeNotFound, msg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrap(err, errorx.CodeConflict, msg)
	}
	return errorx.Wrap(err, errorx.CodeDBError, msg)
}

// wrapDBErrorf is wrapDBError with a formatted message.
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errorx.Wrapf(err, errorx.CodeConflict, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodeDBError, format, args...)
}

// pageOffset converts 1-based page/limit into an OFFSET, treating page 0 as
// page 1.
func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
