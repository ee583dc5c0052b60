package repository

import (
	"errors"
	"fmt"

	"github.com/amirasaad/goldvault/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors so that storage
// details stay inside the infrastructure layer. Errors that are already domain
// errors pass through; anything unrecognised is wrapped in
// domain.ErrPersistenceFailure.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", domain.ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrPersistenceConflict),
		errors.Is(err, domain.ErrPersistenceFailure):
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistenceFailure, err)
}

// WrapError runs a GORM operation and maps its error.
//
//	err := WrapError(func() error {
//	    return r.db.WithContext(ctx).Create(&m).Error
//	})
func WrapError(op func() error) error {
	return MapGormErrorToDomain(op())
}
