package infra

import (
	"errors"

	"github.com/openbank/ledger/pkg/domain"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM errors to domain errors so database
// concerns stay inside the infrastructure layer. notFound is the sentinel a
// missing row maps to for the calling repository. The error chain is walked
// because GORM wraps driver errors.
func MapGormErrorToDomain(err, notFound error) error {
	if err == nil {
		return nil
	}

	currentErr := err
	for currentErr != nil {
		switch {
		case errors.Is(currentErr, gorm.ErrDuplicatedKey):
			return domain.ErrConflict
		case errors.Is(currentErr, gorm.ErrRecordNotFound):
			return notFound
		}
		currentErr = errors.Unwrap(currentErr)
	}

	return err
}
