package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/hugo050303/barber-saas/internal/scheduling"
)

// translate переводит ошибки GORM в таксономию ядра.
func translate(op, entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return scheduling.NotFound(entity, id)
	}
	return scheduling.StoreFailure(op, err)
}
