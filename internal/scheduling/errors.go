package scheduling

import (
	"errors"
	"fmt"
)

// ErrSlotConflict — предложенное время пересекается с существующей записью
// (возвращается только если подключена проверка конфликтов).
var ErrSlotConflict = errors.New("slot conflicts with an existing appointment")

// ErrTransitionNotAllowed — переход статуса запрещён строгой политикой.
var ErrTransitionNotAllowed = errors.New("status transition not allowed")

// ValidationError — не заполнено обязательное поле или выбор.
// Возвращается до любого обращения к хранилищу.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError — изменяемая запись уже не существует.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// StoreError — сбой чтения/записи в хранилище (соединение и т.п.).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// StoreFailure оборачивает ошибку хранилища. nil остаётся nil.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
