// Package storage описывает ошибки слоя хранения, общие для всех репозиториев.
package storage

import "errors"

var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists нарушено ограничение уникальности.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrOutOfRange значение не помещается в столбец.
	ErrOutOfRange = errors.New("value out of range")
)
