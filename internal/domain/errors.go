package domain

import "errors"

var (
	// Пустые обязательные поля
	ErrValidation = errors.New("validation failed")
	// Операция требует залогиненного пользователя
	ErrUnauthenticated = errors.New("authentication required")
	// Пользователь залогинен, но не владелец записи
	// (определяем по нулю затронутых строк при фильтре по user_id)
	ErrNotOwner = errors.New("not the owner")
	ErrNotFound = errors.New("not found")

	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
	ErrNotEnrolled          = errors.New("not enrolled in course")
	ErrUpgradeRequired      = errors.New("membership upgrade required")
)
