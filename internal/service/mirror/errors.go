package mirror

import "errors"

var (
	// ErrInvalidCatalogue каталог длительностей не согласован с сеткой
	ErrInvalidCatalogue = errors.New("mirror: invalid duration catalogue")

	// ErrEmptyCatalogue в каталоге нет активных опций
	ErrEmptyCatalogue = errors.New("mirror: no active duration options")

	// ErrResourceNotFound ресурс не найден или неактивен
	ErrResourceNotFound = errors.New("mirror: resource not found")
)
