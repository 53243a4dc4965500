package customers

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidPhone возвращается, когда телефон не приводится к 10 цифрам
	ErrInvalidPhone = errors.New("phone must be a 10-digit number")

	// ErrDuplicatePhone возвращается, когда телефон уже принадлежит другому клиенту салона
	ErrDuplicatePhone = errors.New("a customer with this phone already exists")

	// ErrNothingToUpdate возвращается, когда в запросе на обновление нет полей
	ErrNothingToUpdate = errors.New("no updatable fields supplied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("customers service: internal error")
)
