package services

import "errors"

var (
	// ErrCustomerNotFound indicates that no customer has the requested id or phone.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrDuplicatePhone indicates that another customer already uses the phone number.
	ErrDuplicatePhone = errors.New("phone number already registered")

	// ErrInvalidServices indicates that servicesTaken was not supplied as a list.
	ErrInvalidServices = errors.New("services taken must be a list")

	// ErrStorage wraps any failure of the underlying file or database.
	ErrStorage = errors.New("storage failure")
)
