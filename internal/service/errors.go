package service

import "grocigo/pkg/validator"

// ValidationError reports a request that failed struct validation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Message: validator.Message(errs)}
	}
	return nil
}
