package models

type CustomError struct {
	Code    string
	Message string
}

func (e CustomError) Error() string {
	return e.Message
}
func (e CustomError) ErrorCode() string {
	return e.Code
}

// Is matches on the error code so wrapped and reconstructed instances
// (e.g. authorization denials carrying a per-call reason) still compare
// equal under errors.Is.
func (e CustomError) Is(target error) bool {
	if t, ok := target.(*CustomError); ok {
		return t.Code == e.Code
	}
	if t, ok := target.(CustomError); ok {
		return t.Code == e.Code
	}
	return false
}
