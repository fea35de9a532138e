package utils

import (
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"sahakari/bachatgat_ledger/internal/pkg/consts"
)

var validate = validator.New()

// ValidateStruct runs the shared validator over a request body and maps any
// failure to the generic validation sentinel so handlers return a stable code.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return consts.ErrorValidationFailed
	}
	return nil
}

// ParseObjectID converts a hex path or header value into an ObjectID.
func ParseObjectID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, consts.ErrorValidationFailed
	}
	return id, nil
}
