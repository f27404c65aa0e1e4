package serverutils

import (
	"strings"

	"fsnb-matcher-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type Response[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Message: message,
		Data:    data,
	}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts failures into the
// domain's InvalidInput error so the error middleware renders them uniformly.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				fields = append(fields, ve.Field()+" failed on '"+ve.Tag()+"'")
			}
			return apperror.New(apperror.CodeInvalidInput, strings.Join(fields, "; "))
		}
		return apperror.Wrap(apperror.CodeInvalidInput, "invalid request body", err)
	}
	return nil
}
