package request

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"careerlytics-backend/internal/shared/server/respond"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate runs struct-tag validation on v.
func Validate(v any) error {
	return validate.Struct(v)
}

// BindJSON decodes the body into dst and validates it. On failure it writes a
// 400 validation_error response and returns false.
func BindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return false
	}
	if err := Validate(dst); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", FieldIssues(err))
		return false
	}
	return true
}

// FieldIssues flattens validator errors into field/issue pairs.
func FieldIssues(err error) []map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]map[string]string, 0, len(verrs))
	for _, fe := range verrs {
		issue := fe.Tag()
		if fe.Param() != "" {
			issue += "=" + fe.Param()
		}
		out = append(out, map[string]string{"field": fe.Field(), "issue": issue})
	}
	return out
}
