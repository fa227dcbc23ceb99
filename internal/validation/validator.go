// Package validation はgo-playground/validatorによる構造体バリデーションを提供する。
// 失敗時はmodel.APIError（VALIDATION_ERROR）を返し、ハンドラー層でそのまま400に変換できる。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/hitoshi/holocron/internal/model"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator はスレッドセーフなシングルトンのバリデータを返す。
// フィールド名はjsonタグの名前で報告する。
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct は構造体のvalidateタグを検証する。
// 検証に失敗した項目をまとめたVALIDATION_ERRORを返す。
func ValidateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validation failed: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return model.NewValidationError(strings.Join(messages, "; "))
}

// fieldMessage はフィールドエラーを利用者向けのメッセージに変換する。
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%sは必須です", fe.Field())
	case "max":
		return fmt.Sprintf("%sは%s文字以内で指定してください", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%sが不正です（%s）", fe.Field(), fe.Tag())
	}
}
