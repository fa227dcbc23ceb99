// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, not_found, conflict, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// エラーカテゴリ
const (
	CategoryValidation = "validation"
	CategoryNotFound   = "not_found"
	CategoryConflict   = "conflict"
	CategorySystem     = "system"
)

// 定義済みエラーコード
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeInvalidID          = "INVALID_ID"
	ErrCodeUserIDRequired     = "USER_ID_REQUIRED"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeCharacterNotFound  = "CHARACTER_NOT_FOUND"
	ErrCodePlanetNotFound     = "PLANET_NOT_FOUND"
	ErrCodeFavoriteNotFound   = "FAVORITE_NOT_FOUND"
	ErrCodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// IsNotFound はerrが参照先未検出を表すAPIErrorかどうかを返す。
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Category == CategoryNotFound
}

// IsValidation はerrが入力不正を表すAPIErrorかどうかを返す。
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Category == CategoryValidation
}

// NewValidationError は必須項目の欠落など入力不正エラーを生成する。
func NewValidationError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeValidation,
		Message:  message,
		Category: CategoryValidation,
		Action:   "必須項目をすべて指定してください。",
	}
}

// NewInvalidRequestError はリクエストボディの解析失敗エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "リクエストボディの解析に失敗しました。",
		Category: CategoryValidation,
		Action:   "正しいJSON形式でリクエストしてください。数値項目には整数を指定してください。",
	}
}

// NewInvalidIDError はパスパラメータのID不正エラーを生成する。
func NewInvalidIDError(param string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("無効なIDです: %s", param),
		Category: CategoryValidation,
		Action:   "IDには正の整数を指定してください。",
	}
}

// NewUserIDRequiredError はuser_id未指定エラーを生成する。
func NewUserIDRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeUserIDRequired,
		Message:  "user_idは必須です。",
		Category: CategoryValidation,
		Action:   "お気に入りを登録するユーザーのIDを指定してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %d", id),
		Category: CategoryNotFound,
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewCharacterNotFoundError はキャラクターが見つからない場合のエラーを生成する。
func NewCharacterNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodeCharacterNotFound,
		Message:  fmt.Sprintf("指定されたキャラクターが見つかりません: %d", id),
		Category: CategoryNotFound,
		Action:   "キャラクターIDを確認してください。",
	}
}

// NewPlanetNotFoundError は惑星が見つからない場合のエラーを生成する。
func NewPlanetNotFoundError(id int64) *APIError {
	return &APIError{
		Code:     ErrCodePlanetNotFound,
		Message:  fmt.Sprintf("指定された惑星が見つかりません: %d", id),
		Category: CategoryNotFound,
		Action:   "惑星IDを確認してください。",
	}
}

// NewFavoriteNotFoundError はお気に入りが見つからない場合のエラーを生成する。
func NewFavoriteNotFoundError(target FavoriteTarget) *APIError {
	return &APIError{
		Code:     ErrCodeFavoriteNotFound,
		Message:  fmt.Sprintf("指定されたお気に入りが見つかりません: %s %d", target.Kind, target.ID),
		Category: CategoryNotFound,
		Action:   "お気に入り一覧を確認してください。",
	}
}

// NewEmailAlreadyExistsError はメールアドレス重複エラーを生成する。
func NewEmailAlreadyExistsError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailAlreadyExists,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: CategoryConflict,
		Action:   "別のメールアドレスを指定してください。",
	}
}

// NewRateLimitExceededError はレート制限超過エラーを生成する。
func NewRateLimitExceededError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimitExceeded,
		Message:  "リクエストが多すぎます。",
		Category: CategorySystem,
		Action:   "Retry-Afterヘッダーの秒数が経過してから再度お試しください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログのみに記録する。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: CategorySystem,
		Action:   "しばらく待ってから再度お試しください。",
	}
}
