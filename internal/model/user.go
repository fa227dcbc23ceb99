// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// Passwordは不透明な文字列として保存し、レスポンスには含めない。
type User struct {
	ID               int64
	Email            string
	Password         string
	IsActive         bool
	RegistrationDate time.Time
	Name             string
	LastName         string
}

// UserWithFavorites はユーザーとそのお気に入り一覧を結合したモデル。
type UserWithFavorites struct {
	User
	Favorites []*Favorite
}
