// Package model はドメインモデルを定義する。
package model

// Character はお気に入り登録の対象となるキャラクターを表す。
type Character struct {
	ID      int64
	Name    string
	Species string
	Gender  string
}

// Planet はお気に入り登録の対象となる惑星を表す。
type Planet struct {
	ID         int64
	Name       string
	Size       int64
	Climate    string
	Population int64
}
