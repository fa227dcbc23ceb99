// Package testinfra はインテグレーションテスト用のコンテナ基盤を提供する。
//
// コンテナを使うヘルパーは integration ビルドタグ付きでのみコンパイルされる。
//
//	go test -tags integration ./...
package testinfra
