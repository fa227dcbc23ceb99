package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	// initialPingBackoff は接続確認リトライの初回遅延。
	initialPingBackoff = 500 * time.Millisecond
	// maxPingBackoff は接続確認リトライの最大遅延。
	maxPingBackoff = 8 * time.Second
	// DefaultPingAttempts は起動時の接続確認の試行回数。
	DefaultPingAttempts = 6
)

// Pinger はDB接続確認を抽象化するインターフェース。*sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// pingBackoff は失敗回数に基づいて指数バックオフ遅延を計算する。
// 初回500ms、2倍ずつ増加、最大8秒。
func pingBackoff(failures int) time.Duration {
	delay := initialPingBackoff
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay > maxPingBackoff {
			return maxPingBackoff
		}
	}
	return delay
}

// WaitForReady はDBに接続できるまで指数バックオフでPingを繰り返す。
// コンテナ起動直後などDBの準備が整っていない場合に使用する。
// attempts回失敗するか、ctxがキャンセルされた場合はエラーを返す。
func WaitForReady(ctx context.Context, db Pinger, attempts int) error {
	return waitForReady(ctx, db, attempts, time.After)
}

func waitForReady(ctx context.Context, db Pinger, attempts int, after func(time.Duration) <-chan time.Time) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		lastErr = db.PingContext(pingCtx)
		cancel()
		if lastErr == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		delay := pingBackoff(i)
		slog.Warn("データベースに接続できません。再試行します",
			slog.Int("attempt", i+1),
			slog.Duration("retry_in", delay),
			slog.String("error", lastErr.Error()),
		)

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-after(delay):
		}
	}

	return fmt.Errorf("database not ready after %d attempts: %w", attempts, lastErr)
}
