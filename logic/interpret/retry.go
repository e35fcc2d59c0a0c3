package interpret

import (
	"context"
	"time"
)

// Policy 有界重试策略：最多 MaxAttempts 次，间隔按 Backoff 指数增长
// （第 n 次失败后等 Backoff * 2^n）
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Backoff: 500 * time.Millisecond}
}

// Do 执行 fn 直到成功或尝试次数耗尽，返回最后一次的错误
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			wait := p.Backoff << (i - 1)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}
