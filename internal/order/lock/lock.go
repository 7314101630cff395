// Package lock serializes mutations of the same order. LocalLocker covers a
// single process; RedisLocker extends the guarantee across instances that
// share one redis.
package lock

import (
	"context"
	"sync"
)

// Locker 按键互斥；Lock 返回的 unlock 可重复调用
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// OrderKey 订单锁键
func OrderKey(orderID string) string {
	return "order:" + orderID
}

type entry struct {
	sem  chan struct{}
	refs int
}

// LocalLocker 进程内按键互斥，无人持有或等待的键会被回收
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(key, e)
		})
	}, nil
}

func (l *LocalLocker) release(key string, e *entry) {
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// size 当前跟踪的键数量
func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
