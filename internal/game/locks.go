package game

import "sync"

// PlayerLocks 按玩家ID加锁，同一玩家的指令串行执行，不同玩家互不阻塞
type PlayerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

// NewPlayerLocks 创建玩家锁表
func NewPlayerLocks() *PlayerLocks {
	return &PlayerLocks{locks: make(map[string]*playerLock)}
}

// Lock 获取玩家锁，返回释放函数
func (l *PlayerLocks) Lock(playerID string) func() {
	l.mu.Lock()
	pl, ok := l.locks[playerID]
	if !ok {
		pl = &playerLock{}
		l.locks[playerID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()

	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, playerID)
		}
		l.mu.Unlock()
	}
}

// Len 当前持有或等待中的玩家锁数量
func (l *PlayerLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
