package keymutex

import (
	"sort"
	"sync"
)

// KeyMutex 按 key 维度的互斥锁，用于“查询-再写入”这类需要对
// 同一个实体串行化的临界区（例如同一司机/车辆的排班写入）。
// 锁对象按需创建且不回收；key 基数有限（实体 id），常驻开销可接受。
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*sync.Mutex)}
}

func (km *KeyMutex) get(key string) *sync.Mutex {
	km.mu.Lock()
	defer km.mu.Unlock()
	m, ok := km.locks[key]
	if !ok {
		m = &sync.Mutex{}
		km.locks[key] = m
	}
	return m
}

// Lock 锁住单个 key。
func (km *KeyMutex) Lock(key string) {
	km.get(key).Lock()
}

// Unlock 解锁单个 key。
func (km *KeyMutex) Unlock(key string) {
	km.get(key).Unlock()
}

// LockKeys 按固定顺序锁住一组 key（去重 + 排序），避免交叉加锁造成死锁。
// 返回对应的解锁函数（按相反顺序解锁）。
func (km *KeyMutex) LockKeys(keys ...string) func() {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	for _, k := range uniq {
		km.Lock(k)
	}
	return func() {
		for i := len(uniq) - 1; i >= 0; i-- {
			km.Unlock(uniq[i])
		}
	}
}
