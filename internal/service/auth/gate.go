package auth

import (
	"strings"
	"sync"
	"time"
)

// Gate пароль дашборда плюс защита от перебора. Состояние попыток
// ведётся на сервере по ключу клиента (обычно IP), в отличие от старой
// схемы со счётчиком в localStorage браузера.

type attemptState struct {
	attempts    int
	bannedUntil time.Time
}

// AttemptStore хранилище счётчиков неудачных попыток
type AttemptStore interface {
	Get(key string) (attempts int, bannedUntil time.Time)
	Set(key string, attempts int, bannedUntil time.Time)
	Delete(key string)
}

// MemoryStore потокобезопасное хранилище в памяти процесса
type MemoryStore struct {
	mu     sync.Mutex
	states map[string]attemptState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]attemptState)}
}

func (m *MemoryStore) Get(key string) (int, time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := m.states[key]
	return st.attempts, st.bannedUntil
}

func (m *MemoryStore) Set(key string, attempts int, bannedUntil time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[key] = attemptState{attempts: attempts, bannedUntil: bannedUntil}
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, key)
}

type Gate struct {
	password    string
	maxAttempts int
	banFor      time.Duration
	store       AttemptStore
	now         func() time.Time
}

// NewGate часы и хранилище инжектируются; nil означает time.Now и
// хранилище в памяти.
func NewGate(password string, maxAttempts int, banFor time.Duration, store AttemptStore, now func() time.Time) *Gate {
	if store == nil {
		store = NewMemoryStore()
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{
		password:    password,
		maxAttempts: maxAttempts,
		banFor:      banFor,
		store:       store,
		now:         now,
	}
}

// Check сверяет пароль (с обрезкой пробелов, как вводят с телефона)
func (g *Gate) Check(password string) bool {
	return strings.TrimSpace(password) == g.password
}

// IsBanned активен ли бан для клиента. Истёкший бан снимается
// вместе со счётчиком.
func (g *Gate) IsBanned(key string) (bool, time.Time) {
	_, until := g.store.Get(key)
	if until.IsZero() {
		return false, time.Time{}
	}
	if !g.now().Before(until) {
		g.store.Delete(key)
		return false, time.Time{}
	}
	return true, until
}

// RecordFailure фиксирует неудачную попытку; по достижении лимита
// клиент банится на banFor
func (g *Gate) RecordFailure(key string) {
	attempts, until := g.store.Get(key)
	attempts++
	if attempts >= g.maxAttempts {
		g.store.Set(key, 0, g.now().Add(g.banFor))
		return
	}
	g.store.Set(key, attempts, until)
}

// Reset сбрасывает состояние после успешного входа
func (g *Gate) Reset(key string) {
	g.store.Delete(key)
}

// Remaining сколько попыток осталось до бана
func (g *Gate) Remaining(key string) int {
	attempts, _ := g.store.Get(key)
	if attempts >= g.maxAttempts {
		return 0
	}
	return g.maxAttempts - attempts
}
