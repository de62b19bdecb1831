package cache

import (
	"sync"
	"time"
)

// Store - Anahtarlı read-through önbellek. Global durum yerine kullanan
// handler'a enjekte edilir. Get önce önbelleğe bakar; taze kayıt varsa onu,
// yoksa loader'ın sonucunu döner. Loader hata verir ama elde bayat bir
// kopya varsa bayat kopya stale=true ile döner (çevrimdışı görüntüleme).
type Store[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[K]entry[V]
	now     func() time.Time
}

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

func New[K comparable, V any](ttl time.Duration) *Store[K, V] {
	return &Store[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
		now:     time.Now,
	}
}

// Get - value, stale, error döner. stale=true sadece loader başarısız olup
// süresi geçmiş bir kopya sunulduğunda set edilir.
func (s *Store[K, V]) Get(key K, load func(K) (V, error)) (V, bool, error) {
	s.mu.Lock()
	e, ok := s.entries[key]
	fresh := ok && s.now().Sub(e.fetchedAt) <= s.ttl
	s.mu.Unlock()

	if fresh {
		return e.value, false, nil
	}

	v, err := load(key)
	if err != nil {
		if ok {
			// Kaynak erişilemez, bayat kopyayı işaretleyerek döndür
			return e.value, true, nil
		}
		var zero V
		return zero, false, err
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{value: v, fetchedAt: s.now()}
	s.mu.Unlock()

	return v, false, nil
}

// Invalidate - Kaydı düşürür (ürün güncellenince çağrılır)
func (s *Store[K, V]) Invalidate(key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}
