package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/tradegate/checkout-service/internal/checkout"
)

const janitorInterval = time.Minute

// Store keeps live checkout sessions in memory with a sliding TTL and an LRU
// bound. A session that falls out of the store forces the buyer to start the
// wizard over; durable rows (transactions, orders) are unaffected.
type Store struct {
	capacity int
	ttl      time.Duration

	mu       sync.Mutex
	ll       *list.List
	sessions map[string]*list.Element
}

type entry struct {
	id        string
	session   *checkout.Session
	expiresAt time.Time
}

func NewStore(capacity int, ttl time.Duration) *Store {
	return &Store{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		sessions: make(map[string]*list.Element),
	}
}

func (s *Store) Get(id string) (*checkout.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ele, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	ent := ele.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		s.removeElement(ele)
		return nil, false
	}
	// Touching a session keeps it alive for another TTL window.
	ent.expiresAt = time.Now().Add(s.ttl)
	s.ll.MoveToFront(ele)
	return ent.session, true
}

func (s *Store) Set(id string, sess *checkout.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ele, ok := s.sessions[id]; ok {
		s.ll.MoveToFront(ele)
		ent := ele.Value.(*entry)
		ent.session = sess
		ent.expiresAt = time.Now().Add(s.ttl)
		return
	}

	ent := &entry{id: id, session: sess, expiresAt: time.Now().Add(s.ttl)}
	ele := s.ll.PushFront(ent)
	s.sessions[id] = ele

	if s.ll.Len() > s.capacity {
		s.removeOldest()
	}
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ele, ok := s.sessions[id]; ok {
		s.removeElement(ele)
	}
}

func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ll.Len()
}

// Start launches the janitor until ctx is cancelled.
func (s *Store) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(janitorInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func (s *Store) removeOldest() {
	if ele := s.ll.Back(); ele != nil {
		s.removeElement(ele)
	}
}

func (s *Store) removeElement(e *list.Element) {
	s.ll.Remove(e)
	ent := e.Value.(*entry)
	delete(s.sessions, ent.id)
}

func (s *Store) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for e := s.ll.Back(); e != nil; {
		prev := e.Prev()
		ent := e.Value.(*entry)
		if time.Now().After(ent.expiresAt) {
			s.removeElement(e)
		}
		e = prev
	}
}
