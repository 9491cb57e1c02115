package session

import (
	"testing"
	"time"

	"github.com/tradegate/checkout-service/internal/checkout"
)

func newSession(id string) *checkout.Session {
	return &checkout.Session{ID: id, BuyerID: "buyer-" + id}
}

func TestStore(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		ttl      time.Duration
		actions  func(s *Store, t *testing.T)
	}{
		{
			name:     "set and get within TTL",
			capacity: 2,
			ttl:      time.Second,
			actions: func(s *Store, t *testing.T) {
				s.Set("a", newSession("a"))
				if sess, ok := s.Get("a"); !ok || sess.ID != "a" {
					t.Errorf("expected session a, got=%v, ok=%v", sess, ok)
				}
			},
		},
		{
			name:     "get after expiration",
			capacity: 2,
			ttl:      time.Millisecond * 50,
			actions: func(s *Store, t *testing.T) {
				s.Set("a", newSession("a"))
				time.Sleep(time.Millisecond * 60)
				if _, ok := s.Get("a"); ok {
					t.Errorf("expected session to be expired")
				}
			},
		},
		{
			name:     "evict oldest when over capacity",
			capacity: 2,
			ttl:      time.Second,
			actions: func(s *Store, t *testing.T) {
				s.Set("a", newSession("a"))
				s.Set("b", newSession("b"))
				s.Set("c", newSession("c"))
				if _, ok := s.Get("a"); ok {
					t.Errorf("expected session 'a' to be evicted")
				}
				if _, ok := s.Get("b"); !ok {
					t.Errorf("expected session 'b' to survive")
				}
				if _, ok := s.Get("c"); !ok {
					t.Errorf("expected session 'c' to survive")
				}
			},
		},
		{
			name:     "get slides the TTL window",
			capacity: 2,
			ttl:      time.Millisecond * 80,
			actions: func(s *Store, t *testing.T) {
				s.Set("a", newSession("a"))
				time.Sleep(time.Millisecond * 50)
				if _, ok := s.Get("a"); !ok {
					t.Fatalf("expected session to be alive")
				}
				time.Sleep(time.Millisecond * 50)
				if _, ok := s.Get("a"); !ok {
					t.Errorf("expected get to extend the TTL")
				}
			},
		},
		{
			name:     "recently used survives eviction",
			capacity: 2,
			ttl:      time.Second,
			actions: func(s *Store, t *testing.T) {
				s.Set("a", newSession("a"))
				s.Set("b", newSession("b"))
				s.Get("a")
				s.Set("c", newSession("c"))
				if _, ok := s.Get("a"); !ok {
					t.Errorf("expected recently used 'a' to survive")
				}
				if _, ok := s.Get("b"); ok {
					t.Errorf("expected 'b' to be evicted")
				}
			},
		},
		{
			name:     "delete removes the session",
			capacity: 2,
			ttl:      time.Second,
			actions: func(s *Store, t *testing.T) {
				s.Set("a", newSession("a"))
				s.Delete("a")
				if _, ok := s.Get("a"); ok {
					t.Errorf("expected session to be deleted")
				}
				if s.Size() != 0 {
					t.Errorf("expected empty store, got size=%d", s.Size())
				}
			},
		},
		{
			name:     "set existing updates in place",
			capacity: 2,
			ttl:      time.Second,
			actions: func(s *Store, t *testing.T) {
				s.Set("a", newSession("a"))
				updated := newSession("a")
				updated.BuyerID = "other"
				s.Set("a", updated)
				if s.Size() != 1 {
					t.Fatalf("expected size=1, got=%d", s.Size())
				}
				if sess, _ := s.Get("a"); sess.BuyerID != "other" {
					t.Errorf("expected updated session, got buyer=%s", sess.BuyerID)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.capacity, tt.ttl)
			tt.actions(s, t)
		})
	}
}

func TestStoreCleanup(t *testing.T) {
	s := NewStore(10, time.Millisecond*10)
	s.Set("a", newSession("a"))
	s.Set("b", newSession("b"))

	time.Sleep(time.Millisecond * 20)
	s.cleanup()

	if s.Size() != 0 {
		t.Errorf("expected janitor to drop expired sessions, size=%d", s.Size())
	}
}
