package session

import (
	"sort"
	"sync"

	"insight-workers/internal/common/errors"
	"insight-workers/internal/common/logger"
)

// Store keeps live sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	loader   BoardLoader
	opts     Options
	log      logger.Logger
}

func NewStore(loader BoardLoader, opts Options, log logger.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		loader:   loader,
		opts:     opts,
		log:      log,
	}
}

// Create starts a new session.
func (s *Store) Create() *Session {
	sess := New(s.loader, s.opts, s.log)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session or a SESSION_NOT_FOUND error.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.NewSessionNotFoundError(id)
	}
	return sess, nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// IDs lists session IDs, oldest first.
func (s *Store) IDs() []string {
	s.mu.RLock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	ids := make([]string, len(list))
	for i, sess := range list {
		ids[i] = sess.ID
	}
	return ids
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
