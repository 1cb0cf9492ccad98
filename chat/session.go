package chat

import (
	"chat-relay/domain"
	"slices"

	"github.com/samber/lo"
)

// Session maps each live connection to its display name.
type Session struct {
	names map[domain.ConnID]string
}

func NewSession() *Session {
	return &Session{names: make(map[domain.ConnID]string)}
}

// Join gives a new connection the anonymous name.
func (s *Session) Join(id domain.ConnID) {
	s.names[id] = domain.AnonymousName
}

func (s *Session) Leave(id domain.ConnID) {
	delete(s.names, id)
}

// Name returns the display name of id, or the anonymous name for an unknown connection.
func (s *Session) Name(id domain.ConnID) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return domain.AnonymousName
}

func (s *Session) Rename(id domain.ConnID, name string) {
	if _, ok := s.names[id]; ok {
		s.names[id] = name
	}
}

func (s *Session) IDs() []domain.ConnID {
	ids := lo.Keys(s.names)
	slices.Sort(ids)
	return ids
}
