// Package guide implements the Socratic guide session engine: a server-held
// conversation state machine that helps a user break an overwhelming task into
// sub-tasks through one-question-at-a-time dialogue, ending in a structured
// action plan.
package guide

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"athena/internal/llm"
)

// Phase is the coarse stage of a session.
type Phase string

const (
	PhaseQuestioning Phase = "questioning"
	PhasePlanning    Phase = "planning"
	PhaseCompleted   Phase = "completed"
)

// Message is one transcript entry. Append-only; the transcript is fed back to
// the model verbatim.
type Message struct {
	Role      llm.Role  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is a bounded conversation scoped to one task. Task title and
// description are snapshots taken at session start, not live-synced.
type Session struct {
	ID              string    `json:"session_id"`
	TaskID          string    `json:"task_id"`
	TaskTitle       string    `json:"task_title"`
	TaskDescription string    `json:"task_description,omitempty"`
	Messages        []Message `json:"messages"`
	Phase           Phase     `json:"phase"`
	APIKey          string    `json:"-"`
}

var ErrSessionNotFound = errors.New("session not found")

// Store owns all active sessions. Sessions never leave the store by
// reference; Get returns a copy, and mutations go through store methods.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	Now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
		Now:      time.Now,
	}
}

// Create allocates a fresh session in the questioning phase and returns its id.
func (s *Store) Create(taskID, taskTitle, taskDescription, apiKey string) string {
	id := taskID + "-" + uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &Session{
		ID:              id,
		TaskID:          taskID,
		TaskTitle:       taskTitle,
		TaskDescription: taskDescription,
		Phase:           PhaseQuestioning,
		APIKey:          apiKey,
	}
	return id
}

// Get returns a copy of the session.
func (s *Store) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	cp := *sess
	cp.Messages = append([]Message(nil), sess.Messages...)
	return cp, nil
}

// Append adds a transcript message.
func (s *Store) Append(id string, role llm.Role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Messages = append(sess.Messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: s.Now(),
	})
	return nil
}

// SetPhase updates the session phase.
func (s *Store) SetPhase(id string, phase Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	sess.Phase = phase
	return nil
}

// Delete removes the session. Deleting an unknown id is not an error.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len reports the number of active sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions whose most recent message is older than the idle
// window, returning how many were removed. Sessions with no messages yet are
// left alone; start always appends the opening question immediately.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.Now().Add(-idle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if len(sess.Messages) == 0 {
			continue
		}
		if sess.Messages[len(sess.Messages)-1].Timestamp.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
