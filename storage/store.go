package storage

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"gsatui/model"
)

// ErrSessionNotFound is returned when an operation targets a session id that
// is not in the store.
var ErrSessionNotFound = errors.New("session not found")

// Store holds all sessions in memory and mirrors every mutation to disk.
// All methods are safe for concurrent use. Sessions returned from the store
// are deep copies; callers never share message slices with the store.
type Store struct {
	mu       sync.RWMutex
	persist  *SessionStorage // nil means memory-only (tests)
	sessions map[string]*Session
	activeID string
}

// NewStore creates a store backed by the given persistence layer. Pass nil
// for a memory-only store. Sessions already on disk are loaded, and the
// active session is restored from the last run when it still exists.
func NewStore(persist *SessionStorage) (*Store, error) {
	st := &Store{
		persist:  persist,
		sessions: make(map[string]*Session),
	}

	if persist == nil {
		return st, nil
	}

	sessions, err := persist.LoadAll()
	if err != nil {
		return nil, &model.StorageError{Op: "load sessions", Err: err}
	}
	for _, s := range sessions {
		st.sessions[s.ID] = s
	}

	if id, err := persist.LoadActiveSessionID(); err == nil {
		if _, ok := st.sessions[id]; ok {
			st.activeID = id
		}
	}
	if st.activeID == "" {
		st.activeID = st.newestIDLocked()
	}

	return st, nil
}

// Create adds a new empty session and makes it active
func (st *Store) Create(title, provider, modelName string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	s := &Session{
		ID:        uuid.New().String(),
		Title:     title,
		Provider:  provider,
		Model:     modelName,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []model.Message{},
	}

	st.sessions[s.ID] = s
	st.activeID = s.ID

	if err := st.saveLocked(s); err != nil {
		delete(st.sessions, s.ID)
		st.activeID = st.newestIDLocked()
		return Session{}, err
	}
	st.saveActiveLocked()

	return s.Clone(), nil
}

// Get returns a deep copy of a session
func (st *Store) Get(id string) (Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	s, ok := st.sessions[id]
	if !ok {
		return Session{}, false
	}
	return s.Clone(), true
}

// List returns deep copies of all sessions, newest first
func (st *Store) List() []Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Append adds messages to the end of a session
func (st *Store) Append(id string, msgs ...model.Message) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	s.Messages = append(s.Messages, msgs...)
	s.UpdatedAt = time.Now()
	return st.saveLocked(s)
}

// ExtendLast appends a text chunk to the content of the last message.
// Used to accumulate streamed deltas into the model placeholder. Only a
// trailing model message may grow; anything else is left untouched.
func (st *Store) ExtendLast(id string, chunk string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if len(s.Messages) == 0 {
		return errors.New("session has no messages")
	}
	if s.Messages[len(s.Messages)-1].Role != model.RoleModel {
		return nil
	}

	s.Messages[len(s.Messages)-1].Content += chunk
	s.UpdatedAt = time.Now()
	return st.saveLocked(s)
}

// InsertBeforeLast inserts a message just ahead of the last message. Tool
// progress annotations use this so the streaming placeholder stays the last
// message for the whole send.
func (st *Store) InsertBeforeLast(id string, msg model.Message) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if len(s.Messages) == 0 {
		s.Messages = append(s.Messages, msg)
	} else {
		last := s.Messages[len(s.Messages)-1]
		s.Messages = append(s.Messages[:len(s.Messages)-1], msg, last)
	}
	s.UpdatedAt = time.Now()
	return st.saveLocked(s)
}

// TruncateLast removes the last n messages from a session. Used to roll
// back an optimistically appended turn when the provider call fails.
func (st *Store) TruncateLast(id string, n int) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if n > len(s.Messages) {
		n = len(s.Messages)
	}

	s.Messages = s.Messages[:len(s.Messages)-n]
	s.UpdatedAt = time.Now()
	return st.saveLocked(s)
}

// Rename updates a session title
func (st *Store) Rename(id string, title string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}

	s.Title = title
	s.UpdatedAt = time.Now()
	return st.saveLocked(s)
}

// Delete removes a session. If it was active, the most recently updated
// remaining session becomes active.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)

	if st.activeID == id {
		st.activeID = st.newestIDLocked()
		st.saveActiveLocked()
	}

	if st.persist != nil {
		if err := st.persist.Delete(id); err != nil {
			return &model.StorageError{Op: "delete session", Err: err}
		}
	}
	return nil
}

// SetActive marks a session as the active one
func (st *Store) SetActive(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	st.activeID = id
	st.saveActiveLocked()
	return nil
}

// ActiveID returns the id of the active session, or "" if none
func (st *Store) ActiveID() string {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.activeID
}

// ExportSession writes one session to a JSON file at the given path.
func (st *Store) ExportSession(id string, exportPath string) error {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	if st.persist != nil {
		if err := st.persist.ExportToJSON(id, exportPath); err != nil {
			return &model.StorageError{Op: "export session", Err: err}
		}
		return nil
	}

	clone := s.Clone()
	if err := writeSessionExport(&clone, exportPath); err != nil {
		return &model.StorageError{Op: "export session", Err: err}
	}
	return nil
}

// ReplaceAll swaps in a full session set, for full-state import. The most
// recently updated session becomes active.
func (st *Store) ReplaceAll(sessions []Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.persist != nil {
		for id := range st.sessions {
			if err := st.persist.Delete(id); err != nil {
				return &model.StorageError{Op: "delete session", Err: err}
			}
		}
	}

	st.sessions = make(map[string]*Session, len(sessions))
	for i := range sessions {
		s := sessions[i].Clone()
		if s.ID == "" {
			s.ID = uuid.New().String()
		}
		st.sessions[s.ID] = &s
		if st.persist != nil {
			if err := st.saveLocked(&s); err != nil {
				return err
			}
		}
	}

	st.activeID = st.newestIDLocked()
	st.saveActiveLocked()
	return nil
}

func (st *Store) saveLocked(s *Session) error {
	if st.persist == nil {
		return nil
	}
	if err := st.persist.Save(s); err != nil {
		return &model.StorageError{Op: "save session", Err: err}
	}
	return nil
}

func (st *Store) saveActiveLocked() {
	if st.persist == nil {
		return
	}
	// Best effort; losing the active pointer is not worth failing the op
	_ = st.persist.SaveActiveSessionID(st.activeID)
}

func (st *Store) newestIDLocked() string {
	var newest *Session
	for _, s := range st.sessions {
		if newest == nil || s.UpdatedAt.After(newest.UpdatedAt) {
			newest = s
		}
	}
	if newest == nil {
		return ""
	}
	return newest.ID
}
