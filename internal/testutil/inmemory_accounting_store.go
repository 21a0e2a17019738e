package testutil

import (
	"context"
	"sync"

	"github.com/healthbill/healthbill/internal/domain/accounting"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/samber/lo"
)

// InMemoryAccountingStore implements accounting.Repository
type InMemoryAccountingStore struct {
	mu       sync.RWMutex
	config   accounting.Configuration
	journals []*accounting.Journal
}

func NewInMemoryAccountingStore() *InMemoryAccountingStore {
	return &InMemoryAccountingStore{}
}

// SetConfiguration replaces the accounting defaults
func (s *InMemoryAccountingStore) SetConfiguration(cfg accounting.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// AddJournal seeds a journal
func (s *InMemoryAccountingStore) AddJournal(j *accounting.Journal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journals = append(s.journals, j)
}

func (s *InMemoryAccountingStore) GetConfiguration(_ context.Context) (*accounting.Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.config
	return &cfg, nil
}

func (s *InMemoryAccountingStore) FindJournalByType(_ context.Context, journalType accounting.JournalType) (*accounting.Journal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := lo.Find(s.journals, func(j *accounting.Journal) bool {
		return j.Type == journalType
	})
	if !ok {
		return nil, ierr.NewError("journal not found").
			WithHintf("No %s journal", journalType).
			Mark(ierr.ErrNotFound)
	}
	return j, nil
}

func (s *InMemoryAccountingStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = accounting.Configuration{}
	s.journals = nil
}
