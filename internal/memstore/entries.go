// Package memstore keeps entries and blobs in process memory. It backs the "memory"
// drivers and stands in for the remote stores in tests, where failures can be injected
// per operation.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"drive-service/internal/domain/entry"
	apperrors "drive-service/pkg/errors"

	"github.com/google/uuid"
)

type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpPut    Op = "put"
	OpRemove Op = "remove"
	OpSign   Op = "sign"
)

const (
	errEntryNotFound  = "entry not found"
	errParentNotFound = "parent folder not found"
)

// faults counts calls per operation and returns the error registered for it, if any.
type faults struct {
	mu     sync.Mutex
	errs   map[Op]error
	counts map[Op]int
}

func newFaults() faults {
	return faults{errs: map[Op]error{}, counts: map[Op]int{}}
}

func (f *faults) hit(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[op]++
	return f.errs[op]
}

// FailOn makes every later call of op return err. A nil err clears the failure.
func (f *faults) FailOn(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls returns how many times op has been invoked.
func (f *faults) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op]
}

// TotalCalls returns the number of invocations across all operations.
func (f *faults) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.counts {
		total += n
	}
	return total
}

type EntryStore struct {
	faults

	mu      sync.RWMutex
	entries map[uuid.UUID]entry.Entry
	now     func() time.Time
}

func NewEntryStore() *EntryStore {
	return &EntryStore{
		faults:  newFaults(),
		entries: make(map[uuid.UUID]entry.Entry),
		now:     time.Now,
	}
}

// Seed stores e as-is, bypassing parent checks. Tests use it to build trees the
// regular API refuses, such as dangling or cyclic parent chains.
func (s *EntryStore) Seed(e entry.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}
	s.entries[e.ID] = e
}

// Len returns the number of stored rows across all owners.
func (s *EntryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *EntryStore) List(_ context.Context, ownerID uuid.UUID, parentID *uuid.UUID) ([]*entry.Entry, error) {
	if err := s.hit(OpList); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*entry.Entry{}
	for _, e := range s.entries {
		if e.OwnerID != ownerID || !entry.SameParent(e.ParentID, parentID) {
			continue
		}
		c := e
		out = append(out, &c)
	}

	// kind DESC, name ASC, the order the SQL stores use.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind() != out[j].Kind() {
			return out[i].Kind() > out[j].Kind()
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (s *EntryStore) GetByID(_ context.Context, ownerID, id uuid.UUID) (*entry.Entry, error) {
	if err := s.hit(OpGet); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return nil, apperrors.NotFound(errEntryNotFound)
	}
	return &e, nil
}

func (s *EntryStore) Create(_ context.Context, input entry.CreateInput) (*entry.Entry, error) {
	if err := s.hit(OpCreate); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if input.ParentID != nil {
		parent, ok := s.entries[*input.ParentID]
		if !ok || parent.OwnerID != input.OwnerID || !parent.IsFolder() {
			return nil, apperrors.NotFound(errParentNotFound)
		}
	}

	e := entry.Entry{
		ID:        uuid.New(),
		OwnerID:   input.OwnerID,
		ParentID:  copyID(input.ParentID),
		Name:      input.Name,
		CreatedAt: s.now().UTC(),
	}
	if input.File != nil {
		file := *input.File
		e.File = &file
	}

	s.entries[e.ID] = e
	out := e
	return &out, nil
}

func (s *EntryStore) UpdateName(_ context.Context, ownerID, id uuid.UUID, name string) error {
	if err := s.hit(OpUpdate); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return apperrors.NotFound(errEntryNotFound)
	}
	e.Name = name
	s.entries[id] = e
	return nil
}

// Delete removes the row and, like the ON DELETE CASCADE foreign key of the SQL
// stores, every row below it.
func (s *EntryStore) Delete(_ context.Context, ownerID, id uuid.UUID) error {
	if err := s.hit(OpDelete); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.OwnerID != ownerID {
		return apperrors.NotFound(errEntryNotFound)
	}

	queue := []uuid.UUID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		delete(s.entries, current)
		for childID, child := range s.entries {
			if child.ParentID != nil && *child.ParentID == current {
				queue = append(queue, childID)
			}
		}
	}
	return nil
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
