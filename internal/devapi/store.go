package devapi

import (
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-console/internal/domain/employee"
)

var ErrNotFound = errors.New("employee not found")

// Store keeps employees in memory, ordered by id.
type Store struct {
	mu        sync.RWMutex
	employees []employee.Employee
	nextID    int64
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

func (s *Store) indexLocked(id employee.ID) int {
	return slices.IndexFunc(s.employees, func(e employee.Employee) bool {
		return e.ID.String() == id.String()
	})
}

// List returns one page of records and the total count. Pages past the end are empty.
func (s *Store) List(page, limit int) ([]employee.Employee, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.employees)
	start := (page - 1) * limit
	if start >= total || start < 0 {
		return []employee.Employee{}, total
	}
	end := min(start+limit, total)
	return employee.CloneAll(s.employees[start:end]), total
}

func (s *Store) All() []employee.Employee {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return employee.CloneAll(s.employees)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.employees)
}

// Create assigns the next numeric id. Missing timestamps are set to now.
func (s *Store) Create(e employee.Employee, now time.Time) employee.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = employee.ParseID(strconv.FormatInt(s.nextID, 10))
	s.nextID++
	if e.CreatedAt == nil {
		e.CreatedAt = employee.NewTimestamp(now)
	}
	if e.UpdatedAt == nil {
		e.UpdatedAt = employee.NewTimestamp(now)
	}
	s.employees = append(s.employees, e.Clone())
	return e
}

// Update replaces the editable fields of a record and stamps UpdatedAt.
func (s *Store) Update(e employee.Employee, now time.Time) (employee.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(e.ID)
	if i < 0 {
		return employee.Employee{}, ErrNotFound
	}
	s.applyLocked(i, e.FirstName, e.LastName, e.EmailID, e.Salary, now)
	return s.employees[i].Clone(), nil
}

// BulkUpdate applies every item or none: an unknown id fails the whole batch.
func (s *Store) BulkUpdate(items []employee.BulkUpdateItem, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := make([]int, len(items))
	for n, item := range items {
		i := s.indexLocked(item.ID)
		if i < 0 {
			return ErrNotFound
		}
		idx[n] = i
	}
	for n, item := range items {
		salary := item.Salary
		if salary == nil {
			salary = s.employees[idx[n]].Salary
		}
		s.applyLocked(idx[n], item.FirstName, item.LastName, item.EmailID, salary, now)
	}
	return nil
}

func (s *Store) applyLocked(i int, first, last, email string, salary *float64, now time.Time) {
	rec := &s.employees[i]
	rec.FirstName = first
	rec.LastName = last
	rec.EmailID = email
	if salary != nil {
		v := *salary
		rec.Salary = &v
	} else {
		rec.Salary = nil
	}
	rec.UpdatedAt = employee.NewTimestamp(now)
}

func (s *Store) Delete(id employee.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return ErrNotFound
	}
	s.employees = slices.Delete(s.employees, i, i+1)
	return nil
}

// BulkDelete removes the records it finds and returns how many were removed.
func (s *Store) BulkDelete(ids []employee.ID) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if i := s.indexLocked(id); i >= 0 {
			s.employees = slices.Delete(s.employees, i, i+1)
			removed++
		}
	}
	return removed
}
