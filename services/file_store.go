package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"salonpro-crm/models"

	"github.com/google/uuid"
)

// FileStore keeps every customer in memory and mirrors the whole set to a
// single JSON file. Each mutation rewrites the file in full.
type FileStore struct {
	path   string
	logger *slog.Logger

	mu        sync.RWMutex
	customers []models.Customer
}

// NewFileStore loads path, creating it with an empty list when missing.
// A file that cannot be read or parsed is logged and the store starts empty.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &FileStore{
		path:      path,
		logger:    logger.With("component", "file-store", "path", path),
		customers: []models.Customer{},
	}
	s.load()
	return s
}

func (s *FileStore) load() {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Error("failed to create data directory", "error", err)
		return
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(s.customers); err != nil {
			s.logger.Error("failed to create data file", "error", err)
		}
		return
	}
	if err != nil {
		s.logger.Error("failed to read customers", "error", err)
		return
	}

	var stored []models.Customer
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Error("failed to parse customers", "error", err)
		return
	}
	if stored == nil {
		stored = []models.Customer{}
	}
	for i := range stored {
		normalize(&stored[i])
	}
	s.customers = stored
	s.logger.Info("loaded customers", "count", len(stored))
}

// normalize fills in collections that older files may have left out.
func normalize(c *models.Customer) {
	if c.PreferredStyles == nil {
		c.PreferredStyles = []string{}
	}
	if c.ServiceHistory == nil {
		c.ServiceHistory = []models.ServiceVisit{}
	}
	for i := range c.ServiceHistory {
		v := &c.ServiceHistory[i]
		if v.ServicesTaken == nil {
			v.ServicesTaken = []string{}
		}
		v.Date = v.Date.UTC()
	}
}

// write replaces the file through a temp file and rename so a failed write
// never leaves a truncated file behind.
func (s *FileStore) write(customers []models.Customer) error {
	data, err := json.MarshalIndent(customers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode customers: %w: %w", ErrStorage, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w: %w", ErrStorage, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w: %w", ErrStorage, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write customers: %w: %w", ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w: %w", ErrStorage, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file: %w: %w", ErrStorage, err)
	}
	return nil
}

// commit persists next and only then makes it the in-memory state.
// Callers must hold s.mu for writing.
func (s *FileStore) commit(next []models.Customer) error {
	if err := s.write(next); err != nil {
		s.logger.Error("failed to save customers", "error", err)
		return err
	}
	s.customers = next
	return nil
}

func (s *FileStore) indexOf(id string) int {
	return slices.IndexFunc(s.customers, func(c models.Customer) bool { return c.ID == id })
}

func (s *FileStore) ListAll(_ context.Context) ([]models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Customer, 0, len(s.customers))
	for _, c := range s.customers {
		out = append(out, c.Clone())
	}
	sortByName(out)
	return out, nil
}

func (s *FileStore) GetByID(_ context.Context, id string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrCustomerNotFound
	}
	c := s.customers[i].Clone()
	return &c, nil
}

func (s *FileStore) GetByPhone(_ context.Context, phone string) (*models.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if c.PhoneNumber == phone {
			cp := c.Clone()
			return &cp, nil
		}
	}
	return nil, ErrCustomerNotFound
}

func (s *FileStore) SearchByName(_ context.Context, term string) ([]models.Customer, error) {
	out := []models.Customer{}
	if strings.TrimSpace(term) == "" {
		return out, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.customers {
		if nameMatches(c.Name, term) {
			out = append(out, c.Clone())
		}
	}
	sortByName(out)
	return out, nil
}

func (s *FileStore) Create(_ context.Context, input CreateCustomerInput) (*models.Customer, error) {
	c := models.NewCustomer(uuid.NewString(), input.Name, input.PhoneNumber, input.PreferredStyles, input.Notes)

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clip(slices.Clone(s.customers)), c)
	if err := s.commit(next); err != nil {
		return nil, err
	}
	out := c.Clone()
	return &out, nil
}

func (s *FileStore) Update(_ context.Context, id string, input UpdateCustomerInput) (*models.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrCustomerNotFound
	}
	updated := s.customers[i].Clone()
	input.applyTo(&updated)

	next := slices.Clone(s.customers)
	next[i] = updated
	if err := s.commit(next); err != nil {
		return nil, err
	}
	out := updated.Clone()
	return &out, nil
}

func (s *FileStore) AddVisit(_ context.Context, id string, servicesTaken []string, notes string) (*models.ServiceVisit, error) {
	if servicesTaken == nil {
		return nil, ErrInvalidServices
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, ErrCustomerNotFound
	}
	visit := models.NewServiceVisit(slices.Clone(servicesTaken), notes)
	updated := s.customers[i].Clone()
	updated.AddServiceVisit(visit)

	next := slices.Clone(s.customers)
	next[i] = updated
	if err := s.commit(next); err != nil {
		return nil, err
	}
	out := visit
	out.ServicesTaken = slices.Clone(visit.ServicesTaken)
	return &out, nil
}

func (s *FileStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.customers), i, i+1)
	if err := s.commit(next); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Backend() string { return BackendFile }

func (s *FileStore) Close() error { return nil }
