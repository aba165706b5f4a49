package category

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"adsbot/pkg/domain"
	"adsbot/pkg/store"
	"adsbot/pkg/validation"
)

const (
	MinNameLength = 2
	MaxNameLength = 50
)

// Defaults are seeded into an empty taxonomy on first start.
var Defaults = []string{
	"Frontend Developer",
	"Backend Developer",
	"Data Scientist",
	"Graphic Design",
	"IT Kids",
	"SMM",
}

// Registry manages the shared category taxonomy.
type Registry struct {
	store store.CategoryStore
}

// NewRegistry builds a registry over the category store.
func NewRegistry(s store.CategoryStore) *Registry {
	return &Registry{store: s}
}

// Create adds a category with a unique, length-checked name.
func (r *Registry) Create(name string) (domain.Category, error) {
	name, err := checkName(name)
	if err != nil {
		return domain.Category{}, err
	}
	if _, ok, err := r.store.GetCategoryByName(name); err != nil {
		return domain.Category{}, fmt.Errorf("lookup category: %w", err)
	} else if ok {
		return domain.Category{}, ErrDuplicateName
	}
	c, err := r.store.CreateCategory(name)
	if err != nil {
		return domain.Category{}, mapStoreErr("create category", err)
	}
	return c, nil
}

// Rename changes the name of category id.
func (r *Registry) Rename(id int64, name string) (domain.Category, error) {
	name, err := checkName(name)
	if err != nil {
		return domain.Category{}, err
	}
	existing, ok, err := r.store.GetCategoryByName(name)
	if err != nil {
		return domain.Category{}, fmt.Errorf("lookup category: %w", err)
	}
	if ok && existing.ID != id {
		return domain.Category{}, ErrDuplicateName
	}
	if err := r.store.RenameCategory(id, name); err != nil {
		return domain.Category{}, mapStoreErr("rename category", err)
	}
	return r.Get(id)
}

// Delete removes a category. Ads keep the stored label.
func (r *Registry) Delete(id int64) error {
	if err := r.store.DeleteCategory(id); err != nil {
		return mapStoreErr("delete category", err)
	}
	return nil
}

// Get returns a category by ID.
func (r *Registry) Get(id int64) (domain.Category, error) {
	c, ok, err := r.store.GetCategory(id)
	if err != nil {
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	if !ok {
		return domain.Category{}, ErrNotFound
	}
	return c, nil
}

// List returns every category ordered by name.
func (r *Registry) List() ([]domain.Category, error) {
	return r.store.ListCategories()
}

// EnsureDefaults seeds Defaults when the taxonomy is empty and reports how
// many categories were created.
func (r *Registry) EnsureDefaults() (int, error) {
	n, err := r.store.CategoryCount()
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	created := 0
	for _, name := range Defaults {
		if _, err := r.store.CreateCategory(name); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("seed category %q: %w", name, err)
		}
		created++
	}
	slog.Info("categories seeded", "count", created)
	return created, nil
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateTextLength(name, MinNameLength, MaxNameLength); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return name, nil
}

func mapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, store.ErrDuplicate):
		return ErrDuplicateName
	}
	return fmt.Errorf("%s: %w", op, err)
}
