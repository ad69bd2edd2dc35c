package catalog

import (
	"errors"
	"fmt"

	"github.com/imkonsowa/foodorder-chatbot/models"
)

const (
	UnknownCategory = "Other"
	UnknownLocation = "Unknown Location"
)

// Store is the immutable catalog snapshot. Collections keep the order they were
// loaded in, which decides category and dish matching.
type Store struct {
	categories []models.Category
	locations  []models.Location
	foods      []models.Food

	categoryIdx map[int]int
	locationIdx map[int]int
	foodIdx     map[int]int
}

type Stats struct {
	Categories int `json:"categories"`
	Locations  int `json:"locations"`
	Foods      int `json:"foods"`
}

// New validates the three collections and builds a store that owns copies of them.
func New(categories []models.Category, locations []models.Location, foods []models.Food) (*Store, error) {
	return build("memory", categories, locations, foods)
}

func build(source string, categories []models.Category, locations []models.Location, foods []models.Food) (*Store, error) {
	s := &Store{
		categories:  append([]models.Category(nil), categories...),
		locations:   append([]models.Location(nil), locations...),
		foods:       append([]models.Food(nil), foods...),
		categoryIdx: make(map[int]int, len(categories)),
		locationIdx: make(map[int]int, len(locations)),
		foodIdx:     make(map[int]int, len(foods)),
	}

	if err := s.index(); err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}

	return s, nil
}

func (s *Store) index() error {
	var errs []error

	for i, c := range s.categories {
		if _, dup := s.categoryIdx[c.ID]; dup {
			errs = append(errs, fmt.Errorf("Categories[%d]: duplicate id %d", i, c.ID))
			continue
		}
		if c.Name == "" {
			errs = append(errs, fmt.Errorf("Categories[%d]: empty name", i))
		}
		s.categoryIdx[c.ID] = i
	}

	for i, l := range s.locations {
		if _, dup := s.locationIdx[l.ID]; dup {
			errs = append(errs, fmt.Errorf("Locations[%d]: duplicate id %d", i, l.ID))
			continue
		}
		s.locationIdx[l.ID] = i
	}

	for i, f := range s.foods {
		if _, dup := s.foodIdx[f.ID]; dup {
			errs = append(errs, fmt.Errorf("Foods[%d]: duplicate id %d", i, f.ID))
			continue
		}
		if err := validateFood(f); err != nil {
			errs = append(errs, fmt.Errorf("Foods[%d]: %w", i, err))
		}
		s.foodIdx[f.ID] = i
	}

	return errors.Join(errs...)
}

func validateFood(f models.Food) error {
	switch {
	case f.Name == "":
		return fmt.Errorf("empty name")
	case f.Price < 0:
		return fmt.Errorf("negative price %.2f", f.Price)
	case f.TimeValue < 0:
		return fmt.Errorf("negative preparation time %d", f.TimeValue)
	case f.Star < 0 || f.Star > 5:
		return fmt.Errorf("star %.1f outside 0-5", f.Star)
	}

	return nil
}

// Foods, Categories and Locations return copies in catalog order, never nil.
func (s *Store) Foods() []models.Food {
	return append(make([]models.Food, 0, len(s.foods)), s.foods...)
}

func (s *Store) Categories() []models.Category {
	return append(make([]models.Category, 0, len(s.categories)), s.categories...)
}

func (s *Store) Locations() []models.Location {
	return append(make([]models.Location, 0, len(s.locations)), s.locations...)
}

func (s *Store) Food(id int) (models.Food, bool) {
	i, ok := s.foodIdx[id]
	if !ok {
		return models.Food{}, false
	}

	return s.foods[i], true
}

func (s *Store) Category(id int) (models.Category, bool) {
	i, ok := s.categoryIdx[id]
	if !ok {
		return models.Category{}, false
	}

	return s.categories[i], true
}

// CategoryName returns "Other" for ids the catalog does not know.
func (s *Store) CategoryName(id int) string {
	if c, ok := s.Category(id); ok {
		return c.Name
	}

	return UnknownCategory
}

// LocationName returns "Unknown Location" for ids the catalog does not know.
func (s *Store) LocationName(id int) string {
	if i, ok := s.locationIdx[id]; ok {
		return s.locations[i].Name
	}

	return UnknownLocation
}

func (s *Store) Stats() Stats {
	return Stats{
		Categories: len(s.categories),
		Locations:  len(s.locations),
		Foods:      len(s.foods),
	}
}
