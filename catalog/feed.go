package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/imkonsowa/foodorder-chatbot/models"
)

// feedObject is one JSON object of the feed. Keys are matched exactly, so
// "id" or "name" do not stand in for "Id" or "Name". Keys not asked for
// (PriceId, ...) are ignored.
type feedObject map[string]json.RawMessage

// record collects missing and malformed field errors for one feed object.
type record struct {
	name   string
	object feedObject
	errs   []error
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func field[T any](r *record, key string, required bool) T {
	var v T

	raw, ok := r.object[key]
	if !ok || isNull(raw) {
		if required {
			r.errs = append(r.errs, fmt.Errorf("%s: missing required field %q", r.name, key))
		}
		return v
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		r.errs = append(r.errs, fmt.Errorf("decode feed: %s: field %q: %w", r.name, key, err))
	}

	return v
}

// collection decodes one top-level array of the feed into its objects.
func collection(doc feedObject, key string) ([]feedObject, error) {
	raw, ok := doc[key]
	if !ok || isNull(raw) {
		return nil, fmt.Errorf("missing collection %q", key)
	}

	var objects []feedObject
	if err := json.Unmarshal(raw, &objects); err != nil {
		return nil, fmt.Errorf("decode feed: collection %q: %w", key, err)
	}

	return objects, nil
}

// Load decodes a catalog feed document and builds a store from it.
func Load(r io.Reader) (*Store, error) {
	return load("reader", r)
}

func LoadFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Source: path, Err: err}
	}
	defer f.Close()

	return load(path, f)
}

func load(source string, r io.Reader) (*Store, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("read feed: %w", err)}
	}

	var doc feedObject
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &DataLoadError{Source: source, Err: fmt.Errorf("decode feed: %w", err)}
	}

	categories, locations, foods, err := records(doc)
	if err != nil {
		return nil, &DataLoadError{Source: source, Err: err}
	}

	return build(source, categories, locations, foods)
}

func records(doc feedObject) ([]models.Category, []models.Location, []models.Food, error) {
	var errs []error

	categoryObjects, err := collection(doc, "Categories")
	if err != nil {
		errs = append(errs, err)
	}
	locationObjects, err := collection(doc, "Locations")
	if err != nil {
		errs = append(errs, err)
	}
	foodObjects, err := collection(doc, "Foods")
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, nil, nil, errors.Join(errs...)
	}

	categories := make([]models.Category, 0, len(categoryObjects))
	for i, o := range categoryObjects {
		r := &record{name: fmt.Sprintf("Categories[%d]", i), object: o}
		categories = append(categories, models.Category{
			ID:   field[int](r, "Id", true),
			Name: field[string](r, "Name", true),
		})
		errs = append(errs, r.errs...)
	}

	locations := make([]models.Location, 0, len(locationObjects))
	for i, o := range locationObjects {
		r := &record{name: fmt.Sprintf("Locations[%d]", i), object: o}
		locations = append(locations, models.Location{
			ID:      field[int](r, "Id", true),
			Name:    field[string](r, "Name", true),
			Address: field[string](r, "Address", true),
			Phone:   field[string](r, "Phone", true),
			Hours:   field[string](r, "Hours", true),
		})
		errs = append(errs, r.errs...)
	}

	foods := make([]models.Food, 0, len(foodObjects))
	for i, o := range foodObjects {
		r := &record{name: fmt.Sprintf("Foods[%d]", i), object: o}
		foods = append(foods, models.Food{
			ID:          field[int](r, "Id", true),
			Name:        field[string](r, "Name", true),
			Description: field[string](r, "Description", true),
			Price:       field[float64](r, "Price", true),
			CategoryID:  field[int](r, "CategoryId", true),
			TimeID:      field[int](r, "TimeId", true),
			TimeValue:   field[int](r, "TimeValue", true),
			LocationID:  field[int](r, "LocationId", true),
			Star:        field[float64](r, "Star", true),
			ImagePath:   field[string](r, "ImagePath", false),
			BestFood:    field[bool](r, "BestFood", true),
			IsAvailable: field[bool](r, "IsAvailable", true),
			Ingredients: field[string](r, "Ingredients", true),
		})
		errs = append(errs, r.errs...)
	}

	if len(errs) > 0 {
		return nil, nil, nil, errors.Join(errs...)
	}

	return categories, locations, foods, nil
}
