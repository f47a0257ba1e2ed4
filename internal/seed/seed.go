// Package seed loads course catalogues from YAML into the database.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/service"
	"gopkg.in/yaml.v3"
)

//go:embed courses.yaml
var defaultCatalogue []byte

// Catalogue is the YAML document: a list of courses with their holes.
type Catalogue struct {
	Courses []service.CourseInput `yaml:"courses"`
}

// Result counts what a seed run did.
type Result struct {
	Created int
	Skipped int
}

// seeder acts as an administrator when creating courses.
var seeder = &model.User{ID: "seed", Role: model.RoleAdmin}

// Load parses a catalogue. Unknown keys are rejected so typos do not silently
// drop hole data.
func Load(r io.Reader) (*Catalogue, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cat Catalogue
	err := dec.Decode(&cat)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &cat, nil
		}
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	return &cat, nil
}

// LoadFile reads a catalogue from disk; an empty path selects the built-in one.
func LoadFile(path string) (*Catalogue, error) {
	if path == "" {
		return Load(strings.NewReader(string(defaultCatalogue)))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

// Courses creates every catalogue course whose name is not taken yet, so
// running it twice is harmless.
func Courses(ctx context.Context, courses *service.CourseService, repo repository.CourseRepository, cat *Catalogue) (Result, error) {
	var res Result

	for i, in := range cat.Courses {
		name := strings.TrimSpace(in.Name)

		_, err := repo.ByName(name)
		if err == nil {
			res.Skipped++
			slog.Debug("course already seeded", "name", name)
			continue
		}
		if !errors.Is(err, repository.ErrCourseNotFound) {
			return res, fmt.Errorf("failed to look up course %q: %w", name, err)
		}

		_, err = courses.Create(ctx, seeder, in)
		if err != nil {
			return res, fmt.Errorf("course %d (%s): %w", i+1, name, err)
		}
		res.Created++
	}

	return res, nil
}
