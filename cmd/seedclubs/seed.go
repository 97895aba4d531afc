package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/campusconnect/campus-backend/types"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ClubSeeder is the part of the club store the seeder writes through.
type ClubSeeder interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, club *types.Club) (string, error)
}

type seedFile struct {
	Clubs []seedClub `yaml:"clubs"`
}

type seedClub struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`
	ImageURL    string `yaml:"imageUrl"`
	Instagram   string `yaml:"instagram"`
	Website     string `yaml:"website"`
}

// LoadClubs parses a seed file. Every club needs a name and a known category,
// and names must be unique ignoring case. Member counts always start at zero.
func LoadClubs(r io.Reader) ([]types.Club, error) {
	var sf seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sf); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("seed file is empty")
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if len(sf.Clubs) == 0 {
		return nil, fmt.Errorf("seed file has no clubs")
	}

	seen := make(map[string]int, len(sf.Clubs))
	clubs := make([]types.Club, 0, len(sf.Clubs))
	for i, sc := range sf.Clubs {
		name := strings.TrimSpace(sc.Name)
		if name == "" {
			return nil, fmt.Errorf("club %d: name is required", i+1)
		}
		key := strings.ToLower(name)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("club %d: %q duplicates club %d", i+1, name, prev)
		}
		seen[key] = i + 1

		category := types.ClubCategory(strings.TrimSpace(sc.Category))
		if !category.IsValid() {
			return nil, fmt.Errorf("club %q: unknown category %q", name, sc.Category)
		}
		clubs = append(clubs, types.Club{
			ID:          strings.TrimSpace(sc.ID),
			Name:        name,
			Description: strings.TrimSpace(sc.Description),
			Category:    category,
			ImageURL:    sc.ImageURL,
			Instagram:   sc.Instagram,
			Website:     sc.Website,
		})
	}
	return clubs, nil
}

// Seed inserts clubs only when the table is empty and returns how many were
// created. A partially seeded table is left alone on the next run.
func Seed(ctx context.Context, s ClubSeeder, clubs []types.Club, log *zap.Logger) (int, error) {
	existing, err := s.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count clubs: %w", err)
	}
	if existing > 0 {
		log.Info("Clubs table not empty, skipping seed", zap.Int64("existing", existing))
		return 0, nil
	}

	created := 0
	for i := range clubs {
		c := clubs[i]
		id, err := s.Create(ctx, &c)
		if err != nil {
			return created, fmt.Errorf("create club %q: %w", c.Name, err)
		}
		log.Debug("Seeded club", zap.String("id", id), zap.String("name", c.Name))
		created++
	}
	return created, nil
}
