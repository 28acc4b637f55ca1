package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type CatalogEntry struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type CatalogService interface {
	// LoadCatalog is the closed set of recommendation targets, sorted by name.
	// An empty catalog is a client error.
	LoadCatalog(ctx context.Context) ([]CatalogEntry, error)
	ListMajors(ctx context.Context) ([]CatalogEntry, error)
	// Seed inserts majors and universities that are not registered yet and
	// links each university to the majors it offers. Re-running is a no-op.
	Seed(ctx context.Context, seed CatalogSeed) (CatalogSeedResult, error)
}

// CatalogSeed is the majors/universities part of a migrate seed document.
type CatalogSeed struct {
	Majors []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
	} `yaml:"majors"`
	Universities []struct {
		Name     string   `yaml:"name"`
		Location string   `yaml:"location"`
		Majors   []string `yaml:"majors"`
	} `yaml:"universities"`
}

type CatalogSeedResult struct {
	MajorsInserted       int
	UniversitiesInserted int
}

// ParseCatalogSeed reads the majors and universities sections of a seed
// document. Other top-level keys are ignored.
func ParseCatalogSeed(raw []byte) (CatalogSeed, error) {
	var seed CatalogSeed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return CatalogSeed{}, fmt.Errorf("parse catalog seed: %w", err)
	}
	return seed, nil
}

type catalogService struct {
	db             *gorm.DB
	log            *logger.Logger
	majorRepo      repos.MajorRepo
	universityRepo repos.UniversityRepo
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	majorRepo repos.MajorRepo,
	universityRepo repos.UniversityRepo,
) CatalogService {
	return &catalogService{
		db:             db,
		log:            log.With("service", "CatalogService"),
		majorRepo:      majorRepo,
		universityRepo: universityRepo,
	}
}

func (s *catalogService) LoadCatalog(ctx context.Context) ([]CatalogEntry, error) {
	entries, err := s.ListMajors(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, invalidArgument("no_majors", "No majors are registered in the system to recommend from")
	}
	return entries, nil
}

func (s *catalogService) ListMajors(ctx context.Context) ([]CatalogEntry, error) {
	majors, err := s.majorRepo.ListOrdered(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, err
	}
	out := make([]CatalogEntry, 0, len(majors))
	for _, m := range majors {
		if m == nil {
			continue
		}
		out = append(out, CatalogEntry{ID: m.ID, Name: m.Name, Description: m.Description})
	}
	return out, nil
}

func (s *catalogService) Seed(ctx context.Context, seed CatalogSeed) (CatalogSeedResult, error) {
	var res CatalogSeedResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		names := make([]string, 0, len(seed.Majors))
		descriptions := map[string]string{}
		for i, m := range seed.Majors {
			name := strings.TrimSpace(m.Name)
			if name == "" {
				return fmt.Errorf("major %d: name is required", i)
			}
			if _, dup := descriptions[name]; dup {
				continue
			}
			names = append(names, name)
			descriptions[name] = strings.TrimSpace(m.Description)
		}
		existing, err := s.majorRepo.GetByNames(dbc, names)
		if err != nil {
			return err
		}
		byName := make(map[string]uuid.UUID, len(existing))
		for _, m := range existing {
			byName[m.Name] = m.ID
		}
		var fresh []*types.Major
		for _, name := range names {
			if _, ok := byName[name]; !ok {
				fresh = append(fresh, &types.Major{Name: name, Description: descriptions[name]})
			}
		}
		created, err := s.majorRepo.Create(dbc, fresh)
		if err != nil {
			return err
		}
		for _, m := range created {
			byName[m.Name] = m.ID
		}
		res.MajorsInserted = len(created)

		for i, u := range seed.Universities {
			name := strings.TrimSpace(u.Name)
			if name == "" {
				return fmt.Errorf("university %d: name is required", i)
			}
			majorIDs, err := s.resolveMajors(dbc, name, u.Majors, byName)
			if err != nil {
				return err
			}
			uni, err := s.universityRepo.GetByName(dbc, name)
			if err != nil {
				return err
			}
			if uni == nil {
				rows, err := s.universityRepo.Create(dbc, []*types.University{{Name: name, Location: strings.TrimSpace(u.Location)}})
				if err != nil {
					return err
				}
				uni = rows[0]
				res.UniversitiesInserted++
			}
			if err := s.universityRepo.OfferMajors(dbc, uni.ID, majorIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return CatalogSeedResult{}, err
	}
	s.log.Info("Catalog seeded", "majors_inserted", res.MajorsInserted, "universities_inserted", res.UniversitiesInserted)
	return res, nil
}

// resolveMajors maps the major names a university offers to IDs. Names not
// in the seed may still refer to majors registered earlier.
func (s *catalogService) resolveMajors(dbc dbctx.Context, university string, names []string, known map[string]uuid.UUID) ([]uuid.UUID, error) {
	var missing []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			if _, ok := known[n]; !ok {
				missing = append(missing, n)
			}
		}
	}
	if len(missing) > 0 {
		found, err := s.majorRepo.GetByNames(dbc, missing)
		if err != nil {
			return nil, err
		}
		for _, m := range found {
			known[m.Name] = m.ID
		}
	}
	ids := make([]uuid.UUID, 0, len(names))
	seen := map[uuid.UUID]bool{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		id, ok := known[n]
		if !ok {
			return nil, fmt.Errorf("university %q: unknown major %q", university, n)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
