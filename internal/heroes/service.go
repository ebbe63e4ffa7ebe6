package heroes

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"heroleague/pkg/models"
)

// Store is the local hero cache consumed by the coordinator.
type Store interface {
	GetByID(ctx context.Context, id int) (*models.Hero, error)
	Upsert(ctx context.Context, h models.Hero) error
	List(ctx context.Context, alignment string) ([]models.Hero, error)
}

// Directory is the third-party hero source consumed by the coordinator.
type Directory interface {
	SearchByName(ctx context.Context, query string) ([]RawHero, error)
	FetchByID(ctx context.Context, id int) (*RawHero, error)
	FetchAsset(ctx context.Context, assetURL string) ([]byte, string, error)
}

// Service coordinates the local-first / upstream-fallback catalog policy:
// searches always ask the directory and feed the cache, browses and id
// lookups prefer the cache, and everything observed upstream is upserted.
type Service struct {
	store Store
	dir   Directory
	log   zerolog.Logger
}

func NewService(store Store, dir Directory, log zerolog.Logger) *Service {
	return &Service{store: store, dir: dir, log: log}
}

// HeroView is a Hero plus the derived proxy image locator. The locator is
// computed from the id on every response, never stored, so browser clients
// are pointed at this backend instead of the upstream image host.
type HeroView struct {
	models.Hero
	ProxyImage string `json:"proxy_image"`
}

func ProxyImagePath(id int) string {
	return fmt.Sprintf("/heroes/%d/image", id)
}

type Query struct {
	Search    string
	Alignment string
	Page      int
	PerPage   int
}

type Page struct {
	Results    []HeroView `json:"results"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
}

const (
	DefaultPerPage = 25
	MaxPerPage     = 100
)

// SearchOrBrowse serves GET /heroes.
//
// A non-empty search means "ask the directory now": directory errors
// propagate with their status, results are normalized and upserted into
// the cache. A per-record upsert failure is logged and skipped; the
// freshly fetched record is still returned and the remaining upserts still
// run. An empty search reads only the local cache.
func (s *Service) SearchOrBrowse(ctx context.Context, q Query) (*Page, error) {
	alignment := strings.ToLower(strings.TrimSpace(q.Alignment))

	var results []models.Hero
	if search := strings.TrimSpace(q.Search); search != "" {
		raws, err := s.dir.SearchByName(ctx, search)
		if err != nil {
			return nil, err
		}

		results = make([]models.Hero, 0, len(raws))
		for _, raw := range raws {
			h, err := Normalize(raw)
			if err != nil {
				s.log.Warn().Err(err).Msg("skipping unnormalizable hero payload")
				continue
			}
			results = append(results, h)
		}

		for _, h := range results {
			if err := s.store.Upsert(ctx, h); err != nil {
				s.log.Error().Err(err).Int("hero_id", h.ID).Msg("failed to persist hero")
			}
		}
	} else {
		var err error
		results, err = s.store.List(ctx, alignment)
		if err != nil {
			return nil, err
		}
	}

	// applied uniformly after the merge so the search path is filtered too
	if alignment != "" && alignment != "all" {
		filtered := results[:0]
		for _, h := range results {
			if h.Alignment == alignment {
				filtered = append(filtered, h)
			}
		}
		results = filtered
	}

	views := make([]HeroView, 0, len(results))
	for _, h := range results {
		views = append(views, HeroView{Hero: h, ProxyImage: ProxyImagePath(h.ID)})
	}

	return paginate(views, q.Page, q.PerPage), nil
}

// GetByID serves GET /heroes/:id. Strict local-first: once a hero is
// cached the directory is never consulted again for it.
func (s *Service) GetByID(ctx context.Context, id int) (*HeroView, error) {
	h, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if h == nil {
		raw, err := s.dir.FetchByID(ctx, id)
		if err != nil {
			return nil, err
		}
		rec, err := Normalize(*raw)
		if err != nil {
			return nil, err
		}
		if err := s.store.Upsert(ctx, rec); err != nil {
			return nil, err
		}
		h = &rec
	}

	return &HeroView{Hero: *h, ProxyImage: ProxyImagePath(h.ID)}, nil
}

func paginate(views []HeroView, page, perPage int) *Page {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total := len(views)
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return &Page{
		Results:    views[start:end],
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	}
}
