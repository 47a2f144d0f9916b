package flights

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/mpopescu/skybooker/internal/domain"
	"github.com/mpopescu/skybooker/internal/repository"
	"github.com/mpopescu/skybooker/internal/search"
	"github.com/sirupsen/logrus"
)

// maxFetchResults caps how many offers one external search may ingest.
const maxFetchResults = 20

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, id int64, patch domain.FlightPatch) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
	Fetch(ctx context.Context, query search.Query) ([]domain.Flight, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
	GetSearchResults(ctx context.Context, query string) ([]domain.Flight, error)
	SetSearchResults(ctx context.Context, query string, flights []domain.Flight) error
}

type Provider interface {
	SearchRoundTrip(ctx context.Context, query search.Query) ([]domain.Flight, error)
}

type FlightService struct {
	repo     repository.FlightRepository
	cache    Cache
	provider Provider
}

func NewFlightService(repo repository.FlightRepository, cache Cache, provider Provider) *FlightService {
	return &FlightService{repo: repo, cache: cache, provider: provider}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, flights)
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *FlightService) Create(ctx context.Context, flight *domain.Flight) error {
	if err := validateFlight(flight); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) Update(ctx context.Context, id int64, patch domain.FlightPatch) (*domain.Flight, error) {
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Origin != nil {
		flight.Origin = *patch.Origin
	}
	if patch.Destination != nil {
		flight.Destination = *patch.Destination
	}
	if patch.DepartureTime != nil {
		flight.DepartureTime = *patch.DepartureTime
	}
	if patch.ReturnTime != nil {
		flight.ReturnTime = patch.ReturnTime
	}
	if patch.Airline != nil {
		flight.Airline = *patch.Airline
	}
	if patch.AirlineReturn != nil {
		flight.AirlineReturn = *patch.AirlineReturn
	}
	if patch.PriceCents != nil {
		flight.PriceCents = *patch.PriceCents
	}

	if err := validateFlight(flight); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Fetch searches the external provider, collapses structural
// duplicates, keeps the 20 cheapest offers and upserts them into the
// catalog so every returned offer carries a real store id.
func (s *FlightService) Fetch(ctx context.Context, query search.Query) ([]domain.Flight, error) {
	if query.From == "" || query.To == "" || query.DepartDate == "" || query.ReturnDate == "" {
		return nil, fmt.Errorf("%w: from, to, depart and ret are required", domain.ErrValidation)
	}

	if s.cache != nil {
		if cached, err := s.cache.GetSearchResults(ctx, query.CacheKey()); err == nil && cached != nil {
			return cached, nil
		}
	}

	offers, err := s.provider.SearchRoundTrip(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 {
		return nil, fmt.Errorf("%w: no flights for this search", domain.ErrNotFound)
	}

	seen := make(map[domain.DedupKey]struct{}, len(offers))
	unique := make([]domain.Flight, 0, len(offers))
	for _, offer := range offers {
		key := offer.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, offer)
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].PriceCents < unique[j].PriceCents })
	if len(unique) > maxFetchResults {
		unique = unique[:maxFetchResults]
	}

	created, err := s.upsertFromExternal(ctx, unique)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"total": len(unique), "created": created}).Info("ingested external offers")

	if s.cache != nil {
		_ = s.cache.SetSearchResults(ctx, query.CacheKey(), unique)
	}
	return unique, nil
}

// upsertFromExternal assigns each offer its catalog id, creating rows
// only for offers the catalog has never seen. Returns how many were
// created.
func (s *FlightService) upsertFromExternal(ctx context.Context, offers []domain.Flight) (int, error) {
	created := 0
	for i := range offers {
		existing, err := s.repo.FindByKey(ctx, offers[i])
		switch {
		case err == nil:
			offers[i].ID = existing.ID
			offers[i].CreatedAt = existing.CreatedAt
			offers[i].UpdatedAt = existing.UpdatedAt
		case errors.Is(err, domain.ErrNotFound):
			if err := s.repo.Create(ctx, &offers[i]); err != nil {
				return created, err
			}
			created++
		default:
			return created, err
		}
	}
	if created > 0 {
		s.invalidate(ctx)
	}
	return created, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateFlights(ctx)
	}
}

func validateFlight(f *domain.Flight) error {
	if f.Origin == "" || f.Destination == "" {
		return fmt.Errorf("%w: origin and destination are required", domain.ErrValidation)
	}
	if f.DepartureTime.IsZero() {
		return fmt.Errorf("%w: departure time is required", domain.ErrValidation)
	}
	if f.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrValidation)
	}
	return nil
}

var _ FlightUseCase = (*FlightService)(nil)
