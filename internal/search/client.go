package search

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/mpopescu/skybooker/config"
	"github.com/mpopescu/skybooker/internal/domain"
)

// Query is a round-trip search request. Dates are in the provider's
// YYYY-MM-DD form; Adults defaults to "1" when empty.
type Query struct {
	From       string
	To         string
	DepartDate string
	ReturnDate string
	Adults     string
}

func (q Query) CacheKey() string {
	adults := q.Adults
	if adults == "" {
		adults = "1"
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", q.From, q.To, q.DepartDate, q.ReturnDate, adults)
}

type Client struct {
	baseURL string
	apiKey  string
	apiHost string
	httpc   *http.Client
}

func NewClient(cfg config.SearchConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Provider response shape, reduced to the fields the catalog keeps.
type searchResponse struct {
	Data struct {
		Itineraries []itinerary `json:"itineraries"`
	} `json:"data"`
}

type carrier struct {
	Name string `json:"name"`
}

type place struct {
	Name string `json:"name"`
}

type leg struct {
	Origin      place  `json:"origin"`
	Destination place  `json:"destination"`
	Departure   string `json:"departure"`
	Carriers    struct {
		Marketing []carrier `json:"marketing"`
	} `json:"carriers"`
}

type itinerary struct {
	Legs  []leg `json:"legs"`
	Price struct {
		Raw float64 `json:"raw"`
	} `json:"price"`
}

// SearchRoundTrip queries the provider and maps each itinerary to an
// offer: leg 0 is outbound, leg 1 (when present) the return. An empty
// result is not an error; provider failures are.
func (c *Client) SearchRoundTrip(ctx context.Context, q Query) ([]domain.Flight, error) {
	adults := q.Adults
	if adults == "" {
		adults = "1"
	}

	params := url.Values{}
	params.Set("fromEntityId", q.From)
	params.Set("toEntityId", q.To)
	params.Set("departDate", q.DepartDate)
	params.Set("returnDate", q.ReturnDate)
	params.Set("adults", adults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/flights/search-roundtrip?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-rapidapi-key", c.apiKey)
	req.Header.Set("x-rapidapi-host", c.apiHost)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %d", domain.ErrExternalSource, resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrExternalSource, err)
	}

	offers := make([]domain.Flight, 0, len(body.Data.Itineraries))
	for _, it := range body.Data.Itineraries {
		if len(it.Legs) == 0 {
			continue
		}
		out := it.Legs[0]

		depart, err := parseProviderTime(out.Departure)
		if err != nil {
			continue
		}

		f := domain.Flight{
			Origin:        out.Origin.Name,
			Destination:   out.Destination.Name,
			DepartureTime: depart,
			Airline:       carrierName(out.Carriers.Marketing),
			PriceCents:    int64(math.Round(it.Price.Raw * 100)),
		}

		if len(it.Legs) > 1 {
			ret := it.Legs[1]
			if t, err := parseProviderTime(ret.Departure); err == nil {
				f.ReturnTime = &t
			}
			f.AirlineReturn = carrierName(ret.Carriers.Marketing)
		}

		offers = append(offers, f)
	}
	return offers, nil
}

func carrierName(marketing []carrier) string {
	if len(marketing) == 0 {
		return "Unknown airline"
	}
	return marketing[0].Name
}

func parseProviderTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// the provider omits the zone on leg departures
	return time.Parse("2006-01-02T15:04:05", s)
}
