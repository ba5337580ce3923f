package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/model"
)

// Fetcher fetches the current weather for a city
type Fetcher interface {
	Fetch(ctx context.Context, city string) (model.WeatherSnapshot, error)
}

// Client calls the current-weather endpoint of the upstream API
type Client struct {
	baseURL    string
	apiKey     string
	units      string
	lang       string
	httpClient *http.Client
}

// NewClient creates a weather API client
func NewClient(cfg config.WeatherConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		units:   cfg.Units,
		lang:    cfg.Lang,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Fetch issues exactly one GET for a non-empty city name
func (c *Client) Fetch(ctx context.Context, city string) (model.WeatherSnapshot, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return model.WeatherSnapshot{}, validationError(city)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(city), nil)
	if err != nil {
		return model.WeatherSnapshot{}, &Error{Kind: KindNetwork, City: city, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := KindNetwork
		if errors.Is(err, context.Canceled) {
			kind = KindCanceled
		}
		return model.WeatherSnapshot{}, &Error{Kind: kind, City: city, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		kind := KindUpstream
		if resp.StatusCode == http.StatusNotFound {
			kind = KindNotFound
		}
		return model.WeatherSnapshot{}, &Error{
			Kind:       kind,
			City:       city,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
		}
	}

	var body model.CurrentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.WeatherSnapshot{}, &Error{
			Kind:       KindMalformed,
			City:       city,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	if err := checkShape(body); err != nil {
		return model.WeatherSnapshot{}, &Error{Kind: KindMalformed, City: city, StatusCode: resp.StatusCode, Err: err}
	}

	return body.Snapshot(), nil
}

func (c *Client) requestURL(city string) string {
	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", c.units)
	params.Set("lang", c.lang)

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + params.Encode()
}

func checkShape(body model.CurrentWeatherResponse) error {
	if body.Name == "" {
		return errors.New("response has no city name")
	}
	if len(body.Weather) == 0 {
		return errors.New("response has no weather conditions")
	}
	return nil
}

// IconURL builds the icon asset URL for an icon id
func IconURL(iconBaseURL, icon string) string {
	if icon == "" {
		return ""
	}
	return strings.TrimRight(iconBaseURL, "/") + "/" + url.PathEscape(icon) + "@2x.png"
}
