package servicearea

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/glidebook/glidebook/pkg/logging"
)

// Point is one vertex of a drawn shape, in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Shape is a drawn service-area boundary. Type is "polygon" or "circle";
// circles carry the center as the single point plus a radius in meters.
type Shape struct {
	Type         string  `json:"type"`
	Points       []Point `json:"points"`
	RadiusMeters float64 `json:"radiusMeters,omitempty"`
}

func (s Shape) validate() error {
	switch s.Type {
	case "polygon":
		if len(s.Points) < 3 {
			return errors.New("servicearea: polygon needs at least 3 points")
		}
	case "circle":
		if len(s.Points) != 1 || s.RadiusMeters <= 0 {
			return errors.New("servicearea: circle needs a center and a positive radius")
		}
	default:
		return fmt.Errorf("servicearea: unknown shape type %q", s.Type)
	}
	return nil
}

// GeocoderConfig controls how the geocoder client behaves.
type GeocoderConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Geocoder resolves drawn shapes into the zip codes they cover, via an
// external geocoding service.
type Geocoder struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewGeocoder creates a configured geocoder client.
func NewGeocoder(cfg GeocoderConfig) (*Geocoder, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("servicearea: geocoder base URL required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Geocoder{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

type resolveRequest struct {
	Shape Shape `json:"shape"`
}

type resolveResponse struct {
	ZipCodes []string `json:"zipCodes"`
}

// Resolve posts the shape to the geocoding service and returns the covered
// zip codes.
func (g *Geocoder) Resolve(ctx context.Context, shape Shape) ([]string, error) {
	if err := shape.validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(resolveRequest{Shape: shape})
	if err != nil {
		return nil, fmt.Errorf("servicearea: marshal resolve body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/resolve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("servicearea: build resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("servicearea: resolve: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		g.logger.Warn("geocoder resolve failed", "status", resp.StatusCode, "body", string(payload))
		return nil, fmt.Errorf("servicearea: resolve: status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded resolveResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("servicearea: decode resolve response: %w", err)
	}
	if decoded.ZipCodes == nil {
		decoded.ZipCodes = []string{}
	}
	return decoded.ZipCodes, nil
}
