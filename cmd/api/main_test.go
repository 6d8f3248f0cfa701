package main

import (
	"context"
	"testing"
	"time"

	appconfig "github.com/glidebook/glidebook/internal/config"
	"github.com/glidebook/glidebook/pkg/logging"
)

type noopLocationStore struct{}

func (noopLocationStore) UpdateLocationZips(_ context.Context, _, _, _ string, _ []string) error {
	return nil
}

func TestBuildServiceAreaHandlerDisabledWithoutBaseURL(t *testing.T) {
	logger := logging.New("error")
	handler, err := buildServiceAreaHandler(&appconfig.Config{}, noopLocationStore{}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handler != nil {
		t.Fatalf("expected nil handler when geocoder is not configured")
	}
}

func TestBuildServiceAreaHandlerConfigured(t *testing.T) {
	logger := logging.New("error")
	cfg := &appconfig.Config{
		GeocoderBaseURL: "https://geo.example.com",
		GeocoderAPIKey:  "key",
		GeocoderTimeout: 5 * time.Second,
	}
	handler, err := buildServiceAreaHandler(cfg, noopLocationStore{}, logger)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if handler == nil {
		t.Fatalf("expected handler when geocoder is configured")
	}
}
