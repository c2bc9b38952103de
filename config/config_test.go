package config

import (
	"testing"
	"time"
)

func TestOfflineThresholdIsFixed(t *testing.T) {
	t.Setenv("PRESENCE_OFFLINE_AFTER", "10m")
	if got := Load().Gamification.OfflineAfter; got != time.Minute {
		t.Fatalf("offline threshold: want=%s got=%s", time.Minute, got)
	}
}

func TestGetDurationFallsBackOnInvalidValue(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soon")
	if got := Load().Server.ReadTimeout; got != 10*time.Second {
		t.Fatalf("read timeout: want=10s got=%s", got)
	}
}
