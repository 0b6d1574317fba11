package config_test

import (
	"strings"
	"testing"

	"notioncal/internal/config"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NOTION_API_TOKEN", "secret")
	t.Setenv("NOTION_TASKS_DB_ID", "db123")
	t.Setenv("DOMAIN_CALENDAR_MAPPING", `{"Work": "cal-1", "Book": "cal-2"}`)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", `{"type": "service_account"}`)
	t.Setenv("TIMEZONE", "")
	t.Setenv("LOG_LEVEL", "")
}

func TestLoad(t *testing.T) {
	setValidEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.NotionToken != "secret" || cfg.TasksDatabaseID != "db123" {
		t.Errorf("unexpected credentials: %+v", cfg)
	}
	if len(cfg.CalendarMapping) != 2 || cfg.CalendarMapping["Work"] != "cal-1" {
		t.Errorf("mapping = %v", cfg.CalendarMapping)
	}
	if cfg.TimezoneName != "America/New_York" || cfg.Location == nil {
		t.Errorf("expected default timezone, got %q", cfg.TimezoneName)
	}
}

func TestLoadCustomTimezone(t *testing.T) {
	setValidEnv(t)
	t.Setenv("TIMEZONE", "Europe/Lisbon")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TimezoneName != "Europe/Lisbon" {
		t.Errorf("timezone = %q", cfg.TimezoneName)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	required := []string{
		"NOTION_API_TOKEN",
		"NOTION_TASKS_DB_ID",
		"DOMAIN_CALENDAR_MAPPING",
		"GOOGLE_SERVICE_ACCOUNT_JSON",
	}

	for _, name := range required {
		t.Run(name, func(t *testing.T) {
			setValidEnv(t)
			t.Setenv(name, "")

			_, err := config.Load()
			if err == nil {
				t.Fatalf("expected error with %s unset", name)
			}
			if !strings.Contains(err.Error(), name) {
				t.Errorf("error %q does not name the missing variable", err)
			}
		})
	}
}

func TestLoadRejectsBadMapping(t *testing.T) {
	bad := []string{
		"not json at all",
		`["Work", "cal-1"]`,
		`{"Work": 7}`,
	}

	for _, value := range bad {
		setValidEnv(t)
		t.Setenv("DOMAIN_CALENDAR_MAPPING", value)

		if _, err := config.Load(); err == nil {
			t.Errorf("expected error for mapping %q", value)
		}
	}
}

func TestLoadRejectsBadCredentials(t *testing.T) {
	setValidEnv(t)
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "{oops")

	if _, err := config.Load(); err == nil {
		t.Error("expected error for malformed credentials JSON")
	}
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	setValidEnv(t)
	t.Setenv("TIMEZONE", "Mars/Olympus_Mons")

	if _, err := config.Load(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
