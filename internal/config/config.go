package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const defaultTimezone = "America/New_York"

// Config carries every external setting the sync needs. It is built
// once at startup and passed explicitly; nothing reads the environment
// after Load returns.
type Config struct {
	NotionToken       string            // Notion integration token
	TasksDatabaseID   string            // id of the tasks database
	CalendarMapping   map[string]string // domain name -> calendar id
	GoogleCredentials []byte            // service account key JSON
	TimezoneName      string            // IANA name, e.g. "America/New_York"
	Location          *time.Location
}

// Load reads and validates the environment surface. Any error here is
// fatal to the caller; no sync work may start on a partial config.
func Load() (*Config, error) {
	token, err := requireEnv("NOTION_API_TOKEN")
	if err != nil {
		return nil, err
	}
	databaseID, err := requireEnv("NOTION_TASKS_DB_ID")
	if err != nil {
		return nil, err
	}
	mappingJSON, err := requireEnv("DOMAIN_CALENDAR_MAPPING")
	if err != nil {
		return nil, err
	}
	credentials, err := requireEnv("GOOGLE_SERVICE_ACCOUNT_JSON")
	if err != nil {
		return nil, err
	}

	mapping, err := parseCalendarMapping(mappingJSON)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(credentials)) {
		return nil, fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_JSON is not valid JSON")
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = defaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tzName, err)
	}

	return &Config{
		NotionToken:       token,
		TasksDatabaseID:   databaseID,
		CalendarMapping:   mapping,
		GoogleCredentials: []byte(credentials),
		TimezoneName:      tzName,
		Location:          loc,
	}, nil
}

func requireEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("missing required environment variable: %s", name)
	}
	return value, nil
}

// parseCalendarMapping parses the JSON object mapping domain names to
// calendar ids. Non-object values and non-string entries are rejected.
func parseCalendarMapping(s string) (map[string]string, error) {
	var mapping map[string]string
	if err := json.Unmarshal([]byte(s), &mapping); err != nil {
		return nil, fmt.Errorf("DOMAIN_CALENDAR_MAPPING must be a JSON object of strings: %w", err)
	}
	return mapping, nil
}
