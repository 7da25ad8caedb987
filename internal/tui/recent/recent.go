// ABOUTME: Recent team searches for the TUI search screen
// ABOUTME: Stores the last few queries as JSON in the config directory

package recent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// MaxSearches is the maximum number of recent searches to keep
const MaxSearches = 5

// FileName is the file recent searches are stored in
const FileName = "recent_searches.json"

// Searches manages the list of recently run queries
type Searches struct {
	configDir string
	queries   []string
}

type recentData struct {
	Queries []string `json:"queries"`
}

// New creates a Searches manager with the given config directory.
// An empty directory keeps the list in memory only.
func New(configDir string) *Searches {
	return &Searches{configDir: configDir}
}

func (s *Searches) configFile() string {
	return filepath.Join(s.configDir, FileName)
}

// Load reads the recent searches from disk
func (s *Searches) Load() ([]string, error) {
	if s.configDir == "" {
		if s.queries == nil {
			s.queries = []string{}
		}
		return s.queries, nil
	}

	data, err := os.ReadFile(s.configFile())
	if os.IsNotExist(err) {
		s.queries = []string{}
		return s.queries, nil
	}
	if err != nil {
		return nil, err
	}

	var recent recentData
	if err := json.Unmarshal(data, &recent); err != nil {
		// Invalid JSON, start fresh
		s.queries = []string{}
		return s.queries, nil
	}

	s.queries = make([]string, 0, len(recent.Queries))
	for _, q := range recent.Queries {
		if q = strings.TrimSpace(q); q != "" {
			s.queries = append(s.queries, q)
		}
	}
	return s.queries, nil
}

// Save writes the recent searches to disk
func (s *Searches) Save(queries []string) error {
	if len(queries) > MaxSearches {
		queries = queries[:MaxSearches]
	}
	s.queries = queries

	if s.configDir == "" {
		return nil
	}
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(recentData{Queries: queries}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.configFile(), data, 0600)
}

// Add moves query to the front of the list, dropping case-insensitive duplicates
func (s *Searches) Add(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	if s.queries == nil {
		if _, err := s.Load(); err != nil {
			s.queries = []string{}
		}
	}

	next := make([]string, 0, len(s.queries)+1)
	next = append(next, query)
	for _, q := range s.queries {
		if !strings.EqualFold(q, query) {
			next = append(next, q)
		}
	}
	return s.Save(next)
}

// List returns the current recent searches, most recent first
func (s *Searches) List() []string {
	if s.queries == nil {
		s.Load()
	}
	return s.queries
}
