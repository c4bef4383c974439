// Package models finds model forecast directories and the files inside them.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetadataFile is the per-model metadata document.
const MetadataFile = "metadata.txt"

// Model is one forecasting model and its forecast files in discovery order.
type Model struct {
	ID    string
	Dir   string
	Files []string
}

// Metadata is the subset of metadata.txt used to name a model.
type Metadata struct {
	TeamName  string `yaml:"team_name"`
	ModelName string `yaml:"model_name"`
	ModelAbbr string `yaml:"model_abbr"`
}

var fileTimeRe = regexp.MustCompile(`^EW(\d{1,2})-(\d{4})`)

// Discover lists the model directories under root/<collection> for each
// collection, in collection order and then by directory name. A missing
// collection directory is skipped.
func Discover(root string, collections []string) ([]Model, error) {
	var out []Model
	for _, c := range collections {
		dir := filepath.Join(root, c)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read collection %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			m, err := Load(filepath.Join(dir, e.Name()))
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
	}
	return out, nil
}

// Load reads one model directory.
func Load(dir string) (Model, error) {
	files, err := forecastFiles(dir)
	if err != nil {
		return Model{}, err
	}
	return Model{ID: ModelID(dir), Dir: dir, Files: files}, nil
}

func forecastFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read model dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ModelID names the model in dir as "<team_name>-<model_abbr>" from its
// metadata, falling back to the directory name.
func ModelID(dir string) string {
	meta, err := ReadMetadata(dir)
	if err != nil || meta.TeamName == "" || meta.ModelAbbr == "" {
		return filepath.Base(dir)
	}
	return meta.TeamName + "-" + meta.ModelAbbr
}

// ReadMetadata parses dir/metadata.txt.
func ReadMetadata(dir string) (*Metadata, error) {
	b, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, err
	}
	var m Metadata
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", MetadataFile, err)
	}
	m.TeamName = strings.TrimSpace(m.TeamName)
	m.ModelAbbr = strings.TrimSpace(m.ModelAbbr)
	return &m, nil
}

// FileTime extracts the year and epiweek from a forecast file name of the form
// EW<week>-<year>-<anything>.csv.
func FileTime(path string) (year, epiweek int, err error) {
	m := fileTimeRe.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, 0, fmt.Errorf("file name %s does not start with EW<week>-<year>", filepath.Base(path))
	}
	epiweek, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if epiweek < 1 || epiweek > 53 {
		return 0, 0, fmt.Errorf("file name %s has invalid epiweek %d", filepath.Base(path), epiweek)
	}
	return year, epiweek, nil
}
