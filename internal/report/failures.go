package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Episcore/internal/runner"
)

// WriteBlacklist writes paths as a YAML sequence. Nothing is written for an
// empty list.
func WriteBlacklist(w io.Writer, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(paths); err != nil {
		return err
	}
	return enc.Close()
}

// ReadBlacklist returns the paths listed in the blacklist at path as a set. A
// missing file is an empty blacklist.
func ReadBlacklist(path string) (map[string]bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read blacklist: %w", err)
	}
	var paths []string
	if err := yaml.Unmarshal(b, &paths); err != nil {
		return nil, fmt.Errorf("parse blacklist %s: %w", path, err)
	}
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set, nil
}

// WriteErrorLog writes one block per failure: the location, the failure kind,
// the message and a blank line.
func WriteErrorLog(w io.Writer, failures []runner.Failure) error {
	bw := bufio.NewWriter(w)
	for _, f := range failures {
		if f.FileLevel() {
			fmt.Fprintf(bw, "Error in %s\n", f.File)
		} else {
			fmt.Fprintf(bw, "Error in %s %d-%d for %s, %s\n", f.Model, f.Year, f.Epiweek, f.Region, f.Target)
		}
		fmt.Fprintf(bw, "%s\n%s\n\n", f.Kind, f.Message)
	}
	return bw.Flush()
}
