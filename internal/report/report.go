package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/MikeSquared-Agency/Episcore/internal/config"
	"github.com/MikeSquared-Agency/Episcore/internal/runner"
)

// WriteAll writes every configured output of res. Empty paths are skipped.
func WriteAll(cfg config.OutputConfig, res *runner.Result) error {
	if cfg.ScoresFile != "" {
		if err := writeFile(cfg.ScoresFile, func(w io.Writer) error {
			return WriteScores(w, res.Records)
		}); err != nil {
			return fmt.Errorf("write scores: %w", err)
		}
	}
	if cfg.BlacklistFile != "" {
		if err := writeFile(cfg.BlacklistFile, func(w io.Writer) error {
			return WriteBlacklist(w, res.Blacklist)
		}); err != nil {
			return fmt.Errorf("write blacklist: %w", err)
		}
	}
	if cfg.ErrorLogFile != "" {
		if err := writeFile(cfg.ErrorLogFile, func(w io.Writer) error {
			return WriteErrorLog(w, res.Failures)
		}); err != nil {
			return fmt.Errorf("write error log: %w", err)
		}
	}
	if cfg.XLSXFile != "" {
		if err := mkdirFor(cfg.XLSXFile); err != nil {
			return err
		}
		if err := WriteXLSX(cfg.XLSXFile, res.Records); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	if err := mkdirFor(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func mkdirFor(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
