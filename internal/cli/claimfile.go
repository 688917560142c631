package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/asymptotica/majorant/internal/catalog"
	"github.com/asymptotica/majorant/internal/model"
)

// claimFile is the YAML shape of a user-supplied claim.
type claimFile struct {
	Kind       model.ClaimKind         `yaml:"kind"`
	Series     *model.SeriesBoundClaim `yaml:"series"`
	Inequality *model.InequalityClaim  `yaml:"inequality"`
}

// loadClaimFile reads a claim definition from a YAML file and validates it.
func loadClaimFile(path string) (catalog.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("read claim file: %w", err)
	}

	var cf claimFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return catalog.Entry{}, fmt.Errorf("parse claim file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch cf.Kind {
	case model.KindSeries:
		if cf.Series == nil {
			return catalog.Entry{}, fmt.Errorf("claim file %s: kind is series but no series block", path)
		}
		if err := cf.Series.Validate(); err != nil {
			return catalog.Entry{}, fmt.Errorf("claim file %s: %w", path, err)
		}
		return catalog.Entry{Name: name, Kind: model.KindSeries, Series: cf.Series}, nil
	case model.KindInequality:
		if cf.Inequality == nil {
			return catalog.Entry{}, fmt.Errorf("claim file %s: kind is inequality but no inequality block", path)
		}
		if err := cf.Inequality.Validate(); err != nil {
			return catalog.Entry{}, fmt.Errorf("claim file %s: %w", path, err)
		}
		return catalog.Entry{Name: name, Kind: model.KindInequality, Inequality: cf.Inequality}, nil
	default:
		return catalog.Entry{}, fmt.Errorf("claim file %s: kind must be %q or %q", path, model.KindSeries, model.KindInequality)
	}
}

// resolveClaim interprets the prove argument: a catalog name first, then a
// path to a YAML claim file.
func resolveClaim(arg string) (catalog.Entry, error) {
	if entry, ok := catalog.Lookup(arg); ok {
		return entry, nil
	}
	if _, err := os.Stat(arg); err == nil {
		return loadClaimFile(arg)
	}
	return catalog.Entry{}, fmt.Errorf("unknown claim %q: not a catalog name (see 'majorant list') and not a file", arg)
}
