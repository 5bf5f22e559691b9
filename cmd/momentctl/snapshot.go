package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matst80/moment-finder/pkg/config"
	"github.com/matst80/moment-finder/pkg/facet"
	"github.com/matst80/moment-finder/pkg/filter"
	"github.com/matst80/moment-finder/pkg/index"
	"github.com/matst80/moment-finder/pkg/storage"
	"github.com/matst80/moment-finder/pkg/types"
	"github.com/spf13/cobra"
)

// readSnapshot loads a moments file, gzipped when the name ends in .gz.
func readSnapshot(path string) ([]types.Moment, error) {
	dir, name := filepath.Split(path)
	disk := storage.NewDiskStorage("", dir)
	moments := make([]types.Moment, 0)
	var err error
	if strings.HasSuffix(name, ".gz") {
		err = disk.LoadGzippedJson(&moments, name)
	} else {
		err = disk.LoadJson(&moments, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return moments, nil
}

type scopeSetup struct {
	cfg        *config.Config
	context    *types.FilterContext
	collection *index.Collection
	defaults   types.FilterState
	series     []int
}

// loadScope resolves the scope flag against the configuration and, when a
// snapshot is given, the collection the defaults are derived from.
func loadScope(cmd *cobra.Command, snapshot string) (*scopeSetup, error) {
	configFile, _ := cmd.Flags().GetString("config")
	scopeName, _ := cmd.Flags().GetString("scope")
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	scope, ok := cfg.Scope(scopeName)
	if !ok {
		return nil, fmt.Errorf("unknown scope %s, have %s", scopeName, strings.Join(cfg.ScopeNames(), ", "))
	}
	s := &scopeSetup{
		cfg:     cfg,
		context: cfg.FilterContext(scope),
	}
	var moments []types.Moment
	if snapshot != "" {
		if moments, err = readSnapshot(snapshot); err != nil {
			return nil, err
		}
	}
	s.collection = index.NewCollection("local", moments)
	s.series = facet.AvailableSeries(s.collection.Moments, s.context)
	s.defaults = filter.Defaults(s.series, facet.AvailableTiers(s.collection.Moments, s.context))
	return s, nil
}
