package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matst80/moment-finder/pkg/common/jsoncompat"
	"github.com/matst80/moment-finder/pkg/types"
)

// CurrentVersion is the format version written by this package. Version 1
// documents may hold single scalar values with the "All" sentinel.
const CurrentVersion = 2

const allSentinel = "All"

var ErrUnknownVersion = errors.New("unknown filter format version")

type fieldShape uint8

const (
	// "All" clears the facet
	emptyMeansAll fieldShape = iota
	// "All" selects every league
	everyLeague
	// a scalar is wrapped
	wrapScalar
)

var migratedFields = map[string]fieldShape{
	"selectedSetName":    emptyMeansAll,
	"selectedTeam":       emptyMeansAll,
	"selectedPlayer":     emptyMeansAll,
	"selectedSubedition": emptyMeansAll,
	"selectedLeague":     everyLeague,
	"selectedTiers":      wrapScalar,
	"selectedSeries":     wrapScalar,
}

var numericFields = map[string]bool{
	"selectedSeries":     true,
	"selectedSubedition": true,
}

// Upgrade converts a stored document of the given version to the current
// format.
func Upgrade(version int, data []byte) ([]byte, error) {
	switch version {
	case CurrentVersion:
		return data, nil
	case 1:
		return MigrateScalars(data)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, version)
}

// MigrateScalars rewrites scalar facet values into arrays and coerces
// numeric facets stored as strings. Tokens that are not numbers are dropped.
func MigrateScalars(data []byte) ([]byte, error) {
	raw := make(map[string]any)
	if err := jsoncompat.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode filter document: %w", err)
	}
	for key, shape := range migratedFields {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if _, isList := v.([]any); !isList {
			v = migrateScalar(v, shape)
		}
		if numericFields[key] {
			v = numbers(v.([]any))
		}
		raw[key] = v
	}
	return jsoncompat.Marshal(raw)
}

func migrateScalar(v any, shape fieldShape) []any {
	if s, ok := v.(string); ok && s == allSentinel {
		switch shape {
		case emptyMeansAll:
			return []any{}
		case everyLeague:
			ret := make([]any, len(types.Leagues))
			for i, l := range types.Leagues {
				ret[i] = l
			}
			return ret
		}
	}
	return []any{v}
}

func numbers(values []any) []any {
	ret := make([]any, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			ret = append(ret, int(n))
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				ret = append(ret, i)
			}
		}
	}
	return ret
}
