/*
Package seasonality supplies monthly workability tables by region.

PURPOSE:
  The simulation scales revenue and ad spend by how workable each month
  is. Which months are workable depends on where the business operates,
  so tables are looked up by region key or by US zip code.

KEY CONCEPTS:
  - Region: A key ("northeast"), a display name, twelve scores and the
    3-digit zip prefixes it covers
  - StaticProvider: An immutable, in-memory generic.SeasonalityProvider
    and generic.ZipResolver built from region definitions
  - Default: The embedded dataset (regions.yaml)

ZIP LOOKUP:
  Only the first three digits of a zip code matter. Prefix ranges are
  inclusive ("010-199"). A zip outside every range has no seasonal data,
  which the engine treats as a constant multiplier of 1.

SEE ALSO:
  - file.go: YAML loading
  - generic/seasonality.go: SeasonalityTable, SeasonalityProvider
  - store/sqlite/regions.go: The same tables persisted in the database
*/
package seasonality

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/warp/roi-engine/generic"
)

// zipRange is an inclusive range of 3-digit zip prefixes.
type zipRange struct {
	from, to int
	region   string
}

// StaticProvider serves a fixed set of regions. Safe for concurrent use:
// nothing changes after construction.
type StaticProvider struct {
	tables map[string]*generic.SeasonalityTable
	zips   []zipRange
}

var _ generic.SeasonalityProvider = (*StaticProvider)(nil)
var _ generic.ZipResolver = (*StaticProvider)(nil)

// NewStaticProvider validates the definitions and indexes them by key.
func NewStaticProvider(regions []Region) (*StaticProvider, error) {
	p := &StaticProvider{tables: make(map[string]*generic.SeasonalityTable, len(regions))}

	for _, r := range regions {
		key := normalizeKey(r.Key)
		if key == "" {
			return nil, fmt.Errorf("%w: region without a key", generic.ErrInvalidSeasonality)
		}
		if _, dup := p.tables[key]; dup {
			return nil, fmt.Errorf("%w: duplicate region %q", generic.ErrInvalidSeasonality, key)
		}

		table, err := r.Table()
		if err != nil {
			return nil, err
		}
		p.tables[key] = table

		for _, spec := range r.ZipPrefixes {
			zr, err := parseZipRange(spec)
			if err != nil {
				return nil, fmt.Errorf("region %q: %w", key, err)
			}
			zr.region = key
			p.zips = append(p.zips, zr)
		}
	}

	sort.Slice(p.zips, func(i, j int) bool { return p.zips[i].from < p.zips[j].from })
	return p, nil
}

// Lookup returns a copy of the region's table. A zip code works as a key too.
func (p *StaticProvider) Lookup(region string) (*generic.SeasonalityTable, bool) {
	key := normalizeKey(region)
	if t, ok := p.tables[key]; ok {
		return t.Clone(), true
	}
	if byZip, ok := p.RegionForZip(key); ok {
		return p.tables[byZip].Clone(), true
	}
	return nil, false
}

// Regions lists the region keys, sorted.
func (p *StaticProvider) Regions() []string {
	keys := make([]string, 0, len(p.tables))
	for k := range p.tables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tables returns copies of every table, ordered by key.
func (p *StaticProvider) Tables() []*generic.SeasonalityTable {
	keys := p.Regions()
	out := make([]*generic.SeasonalityTable, len(keys))
	for i, k := range keys {
		out[i] = p.tables[k].Clone()
	}
	return out
}

// RegionForZip maps a zip code (5 digits, ZIP+4, or a bare 3-digit
// prefix) to its region key.
func (p *StaticProvider) RegionForZip(zip string) (string, bool) {
	prefix, ok := zipPrefix(zip)
	if !ok {
		return "", false
	}
	for _, zr := range p.zips {
		if prefix >= zr.from && prefix <= zr.to {
			return zr.region, true
		}
	}
	return "", false
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func zipPrefix(zip string) (int, bool) {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i >= 0 {
		zip = zip[:i]
	}
	if len(zip) != 3 && len(zip) != 5 {
		return 0, false
	}
	n, err := strconv.Atoi(zip[:3])
	if err != nil || n < 0 {
		return 0, false
	}
	for _, c := range zip {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	return n, true
}

func parseZipRange(spec string) (zipRange, error) {
	from, to, found := strings.Cut(strings.TrimSpace(spec), "-")
	if !found {
		to = from
	}
	a, errA := strconv.Atoi(strings.TrimSpace(from))
	b, errB := strconv.Atoi(strings.TrimSpace(to))
	if errA != nil || errB != nil || a < 0 || b > 999 || a > b {
		return zipRange{}, fmt.Errorf("%w: bad zip prefix range %q", generic.ErrInvalidSeasonality, spec)
	}
	return zipRange{from: a, to: b}, nil
}
