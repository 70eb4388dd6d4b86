package datasource

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/congressmap/pkg/congress"
	"github.com/vanderheijden86/congressmap/pkg/debug"
	"github.com/vanderheijden86/congressmap/pkg/geo"
	"github.com/vanderheijden86/congressmap/pkg/metrics"
)

// Bundle is everything the map needs to draw.
type Bundle struct {
	Features []geo.Feature
	Congress *congress.Congress
	Source   DataSource
}

// Load reads the geography and the congress data concurrently. The first
// failure cancels the other load.
func Load(ctx context.Context, geoPath, congressPath string) (*Bundle, error) {
	var b Bundle
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		features, err := geo.Load(geoPath)
		if err != nil {
			return fmt.Errorf("load geography: %w", err)
		}
		b.Features = features
		return nil
	})

	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c, src, err := LoadCongress(congressPath)
		if err != nil {
			return fmt.Errorf("load congress: %w", err)
		}
		b.Congress, b.Source = c, src
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	debug.Log("datasource: loaded %d features and %d members from %s",
		len(b.Features), len(b.Congress.MemberIDs()), b.Source)
	return &b, nil
}

// LoadCongress detects the source type of path and loads it with the
// matching reader.
func LoadCongress(path string) (*congress.Congress, DataSource, error) {
	defer metrics.Timer(metrics.CongressLoad)()

	src, err := Detect(path)
	if err != nil {
		return nil, DataSource{}, err
	}
	c, err := LoadFromSource(src)
	if err != nil {
		return nil, DataSource{}, err
	}
	return c, src, nil
}

// LoadFromSource loads congress data from a specific DataSource, dispatching
// to the appropriate reader based on source type.
func LoadFromSource(source DataSource) (*congress.Congress, error) {
	switch source.Type {
	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadCongress()

	case SourceTypeJSON:
		return congress.Load(source.Path)

	default:
		return nil, fmt.Errorf("unknown source type: %s", source.Type)
	}
}
