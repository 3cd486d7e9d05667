package herbarium

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/herbarium/pkg/herbarium/catalog"
	"github.com/cognicore/herbarium/pkg/herbarium/internalerr"
	"github.com/cognicore/herbarium/pkg/herbarium/merge"
	"github.com/cognicore/herbarium/pkg/herbarium/mine"
	"github.com/cognicore/herbarium/pkg/herbarium/source"
	"github.com/cognicore/herbarium/pkg/herbarium/transform"
)

// Herbarium is the extraction pipeline facade: read, mine, transform,
// merge, write.
type Herbarium struct {
	source  source.Reader
	catalog catalog.Store
	xform   *transform.Transformer
	log     *slog.Logger
	dryRun  bool
}

// Options configures a Herbarium instance
type Options struct {
	Source  source.Reader
	Catalog catalog.Store
	Miner   *mine.Miner // nil uses the built-in rules
	Logger  *slog.Logger
	DryRun  bool // run everything but skip the final write
}

// New creates a Herbarium instance with the given dependencies
func New(opts Options) *Herbarium {
	m := opts.Miner
	if m == nil {
		m = mine.NewDefault()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Herbarium{
		source:  opts.Source,
		catalog: opts.Catalog,
		xform:   transform.New(m),
		log:     log,
		dryRun:  opts.DryRun,
	}
}

// Close releases the source.
func (h *Herbarium) Close() error {
	return h.source.Close()
}

// Result summarizes one run.
type Result struct {
	RunID   string
	Rows    int
	Merge   merge.Stats
	Catalog catalog.Stats
	Written bool
}

// Run executes the pipeline once. A source failure aborts the run before
// the catalog is touched; a missing or unreadable existing catalog is
// replaced by an empty one by the store.
func (h *Herbarium) Run(ctx context.Context) (*Result, error) {
	if h.source == nil || h.catalog == nil {
		return nil, fmt.Errorf("%w: source and catalog store are required", internalerr.ErrInvalidConfig)
	}

	res := &Result{RunID: ulid.Make().String()}
	log := h.log.With("run_id", res.RunID)

	log.Info("extracting medicinal plants")
	rows, err := h.source.ReadPlants(ctx)
	if err != nil {
		return nil, fmt.Errorf("read plants: %w", err)
	}
	res.Rows = len(rows)
	log.Info("found medicinal plants", "count", len(rows))

	candidates := h.xform.All(rows)

	existing, err := h.catalog.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	log.Info("loaded existing catalog", "herbs", existing.Len())

	merger := merge.New(existing)
	res.Merge = merger.Merge(candidates)
	merged := merger.Catalog()
	log.Info("merged catalog", "new", res.Merge.New, "enriched", res.Merge.Enriched, "total", merged.Len())
	if res.Merge.Skipped > 0 {
		log.Warn("candidates matched entries kept unchanged", "skipped", res.Merge.Skipped)
	}

	res.Catalog = merged.Summarize()

	if h.dryRun {
		log.Info("dry run, catalog not written")
		return res, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := h.catalog.Save(ctx, merged); err != nil {
		return nil, fmt.Errorf("save catalog: %w", err)
	}
	res.Written = true
	return res, nil
}

// WriteReport prints the run statistics as human-readable text.
func (r *Result) WriteReport(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"Merged results: %d new herbs added, %d existing herbs enriched\n\n"+
			"Statistics:\n"+
			"   Total herbs: %d\n"+
			"   With medicinal rating: %d\n"+
			"   Highly medicinal (rating >= 3): %d\n",
		r.Merge.New, r.Merge.Enriched,
		r.Catalog.Total, r.Catalog.Medicinal, r.Catalog.HighlyMedicinal)
	return err
}
