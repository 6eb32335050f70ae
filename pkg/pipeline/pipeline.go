// Package pipeline provides the decode → search → emit pipeline shared by
// the CLI and the HTTP API.
//
// This package centralizes the steps every surface performs: parse a graph
// from one of the supported encodings, run the engine, and turn the result
// into output artifacts (canonical encodings, group summaries, catalog
// records). Centralizing the logic keeps CLI and API behavior identical.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Decode: parse graph6/sparse6/digraph6/JSON input
//  2. Search: run the automorphism/canonical-labeling engine
//  3. Emit: canonical encoding, group summary, optional catalog record
//
// Each stage can be run independently or as part of the complete pipeline.
// Stage boundaries emit observability events and honor context
// cancellation; the engine itself is single-threaded and is cancelled
// through its cooperative abort flag.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/isoclass/isoclass/pkg/autom"
	"github.com/isoclass/isoclass/pkg/catalog"
	"github.com/isoclass/isoclass/pkg/colored"
	apperrors "github.com/isoclass/isoclass/pkg/errors"
	"github.com/isoclass/isoclass/pkg/gcode"
	"github.com/isoclass/isoclass/pkg/graph"
	"github.com/isoclass/isoclass/pkg/observability"
	"github.com/isoclass/isoclass/pkg/partition"
	"github.com/isoclass/isoclass/pkg/perm"
)

// Options selects pipeline behavior.
type Options struct {
	// Canonical requests the canonical encoding artifact.
	Canonical bool

	// Exact requests the exact Schreier-Sims group order.
	Exact bool

	// Sparse selects the sparse engine.
	Sparse bool

	// Seed seeds the Schreier-Sims products; zero uses the default.
	Seed int64

	// Hooks are passed through to the engine; useful for live progress.
	Hooks autom.Hooks

	// Store, when non-nil, receives a catalog record per processed graph.
	Store catalog.Store
}

// Result aggregates the pipeline output for one graph.
type Result struct {
	RunID     string
	Doc       gcode.Doc
	Search    *autom.Result
	Canonical []byte          // canonical graph6/digraph6, when requested
	Record    *catalog.Record // stored record, when a store is configured
	Elapsed   time.Duration
}

// Runner executes the pipeline. It is stateless except for the logger, so
// one Runner can serve concurrent requests.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default().
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs decode → search → emit on raw input bytes.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	doc, err := gcode.DecodeAuto(input)
	if err != nil {
		return nil, classify(err)
	}
	return r.Run(ctx, doc, opts)
}

// Run executes search → emit on a decoded document.
func (r *Runner) Run(ctx context.Context, doc gcode.Doc, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	start := time.Now()
	observability.Search().OnSearchStart(ctx, runID, doc.N)
	r.Logger.Debug("search start", "run", runID, "n", doc.N, "edges", len(doc.Edges))

	res, err := r.search(ctx, doc, opts)
	observability.Search().OnSearchComplete(ctx, runID, statNodes(res), statGens(res), time.Since(start), err)
	if err != nil {
		return nil, classify(err)
	}
	if res.Status == autom.StatusAborted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("search aborted")
	}

	out := &Result{RunID: runID, Doc: doc, Search: res, Elapsed: time.Since(start)}

	if opts.Canonical {
		canon, err := canonicalEncoding(doc, res)
		if err != nil {
			return nil, err
		}
		out.Canonical = canon
	}

	if opts.Store != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.storeRecord(ctx, doc, res, out.Canonical, opts)
		if err != nil {
			return nil, err
		}
		out.Record = rec
	}

	r.Logger.Debug("search done", "run", runID,
		"nodes", statNodes(res), "generators", statGens(res), "elapsed", out.Elapsed)
	return out, nil
}

// search runs the engine on the selected store with the document's
// coloring installed as the initial partition. Documents with edge labels
// are first reduced to a plain digraph with intermediate label vertices;
// their results are mapped back onto the original vertex set.
func (r *Runner) search(ctx context.Context, doc gcode.Doc, opts Options) (*autom.Result, error) {
	engineOpts := &autom.Options{
		GetCanon: opts.Canonical || opts.Store != nil,
		Exact:    opts.Exact,
		Seed:     opts.Seed,
		Hooks:    opts.Hooks,
	}

	// Cancellation between refinement and recursion via the abort flag.
	if ctx.Done() != nil {
		flag := &autom.AbortFlag{}
		engineOpts.Abort = flag
		prev := engineOpts.Hooks.OnNode
		engineOpts.Hooks.OnNode = func(level, tcSize int) {
			if ctx.Err() != nil {
				flag.Set()
			}
			if prev != nil {
				prev(level, tcSize)
			}
		}
	}

	if doc.HasLabels() {
		return r.searchLabeled(doc, opts, engineOpts)
	}

	if doc.Colors != nil {
		p, err := partition.FromColors(doc.N, doc.Colors)
		if err != nil {
			return nil, err
		}
		engineOpts.Lab = p.Lab
		engineOpts.Ptn = p.Ptn
	}

	if opts.Sparse {
		g, err := doc.ToSparse()
		if err != nil {
			return nil, err
		}
		return autom.Sparse(g, engineOpts)
	}
	g, err := doc.ToDense()
	if err != nil {
		return nil, err
	}
	return autom.Dense(g, engineOpts)
}

// searchLabeled reduces an edge-labeled document, runs the engine on the
// reduced digraph, and restricts the result to the original vertices.
func (r *Runner) searchLabeled(doc gcode.Doc, opts Options, engineOpts *autom.Options) (*autom.Result, error) {
	cg := colored.Graph{N: doc.N, Directed: doc.Directed}
	if doc.Colors != nil {
		cg.Colors = make([]string, doc.N)
		for v, c := range doc.Colors {
			cg.Colors[v] = strconv.Itoa(c)
		}
	}
	for i, e := range doc.Edges {
		cg.Edges = append(cg.Edges, colored.Edge{U: e[0], V: e[1], Label: doc.Labels[i]})
	}

	red, err := colored.Reduce(cg)
	if err != nil {
		return nil, err
	}
	engineOpts.Lab = red.Lab
	engineOpts.Ptn = red.Ptn

	var res *autom.Result
	if opts.Sparse {
		res, err = autom.Sparse(graph.DenseToSparse(red.Dense), engineOpts)
	} else {
		res, err = autom.Dense(red.Dense, engineOpts)
	}
	if err != nil {
		return nil, err
	}
	return restrictToOriginals(res, red), nil
}

// restrictToOriginals maps a reduced-graph result back onto the original
// vertex set: generators and the canonical labeling are restricted, and
// the orbit structure is projected (original vertices only ever share
// orbits with original vertices). The group size and exact order carry
// over unchanged: an automorphism of the reduced graph is determined by
// its action on the original vertices. The canonical graphs stay those of
// the reduced digraph, which is what canonical encodings and catalog keys
// are derived from.
func restrictToOriginals(res *autom.Result, red *colored.Reduced) *autom.Result {
	out := *res

	gens := make([]perm.Perm, len(res.Generators))
	for i, g := range res.Generators {
		gens[i] = red.Restrict(g)
	}
	out.Generators = gens

	orbits := perm.NewOrbits(red.Orig)
	count := 0
	for i := 0; i < red.Orig; i++ {
		orbits[i] = res.Orbits.Find(i)
		if orbits[i] == i {
			count++
		}
	}
	out.Orbits = orbits
	out.NumOrbits = count

	if res.CanonPerm != nil {
		out.CanonPerm = red.RestrictLabeling(res.CanonPerm)
	}
	return &out
}

// canonicalEncoding renders the canonical graph in the format matching the
// document's directedness.
func canonicalEncoding(doc gcode.Doc, res *autom.Result) ([]byte, error) {
	var canon *graph.Dense
	switch {
	case res.CanonDense != nil:
		canon = res.CanonDense
	case res.CanonSparse != nil:
		canon = res.CanonSparse.ToDense()
	default:
		return nil, fmt.Errorf("engine returned no canonical graph")
	}
	// Labeled documents canonicalize through the reduced digraph.
	if doc.Directed || doc.HasLabels() {
		return gcode.EncodeDigraph6(canon), nil
	}
	return gcode.EncodeGraph6(canon), nil
}

// storeRecord writes the graph's isomorphism class into the catalog.
func (r *Runner) storeRecord(ctx context.Context, doc gcode.Doc, res *autom.Result, canon []byte, opts Options) (*catalog.Record, error) {
	if canon == nil {
		var err error
		canon, err = canonicalEncoding(doc, res)
		if err != nil {
			return nil, err
		}
	}

	rec := catalog.NewRecord(canon, doc.N, len(doc.Edges))
	rec.Orbits = res.NumOrbits
	rec.GroupOrder = groupOrderString(res)

	key := rec.Key
	if existing, err := opts.Store.Get(ctx, key); err == nil {
		observability.Store().OnStoreHit(ctx, "catalog")
		return existing, nil
	} else if !errors.Is(err, catalog.ErrNotFound) {
		return nil, err
	}
	observability.Store().OnStoreMiss(ctx, "catalog")

	if err := opts.Store.Put(ctx, rec); err != nil {
		return nil, err
	}
	observability.Store().OnStorePut(ctx, "catalog", len(rec.Canonical))
	return rec, nil
}

// classify wraps the engine's and decoders' sentinel errors with the
// structured codes the surfaces dispatch on: decoder failures are
// PARSE_ERROR, bad edges and colorings are INVALID_INPUT, malformed
// partitions INVALID_PARTITION, non-permutations INVALID_PERMUTATION, and
// an out-of-range vertex count is CAPACITY. Errors already carrying a code
// and unrecognized errors pass through unchanged.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.GetCode(err) != "":
		return err
	case errors.Is(err, gcode.ErrParse):
		return apperrors.Wrap(apperrors.ErrCodeParse, err, "decode graph")
	case errors.Is(err, graph.ErrOrderRange):
		return apperrors.Wrap(apperrors.ErrCodeCapacity, err, "vertex count out of range")
	case errors.Is(err, graph.ErrVertexRange):
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid edge endpoint")
	case errors.Is(err, partition.ErrBadPartition):
		return apperrors.Wrap(apperrors.ErrCodeInvalidPartition, err, "invalid initial partition")
	case errors.Is(err, partition.ErrBadColoring):
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid coloring")
	case errors.Is(err, colored.ErrBadGraph):
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid labeled graph")
	case errors.Is(err, perm.ErrNotPermutation):
		return apperrors.Wrap(apperrors.ErrCodeInvalidPerm, err, "invalid permutation")
	default:
		return err
	}
}

// groupOrderString renders the group order: the exact big integer when
// available, otherwise the mantissa-exponent form.
func groupOrderString(res *autom.Result) string {
	if res.ExactOrder != nil {
		return res.ExactOrder.String()
	}
	f := res.GroupSize.Float()
	if f == float64(int64(f)) && f < 1e15 {
		return big.NewInt(int64(f)).String()
	}
	return fmt.Sprintf("%ge%d", res.GroupSize.Mantissa, res.GroupSize.Exponent)
}

// GeneratorStrings renders generators in cycle notation for display.
func GeneratorStrings(gens []perm.Perm) []string {
	out := make([]string, len(gens))
	for i, g := range gens {
		out[i] = g.String()
	}
	return out
}

func statNodes(res *autom.Result) int {
	if res == nil {
		return 0
	}
	return res.Stats.Nodes
}

func statGens(res *autom.Result) int {
	if res == nil {
		return 0
	}
	return len(res.Generators)
}
