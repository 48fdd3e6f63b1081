// Package driver verifies program documents end to end: it loads each
// document with its includes, runs the verifier against a private model
// and collects the diagnostics. Documents are independent and are checked
// concurrently.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ripple/internal/ast"
	"ripple/internal/config"
	"ripple/internal/diag"
	"ripple/internal/fixture"
	"ripple/internal/model"
	"ripple/internal/observ"
	"ripple/internal/source"
	"ripple/internal/trace"
	"ripple/internal/verifier"
)

type Options struct {
	Config config.Config
	Tracer trace.Tracer
	// Timer collects per-document load and verify durations; nil
	// disables timing.
	Timer *observ.Timer
	// Cache, when set, short-circuits documents whose inputs were
	// verified before. Cached results carry no Model.
	Cache *DiskCache
	// Progress receives per-document events; nil disables them.
	Progress ProgressSink
}

// Result is the outcome of one Check call.
type Result struct {
	RunID string
	Files []FileResult
}

// FileResult is the outcome of one document. Err is set when the document
// could not be read or parsed as YAML; everything else is a diagnostic.
type FileResult struct {
	Path    string
	FileSet *source.FileSet
	Builder *ast.Builder
	Program *fixture.Program
	Model   *model.Model

	Diagnostics []diag.Diagnostic
	Valid       bool
	Cached      bool
	Digest      Digest

	// Missing and Unexpected compare Diagnostics with the document's
	// expect list.
	Missing    []diag.Code
	Unexpected []diag.Code

	Err error
}

// Passed reports whether the document met its expectations, or verified
// cleanly when it declares none.
func (r *FileResult) Passed() bool {
	if r.Err != nil {
		return false
	}
	if r.Program != nil && r.Program.HasExpect {
		return len(r.Missing) == 0 && len(r.Unexpected) == 0
	}
	return r.Valid
}

// Failed counts the documents that did not pass.
func (r *Result) Failed() int {
	n := 0
	for i := range r.Files {
		if !r.Files[i].Passed() {
			n++
		}
	}
	return n
}

// Collect expands directories into the documents they contain, sorted.
// Files named explicitly are kept even without a YAML extension.
func Collect(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if path == p || isDocument(path) {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", p, err)
		}
	}
	sort.Strings(out)
	return out, nil
}

func isDocument(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Check verifies every path. A cancelled context stops scheduling new
// documents and is returned as the error. Without Options.Tracer the
// tracer carried by ctx is used.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Tracer == nil {
		opts.Tracer = trace.FromContext(ctx)
	}
	run := uuid.NewString()
	span := trace.BeginRun(opts.Tracer, trace.ScopeDriver, "check", 0, run)

	results := make([]FileResult, len(paths))
	jobs := opts.Config.Verifier.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, path := range paths {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(path, opts, run, span.ID())
			return nil
		})
	}
	err := g.Wait()
	span.End(fmt.Sprintf("%d documents", len(paths)))
	if err != nil {
		return nil, err
	}
	return &Result{RunID: run, Files: results}, nil
}

func checkFile(path string, opts Options, run string, parent uint64) FileResult {
	res := FileResult{Path: path}
	span := trace.BeginRun(opts.Tracer, trace.ScopeFile, path, parent, run)
	start := time.Now()
	defer func() {
		emit(opts.Progress, Event{File: path, Status: finalStatus(&res), Err: res.Err, Elapsed: time.Since(start)})
		span.End(outcome(&res))
	}()
	cfg := opts.Config.Verifier
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})

	res.FileSet = source.NewFileSet()
	res.Builder = ast.NewBuilder(ast.Hints{})
	loader := fixture.NewLoader(res.FileSet, res.Builder, cfg.MaxDiagnostics)
	var err error
	timed(opts.Timer, "load "+path, func() {
		res.Program, err = loader.Load(path)
	})
	if err != nil {
		res.Err = err
		return res
	}

	res.Digest = digestOf(res.FileSet, cfg)
	var payload DiskPayload
	if ok, err := opts.Cache.Get(res.Digest, &payload); err != nil {
		trace.Point(opts.Tracer, trace.ScopeFile, "cache", err.Error(), span.ID())
	} else if ok {
		res.Cached = true
		res.finish(payload.diagnostics(), cfg)
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageVerify, Status: StatusWorking})
	res.Model = model.New()
	v := verifier.New(res.Builder, verifier.Options{
		Tracer:          opts.Tracer,
		FixedPointBound: cfg.FixedPointBound,
		Model:           res.Model,
		Run:             run,
		ParentSpan:      span.ID(),

		AllowDuplicateBindings: cfg.AllowDuplicateBindings,
	})
	timed(opts.Timer, "verify "+path, func() {
		v.Verify([]verifier.Program{{File: res.Program.File, Unit: res.Program.Unit}})
	})
	diags := res.Program.Unit.All()
	if err := opts.Cache.Put(res.Digest, toPayload(path, diags)); err != nil {
		trace.Point(opts.Tracer, trace.ScopeFile, "cache", err.Error(), span.ID())
	}
	res.finish(diags, cfg)
	return res
}

// finish sorts the diagnostics, applies warnings_as_errors and compares
// against the expect list. Expectations see the original severities.
func (r *FileResult) finish(diags []diag.Diagnostic, cfg config.VerifierConfig) {
	r.Missing, r.Unexpected = r.Program.Mismatch(diags)

	bag := diag.NewBag(0)
	for _, d := range diags {
		bag.Add(d)
	}
	if cfg.WarningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevVerifyError
			}
			return d
		})
	}
	bag.Sort()
	bag.Dedup()
	r.Diagnostics = bag.Items()
	r.Valid = !bag.HasErrors()
}

func timed(t *observ.Timer, name string, fn func()) {
	if t == nil {
		fn()
		return
	}
	idx := t.Begin(name)
	fn()
	t.End(idx, "")
}

func outcome(r *FileResult) string {
	switch {
	case r.Err != nil:
		return "error: " + r.Err.Error()
	case r.Cached:
		return "cached"
	case r.Passed():
		return "passed"
	}
	return "failed"
}
