package verifier

import (
	"ripple/internal/ast"
	"ripple/internal/diag"
	"ripple/internal/model"
	"ripple/internal/trace"
)

// DefaultFixedPointBound is the number of silent directive resolution
// rounds before the reporting round.
const DefaultFixedPointBound = 9

// Options configure a verification run.
type Options struct {
	Tracer trace.Tracer
	// FixedPointBound overrides DefaultFixedPointBound when positive.
	FixedPointBound int
	// AllowDuplicateBindings lets a variable be declared again in the same
	// scope when the earlier declaration has the same type. Used to verify
	// partial programs that repeat built-in declarations.
	AllowDuplicateBindings bool
	// Model is the model to declare into; a fresh one is created if nil.
	Model *model.Model
	// Run and ParentSpan place the verifier's trace spans under a driver
	// run.
	Run        string
	ParentSpan uint64
}

// Program is one unit of input: the root file of a program and the unit
// its diagnostics go to.
type Program struct {
	File ast.FileID
	Unit *diag.Unit
}

// Verifier holds the state of one run. It is not safe for concurrent use.
type Verifier struct {
	b      *ast.Builder
	m      *model.Model
	tracer trace.Tracer
	bound  int
	run    string
	parent uint64

	units    []*diag.Unit
	unit     *diag.Unit
	frame    model.FrameID
	acts     []*activation
	pending  []*directive
	lazy     map[model.Symbol]*lazyDecl
	inFlight map[ast.ItemID]bool
	rootSpan uint64

	allowDuplicates bool
	redeclared      []redeclaration
}

// New prepares a verifier over the AST owned by b.
func New(b *ast.Builder, opts Options) *Verifier {
	m := opts.Model
	if m == nil {
		m = model.New()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.Nop
	}
	bound := opts.FixedPointBound
	if bound <= 0 {
		bound = DefaultFixedPointBound
	}
	v := &Verifier{
		b:        b,
		m:        m,
		tracer:   tracer,
		bound:    bound,
		run:      opts.Run,
		parent:   opts.ParentSpan,
		frame:    m.GlobalFrame,
		lazy:     make(map[model.Symbol]*lazyDecl),
		inFlight: make(map[ast.ItemID]bool),

		allowDuplicates: opts.AllowDuplicateBindings,
	}
	m.SetLazyResolver(v.resolveLazily)
	return v
}

// Model returns the model the verifier declares into.
func (v *Verifier) Model() *model.Model { return v.m }

// Verify runs every phase over programs. Packages of all programs are
// verified before any top-level statement.
func (v *Verifier) Verify(programs []Program) {
	if v.b == nil || len(programs) == 0 {
		return
	}
	var root *trace.Span
	if v.tracer.Enabled() {
		root = trace.BeginRun(v.tracer, trace.ScopePhase, "verify", v.parent, v.run)
		defer root.End("")
		v.rootSpan = root.ID()
	}

	var pkgs, tops []region
	for _, p := range programs {
		if p.Unit == nil {
			continue
		}
		v.units = append(v.units, p.Unit)
		file := v.b.Files.Get(p.File)
		if file == nil {
			continue
		}
		frame := v.m.Frames.New(model.FrameBlock, nil, nil)
		v.m.Frames.Claim(frame, v.m.GlobalFrame)
		file.Sem.Frame = frame
		v.collectPackages(file, p.Unit, &pkgs)
		tops = append(tops, region{frame: frame, unit: p.Unit, stmts: file.Stmts})
	}

	v.runPhases("packages", pkgs)
	v.runPhases("programs", tops)
	v.checkRedeclarations()
}

// AllProgramsAreValid reports whether no program, including included
// programs, collected an error.
func (v *Verifier) AllProgramsAreValid() bool {
	return diag.AllValid(v.units)
}

// collectPackages turns every package definition of file, and of files it
// includes at top level, into a region under a fresh package frame.
func (v *Verifier) collectPackages(file *ast.File, unit *diag.Unit, out *[]region) {
	for _, id := range file.Packages {
		item := v.b.Items.Get(id)
		pkg, ok := v.b.Items.Package(id)
		if !ok {
			continue
		}
		p := v.m.Package(pkg.Path, true)
		frame := v.m.Frames.New(model.FramePackage, p, p.Props)
		v.m.Frames.Claim(frame, v.m.GlobalFrame)
		item.Sem.Symbol = p
		item.Sem.Frame = frame
		*out = append(*out, region{frame: frame, unit: unit, stmts: pkg.Body})
	}
	for _, sid := range file.Stmts {
		inc, ok := v.b.Stmts.Include(sid)
		if !ok {
			continue
		}
		sub := v.b.Files.Get(inc.File)
		if sub == nil {
			continue
		}
		v.collectPackages(sub, v.includeUnit(sid, unit), out)
	}
}

// includeUnit returns the unit for the program included by stmt, creating
// it on first use.
func (v *Verifier) includeUnit(stmt ast.StmtID, parent *diag.Unit) *diag.Unit {
	inc, _ := v.b.Stmts.Include(stmt)
	for _, u := range parent.Includes() {
		if u.Path == inc.Path {
			return u
		}
	}
	file := v.b.Files.Get(inc.File)
	return parent.Include(inc.Path, file.Span.File)
}
