package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"ripple/internal/driver"
	"ripple/internal/model"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <file.yaml>",
	Short: "Print the declarations a document adds to the model",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().Bool("raw", false, "also dump the decoded document tree")
	dumpCmd.Flags().Int("depth", 6, "nesting limit for --raw")
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return fmt.Errorf("failed to get raw flag: %w", err)
	}
	depth, err := cmd.Flags().GetInt("depth")
	if err != nil {
		return fmt.Errorf("failed to get depth flag: %w", err)
	}
	tracer, cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg.Verifier.Jobs = 1
	result, err := driver.Check(cmd.Context(), args, driver.Options{Config: cfg, Tracer: tracer})
	if err != nil {
		return err
	}
	r := &result.Files[0]
	if r.Err != nil {
		return r.Err
	}
	out := cmd.OutOrStdout()
	file := r.Builder.Files.Get(r.Program.File)
	dumpPackage(out, r.Model, r.Model.Global, builtinNames())
	if fr := r.Model.Frames.Get(file.Sem.Frame); fr != nil {
		dumpProps(out, r.Model, "", fr.Props, nil)
	}
	if raw {
		fmt.Fprintln(out, "\n== DOCUMENT ==")
		sc := spew.ConfigState{Indent: "  ", MaxDepth: depth, DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		sc.Fdump(out, file)
	}
	return nil
}

// builtinNames lists what a fresh model declares globally so the dump
// shows only what the document added.
func builtinNames() map[string]bool {
	names := make(map[string]bool)
	for _, n := range model.New().Global.Props.Names() {
		names[n] = true
	}
	return names
}

func dumpPackage(out io.Writer, m *model.Model, p *model.Package, skip map[string]bool) {
	dumpProps(out, m, p.Path, p.Props, skip)
	p.Subs.Each(func(_ string, sym model.Symbol) {
		if sub, ok := sym.(*model.Package); ok {
			dumpPackage(out, m, sub, nil)
		}
	})
}

func dumpProps(out io.Writer, m *model.Model, prefix string, props *model.Properties, skip map[string]bool) {
	props.Each(func(name string, sym model.Symbol) {
		if skip[name] {
			return
		}
		qualified := name
		if prefix != "" {
			qualified = prefix + "." + name
		}
		fmt.Fprintf(out, "%-24s %s\n", qualified, describe(m, sym))
	})
}

func describe(m *model.Model, sym model.Symbol) string {
	switch s := sym.(type) {
	case model.TypeID:
		return "type " + m.TypeLabel(s)
	case *model.Alias:
		if s.Target == nil {
			return "alias (unresolved)"
		}
		return "alias of " + describe(m, s.Target)
	case *model.Namespace:
		return fmt.Sprintf("namespace (%d members)", s.Props.Len())
	case *model.Package:
		return "package " + s.Path
	case *model.VariableSlot:
		return "var " + m.TypeLabel(m.TypeOf(s))
	case *model.MethodSlot:
		return "function " + m.TypeLabel(m.TypeOf(s))
	case *model.VirtualSlot:
		return "property " + m.TypeLabel(m.TypeOf(s))
	case *model.Constant:
		return "const " + m.TypeLabel(m.TypeOf(s))
	}
	return fmt.Sprintf("%T", sym)
}
