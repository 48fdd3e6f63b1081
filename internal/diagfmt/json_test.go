package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"ripple/internal/diag"
	"ripple/internal/source"
)

func sampleDiagnostics(id source.FileID) []diag.Diagnostic {
	return []diag.Diagnostic{
		diag.NewError(diag.VerifyIncompatibleTypes, source.Span{File: id, Start: 16, End: 17},
			diag.Args{"expected": "String", "got": "Number"}).
			WithNote(source.Span{File: id, Start: 0, End: 5}, "declared here"),
		diag.New(diag.SevWarning, diag.WarnMissingTypeAnnotation, source.Span{File: id, Start: 16, End: 17}, diag.Args{"name": "x"}),
	}
}

func TestJSONOutput(t *testing.T) {
	fs, id := fixtureSet(t)
	var buf bytes.Buffer
	err := JSON(&buf, sampleDiagnostics(id), fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || len(out.Diagnostics) != 2 {
		t.Fatalf("count = %d, len = %d", out.Count, len(out.Diagnostics))
	}
	first := out.Diagnostics[0]
	if first.Severity != "VERIFY ERROR" || first.Code != "VER3100" {
		t.Fatalf("unexpected head %+v", first)
	}
	if first.Message != "expected 'String', got 'Number'" {
		t.Fatalf("message = %q", first.Message)
	}
	if first.Args["got"] != "Number" {
		t.Fatalf("args = %v", first.Args)
	}
	loc := first.Location
	if loc.File != "assign.yaml" || loc.StartLine != 2 || loc.StartCol != 10 || loc.EndCol != 11 {
		t.Fatalf("location = %+v", loc)
	}
	if len(first.Notes) != 1 || first.Notes[0].Message != "declared here" || first.Notes[0].Location.StartLine != 1 {
		t.Fatalf("notes = %+v", first.Notes)
	}
	if out.Diagnostics[1].Severity != "WARNING" {
		t.Fatalf("second severity = %q", out.Diagnostics[1].Severity)
	}
}

func TestJSONOptions(t *testing.T) {
	fs, id := fixtureSet(t)
	out := BuildDiagnosticsOutput(sampleDiagnostics(id), fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("Max not applied: %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Location.StartLine != 0 || d.Location.StartByte != 16 {
		t.Fatalf("positions leaked without IncludePositions: %+v", d.Location)
	}
	if len(d.Notes) != 0 {
		t.Fatalf("notes leaked without IncludeNotes: %+v", d.Notes)
	}
}

func TestSarifOutput(t *testing.T) {
	fs, id := fixtureSet(t)
	var buf bytes.Buffer
	meta := SarifRunMeta{ToolName: "ripple", ToolVersion: "test", InvocationArgs: []string{"check", "cases"}}
	if err := Sarif(&buf, []SarifInput{{Diagnostics: sampleDiagnostics(id), FileSet: fs}}, meta); err != nil {
		t.Fatalf("Sarif: %v", err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("bad envelope: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "ripple" || len(run.Tool.Driver.Rules) != 2 {
		t.Fatalf("driver = %+v", run.Tool.Driver)
	}
	if len(run.Results) != 2 || run.Results[0].Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("results = %+v", run.Results)
	}
	region := run.Results[0].Locations[0].PhysicalLocation.Region
	if region.StartLine != 2 || region.StartColumn != 10 {
		t.Fatalf("region = %+v", region)
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("run with errors reported as successful")
	}
}
