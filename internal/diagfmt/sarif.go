package diagfmt

import (
	"encoding/json"
	"io"

	"ripple/internal/diag"
	"ripple/internal/source"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
}

// SarifInput is one document's diagnostics with the file set that
// resolves their spans.
type SarifInput struct {
	Diagnostics []diag.Diagnostic
	FileSet     *source.FileSet
}

// Sarif writes diagnostics as a SARIF 2.1.0 log with one run. Each
// distinct code becomes a rule.
func Sarif(w io.Writer, inputs []SarifInput, meta SarifRunMeta) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion}},
		Results: []sarifResult{},
	}
	seen := make(map[diag.Code]bool)
	failed := false
	for _, in := range inputs {
		for _, d := range in.Diagnostics {
			res, isErr := sarifResultOf(d, in.FileSet)
			failed = failed || isErr
			if !seen[d.Code] {
				seen[d.Code] = true
				run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
					ID:               d.Code.ID(),
					ShortDescription: sarifMessage{Text: d.Code.Title()},
				})
			}
			run.Results = append(run.Results, res)
		}
	}
	run.Invocations = []sarifInvocation{{Arguments: meta.InvocationArgs, ExecutionSuccessful: !failed}}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}})
}

func sarifResultOf(d diag.Diagnostic, fs *source.FileSet) (sarifResult, bool) {
	level := "warning"
	if d.Severity.IsError() {
		level = "error"
	}
	res := sarifResult{RuleID: d.Code.ID(), Level: level, Message: sarifMessage{Text: d.Message()}}
	if f := fs.Get(d.Primary.File); f != nil {
		start, end := fs.Resolve(d.Primary)
		res.Locations = []sarifLocation{{PhysicalLocation: sarifPhysical{
			ArtifactLocation: sarifArtifact{URI: f.Path},
			Region: sarifRegion{
				StartLine: start.Line, StartColumn: start.Col,
				EndLine: end.Line, EndColumn: end.Col,
			},
		}}}
	}
	return res, d.Severity.IsError()
}
