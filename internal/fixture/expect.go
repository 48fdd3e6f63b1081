package fixture

import (
	"slices"

	"ripple/internal/diag"
)

// Mismatch compares the codes in diags, normally the program's unit with
// its includes, against the expect list. Warnings take part only when their
// code is listed. Both results are sorted; they are empty when the program
// matched or declared no expectations.
func (p *Program) Mismatch(diags []diag.Diagnostic) (missing, unexpected []diag.Code) {
	if !p.HasExpect {
		return nil, nil
	}
	got := make(map[diag.Code]int)
	for _, d := range diags {
		if d.Severity.IsError() || slices.Contains(p.Expect, d.Code) {
			got[d.Code]++
		}
	}
	for _, c := range p.Expect {
		if got[c] > 0 {
			got[c]--
			continue
		}
		missing = append(missing, c)
	}
	for c, n := range got {
		for range n {
			unexpected = append(unexpected, c)
		}
	}
	slices.Sort(missing)
	slices.Sort(unexpected)
	return missing, unexpected
}
