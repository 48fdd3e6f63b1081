package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// Message expands the code template with d.Args. Unknown placeholders are
// kept verbatim so missing arguments stay visible.
func (d Diagnostic) Message() string {
	tmpl := d.Code.Template()
	if tmpl == "" || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '{' {
			b.WriteByte(tmpl[i])
			continue
		}
		end := strings.IndexByte(tmpl[i:], '}')
		if end < 0 {
			b.WriteString(tmpl[i:])
			break
		}
		name := tmpl[i+1 : i+end]
		if v, ok := d.Args[name]; ok {
			b.WriteString(formatArg(v))
		} else {
			b.WriteString(tmpl[i : i+end+1])
		}
		i += end
	}
	return b.String()
}

func formatArg(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
