package postgres

import (
	"fmt"
	"strings"
)

// Where collects AND-ed conditions with $n placeholders. Each format string
// refers to its own argument as %[1]d, so it may be repeated.
type Where struct {
	conds []string
	Args  []any
}

func (w *Where) Add(format string, arg any) {
	w.Args = append(w.Args, arg)
	w.conds = append(w.conds, fmt.Sprintf(format, len(w.Args)))
}

// Placeholder registers arg without a condition (LIMIT, OFFSET, SET values).
func (w *Where) Placeholder(arg any) string {
	w.Args = append(w.Args, arg)
	return fmt.Sprintf("$%d", len(w.Args))
}

func (w *Where) SQL() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// Like wraps s for an ILIKE match, escaping the pattern metacharacters.
func Like(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
