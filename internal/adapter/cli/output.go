package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"fasting/internal/domain"
)

// emit writes v as JSON in JSON mode, or calls text otherwise.
func (a *App) emit(v any, text func(w io.Writer) error) error {
	if a.json {
		return writeJSON(a.out, v)
	}
	return text(a.out)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func (a *App) clockTime(t time.Time) string {
	return t.In(a.loc).Format("Mon Jan 2 15:04")
}

func (a *App) day(t time.Time) string {
	return t.In(a.loc).Format("2006-01-02")
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

func fmtWeight(v float64, u domain.Unit) string {
	return fmt.Sprintf("%.1f %s", v, u)
}
