package ui

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

var columnTitles = map[SortField]string{
	SortID:        "ID",
	SortName:      "NAME",
	SortPrice:     "PRICE",
	SortCreatedAt: "CREATED AT",
	SortUpdatedAt: "UPDATED AT",
}

// Render writes the banner, the product table and the pending delete prompt.
func Render(w io.Writer, st State) error {
	ew := &errWriter{w: w}

	if st.Loading {
		ew.printf("Loading...\n")
	}
	if st.Message != nil {
		label := "OK"
		if st.Message.Kind == MessageError {
			label = "ERROR"
		}
		ew.printf("[%s] %s\n", label, st.Message.Text)
	}
	if st.Search != "" {
		ew.printf("Search: %q (%d of %d products)\n", st.Search, len(st.View), len(st.Products))
	}

	tw := tabwriter.NewWriter(ew, 0, 4, 2, ' ', 0)
	for i, field := range SortFields {
		sep := "\t"
		if i == len(SortFields)-1 {
			sep = "\n"
		}
		fmt.Fprintf(tw, "%s %s%s", columnTitles[field], sortIcon(st, field), sep)
	}
	for _, p := range st.View {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			p.Price.StringFixed(2),
			p.CreatedAt.Local().Format(time.DateTime),
			p.UpdatedAt.Local().Format(time.DateTime))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(st.View) == 0 {
		if len(st.Products) == 0 {
			ew.printf("No products yet.\n")
		} else {
			ew.printf("No products match the search.\n")
		}
	}

	if st.PendingDelete != nil {
		ew.printf("Delete %q (#%d)? [y/N] ", st.PendingDelete.Name, st.PendingDelete.ID)
	}
	return ew.err
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func (e *errWriter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(e, format, args...)
}
