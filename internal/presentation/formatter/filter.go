package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-run-history/internal/core/filter"
	"github.com/penwyp/go-run-history/internal/core/model"
)

// Selection is the outcome of opening one history entry.
type Selection struct {
	View       filter.ViewKind     `json:"view"`
	Predicates filter.PredicateSet `json:"predicates"`
	State      filter.State        `json:"state"`
	Hash       string              `json:"hash"`
}

// FilterFormatter writes a selection for humans or as JSON.
type FilterFormatter struct {
	asJSON bool
}

func NewFilterFormatter(asJSON bool) *FilterFormatter {
	return &FilterFormatter{asJSON: asJSON}
}

func (f *FilterFormatter) Format(w io.Writer, sel Selection) error {
	if f.asJSON {
		data, err := sonic.MarshalIndent(sel, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "View:       %s\n", sel.View)
	switch p := sel.Predicates.(type) {
	case filter.IncrementalView:
		fmt.Fprintf(&b, "Run:        %s\n", p.RunName)
		fmt.Fprintf(&b, "Statuses:   %s\n", joinStatuses(p.Statuses))
		fmt.Fprintf(&b, "Detected:   %s\n", p.DetectionDate)
	case filter.SnapshotView:
		fmt.Fprintf(&b, "Tag:        %s\n", p.Tag)
	}
	if query := sel.State.Values().Encode(); query != "" {
		fmt.Fprintf(&b, "Query:      %s\n", query)
	}
	fmt.Fprintf(&b, "Hash:       %s\n", sel.Hash)

	_, err := io.WriteString(w, b.String())
	return err
}

func joinStatuses(statuses []model.DetectionStatus) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
