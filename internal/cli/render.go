package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joacominatel/dbscope/internal/config"
	"github.com/joacominatel/dbscope/internal/database"
	"github.com/joacominatel/dbscope/internal/metadata"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderObjects(w io.Writer, objects []metadata.Object, format string) error {
	if format == FormatJSON {
		return renderJSON(w, objects)
	}
	if len(objects) == 0 {
		_, _ = fmt.Fprintln(w, "(no objects)")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Type"})
	for _, o := range objects {
		t.AppendRow(table.Row{o.Name, o.Type})
	}
	t.Render()
	return nil
}

func renderColumns(w io.Writer, columns []metadata.Column, format string) error {
	if format == FormatJSON {
		return renderJSON(w, columns)
	}
	if len(columns) == 0 {
		_, _ = fmt.Fprintln(w, "(no columns)")
		return nil
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Type"})
	for _, c := range columns {
		t.AppendRow(table.Row{c.Name, c.Type})
	}
	t.Render()
	return nil
}

func renderResult(w io.Writer, res *database.QueryResult, format string) error {
	if format == FormatJSON {
		rows := make([]map[string]string, 0, len(res.Rows))
		for _, r := range res.Rows {
			row := make(map[string]string, len(res.Columns))
			for i, col := range res.Columns {
				if i < len(r) {
					row[col] = r[i]
				}
			}
			rows = append(rows, row)
		}
		return renderJSON(w, rows)
	}
	if len(res.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := newTable(w)
	header := make(table.Row, len(res.Columns))
	for i, col := range res.Columns {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, r := range res.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", res.RowCount)
	return nil
}

func renderTypes(w io.Writer, h metadata.Children, format string) error {
	if format == FormatJSON {
		s, err := h.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, s)
		return err
	}
	writeTree(w, h, 0)
	return nil
}

func writeTree(w io.Writer, h metadata.Children, depth int) {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		node := h[name]
		_, _ = fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), name)
		if c, ok := node.Contains.(metadata.Children); ok {
			writeTree(w, c, depth+1)
		}
	}
}

type identity struct {
	Type        string `json:"type"`
	HostKey     string `json:"host_key"`
	DisplayName string `json:"display_name"`
	ConnectCode string `json:"connect_code"`
}

func renderIdentity(w io.Writer, id identity, format string) error {
	if format == FormatJSON {
		return renderJSON(w, id)
	}
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Type", id.Type},
		{"Host key", id.HostKey},
		{"Display name", id.DisplayName},
		{"Connect code", id.ConnectCode},
	})
	t.Render()
	return nil
}

func renderConnections(w io.Writer, cfg *config.Config, format string) error {
	if format == FormatJSON {
		type entry struct {
			Name    string `json:"name"`
			Driver  string `json:"driver"`
			Target  string `json:"target"`
			Default bool   `json:"default"`
		}
		entries := make([]entry, 0, len(cfg.Connections))
		def := config.DefaultConnection(cfg)
		for _, c := range cfg.Connections {
			entries = append(entries, entry{c.Name, c.Driver, c.DisplayString(), def != nil && def.Name == c.Name})
		}
		return renderJSON(w, entries)
	}
	if len(cfg.Connections) == 0 {
		_, _ = fmt.Fprintln(w, "(no saved connections)")
		return nil
	}

	def := config.DefaultConnection(cfg)
	t := newTable(w)
	t.AppendHeader(table.Row{"", "Name", "Driver", "Target"})
	for _, c := range cfg.Connections {
		mark := ""
		if def != nil && def.Name == c.Name {
			mark = "*"
		}
		t.AppendRow(table.Row{mark, c.Name, c.Driver, c.DisplayString()})
	}
	t.Render()
	return nil
}
