package entity

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/soratech/storefront/internal/backend"
)

// utf8BOM makes Excel open the export with the right encoding.
const utf8BOM = "\xEF\xBB\xBF"

// ExportCSV writes the rows in the visible column order, quote-escaped, with
// a UTF-8 BOM prefix.
func ExportCSV(d Descriptor, rows []backend.Record, w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}

	header := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		header[i] = col.Label
	}
	if _, err := bw.WriteString(joinCSVLine(header)); err != nil {
		return err
	}

	for _, rec := range rows {
		cells := make([]string, len(d.Columns))
		for i, col := range d.Columns {
			if v, ok := rec[col.Key]; ok && v != nil {
				cells[i] = formatCell(v)
			}
		}
		if _, err := bw.WriteString(joinCSVLine(cells)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type ImportResult struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// ImportCSV parses an export-shaped file (same column order, header row
// included) and creates one record per data row. Rows fail independently;
// there is no rollback of earlier successes.
func ImportCSV(ctx context.Context, d Descriptor, r io.Reader) (ImportResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv: %w", err)
	}

	text := strings.TrimPrefix(string(data), utf8BOM)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	kinds := fieldKinds(d)
	var res ImportResult
	seenHeader := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !seenHeader {
			seenHeader = true
			continue
		}

		cells := parseCSVLine(line)
		rec := backend.Record{}
		for i, col := range d.Columns {
			if i >= len(cells) {
				break
			}
			if col.Key == "id" {
				// Server assigns identity on create.
				continue
			}
			rec[col.Key] = coerceCell(cells[i], kinds[col.Key])
		}

		if _, err := d.API.Create(ctx, rec); err != nil {
			res.Failed++
			continue
		}
		res.Created++
	}
	return res, nil
}

func fieldKinds(d Descriptor) map[string]FieldKind {
	kinds := make(map[string]FieldKind, len(d.FormFields))
	for _, f := range d.FormFields {
		kinds[f.Name] = f.Kind
	}
	return kinds
}

// coerceCell types number-declared fields; everything else stays a string.
func coerceCell(cell string, kind FieldKind) any {
	switch kind {
	case FieldNumber, FieldFK:
		if cell == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(cell, 64); err == nil {
			return f
		}
		return 0
	default:
		return cell
	}
}

func formatCell(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func joinCSVLine(cells []string) string {
	escaped := make([]string, len(cells))
	for i, cell := range cells {
		escaped[i] = escapeCell(cell)
	}
	return strings.Join(escaped, ",") + "\r\n"
}

func escapeCell(cell string) string {
	if strings.ContainsAny(cell, ",\"\n\r") {
		return `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}

// parseCSVLine splits one line on commas outside quotes; a doubled quote
// inside a quoted cell is a literal quote. Cells cannot span lines.
func parseCSVLine(line string) []string {
	var (
		cells    []string
		cur      strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				cur.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	cells = append(cells, cur.String())
	return cells
}
