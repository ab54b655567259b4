// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"fmt"
	"strings"
)

// Table renders rows in aligned columns with a styled header. In plain
// mode output degrades to tab-separated lines.
func Table(header []string, rows [][]string) string {
	if Plain() {
		var b strings.Builder
		b.WriteString(strings.Join(header, "\t"))
		b.WriteByte('\n')
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		return b.String()
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	for i, h := range header {
		b.WriteString(Styles.HeaderCell.Render(pad(h, widths[i])))
	}
	b.WriteByte('\n')
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				b.WriteString(Styles.Cell.Render(pad(cell, widths[i])))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func pad(s string, width int) string {
	return fmt.Sprintf("%-*s", width, s)
}
