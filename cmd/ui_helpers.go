// Copyright (c) 2025 Wosool
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"

	"wosool/insight/internal/backend"
)

// printResult renders an execute response as a table, or a short notice
// when no rows came back.
func printResult(res *backend.ExecuteResult) {
	if res.SQL != "" {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint(res.SQL))
	}
	if len(res.Results) == 0 {
		pterm.Info.Println("Query executed successfully. No rows returned.")
		return
	}

	cols := res.Columns
	if len(cols) == 0 {
		for k := range res.Results[0] {
			cols = append(cols, k)
		}
	}

	data := pterm.TableData{cols}
	for _, row := range res.Results {
		line := make([]string, len(cols))
		for i, col := range cols {
			line[i] = fmt.Sprint(row[col])
		}
		data = append(data, line)
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Println(pterm.Gray(fmt.Sprintf("%d row(s)", res.RowCount)))
}

// spinner starts a pterm spinner and returns a stop function.
func spinner(text string) func() {
	sp, err := pterm.DefaultSpinner.Start(text)
	if err != nil {
		return func() {}
	}
	return func() { _ = sp.Stop() }
}
