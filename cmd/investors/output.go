package main

import (
	"fmt"
	"investor-lab/domain"
	"io"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type OutputConfig struct {
	// INVESTORS_COLOURS enables colorized status lines
	Colours bool `envconfig:"INVESTORS_COLOURS" default:"true"`
}

func loadOutputConfig() OutputConfig {
	var cfg OutputConfig
	if err := envconfig.Process("", &cfg); err != nil {
		cfg.Colours = false
	}
	return cfg
}

func colorize(style color.Style, text string) string {
	if !loadOutputConfig().Colours {
		return text
	}
	return style.Render(text)
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, colorize(color.New(color.FgGreen), "✓ "+fmt.Sprintf(format, args...)))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, colorize(color.New(color.FgYellow), "⚠ "+fmt.Sprintf(format, args...)))
}

func renderInvestors(w io.Writer, investors []domain.ExternalInvestor) {
	rows := make([][]string, 0, len(investors))
	for _, investor := range investors {
		rows = append(rows, []string{
			investor.ID,
			investor.Name,
			investor.Description,
			investor.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	renderTable(w, []string{"ID", "Name", "Description", "Updated"}, rows)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.AppendBulk(rows)
	table.Render()
}
