package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"GovAI/internal/domain"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
}

func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := newTable(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("table rows: %w", err)
	}
	return table.Render()
}

func statsRows(s domain.StatsSnapshot) [][]string {
	rows := [][]string{
		{"total_queries", strconv.Itoa(s.TotalQueries)},
		{"queries_today", strconv.Itoa(s.QueriesToday)},
		{"avg_processing_time", strconv.FormatFloat(s.AvgProcessingTime, 'f', 2, 64)},
		{"success_rate", strconv.FormatFloat(s.SuccessRate, 'f', 2, 64) + "%"},
	}

	langs := make([]string, 0, len(s.QueriesByLanguage))
	for lang := range s.QueriesByLanguage {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		rows = append(rows, []string{"language " + lang, strconv.Itoa(s.QueriesByLanguage[lang])})
	}

	for i, q := range s.TopQueries {
		rows = append(rows, []string{fmt.Sprintf("top %d", i+1), fmt.Sprintf("%s (%d)", q.Query, q.Count)})
	}
	return rows
}

func recordRows(records []domain.LogRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Timestamp,
			string(r.Status),
			r.Language,
			strconv.FormatFloat(r.ProcessingTime, 'f', 2, 64),
			r.IPAddress,
			r.Query,
		})
	}
	return rows
}

var recordHeader = []string{"timestamp", "status", "language", "seconds", "ip", "query"}
