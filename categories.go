package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"sensor-readout.klederson.com/internal/sensor"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF41")).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC33")).Padding(0, 1)
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List sensor categories and their channel layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), categoryTable())
			return nil
		},
	}
}

func categoryTable() string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA22"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "NAME", "CHANNELS", "UNIT")

	for _, c := range sensor.Categories() {
		specs := sensor.Resolve(c, 3)
		labels := make([]string, len(specs))
		for i, s := range specs {
			labels[i] = s.Label
		}
		t.Row(strconv.Itoa(int(c)), c.String(), strings.Join(labels, ", "), sensor.Unit(specs))
	}
	return t.String()
}
