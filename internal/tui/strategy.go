package tui

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/clarabennett2626/logroute/internal/source"
)

// StrategyRow is one classified path.
type StrategyRow struct {
	Path     string
	Strategy source.Strategy
}

var strategyHeaders = []string{"PATH", "KIND", "COMPAT", "FOLLOW", "OPENER", "PRIVILEGED", "PERSIST"}

// Cells returns the row's values in header order.
func (s StrategyRow) Cells() []string {
	return []string{
		s.Path,
		s.Strategy.Kind.String(),
		s.Strategy.Compat.String(),
		s.Strategy.Follow.String(),
		s.Strategy.Opener.String(),
		strconv.FormatBool(s.Strategy.NeedsPrivileges),
		strconv.FormatBool(s.Strategy.PersistEligible),
	}
}

// RenderStrategies renders classified paths as a bordered table.
func RenderStrategies(rows []StrategyRow, theme Theme) string {
	p := darkPalette()
	if theme == ThemeLight {
		p = lightPalette()
	}
	header := p.fieldKey.Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.separator).
		Headers(strategyHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, r := range rows {
		t.Row(r.Cells()...)
	}
	return t.String()
}
