package dataprocessing

import "moviepulse/pkg/contracts/domain"

// ProfileColumns reports the inferred kind and value counts of every column
func ProfileColumns(t *domain.Table) []domain.ColumnProfile {
	profiles := make([]domain.ColumnProfile, len(t.Columns))
	for j, col := range t.Columns {
		p := domain.ColumnProfile{Name: col}
		indicators := 0
		for _, row := range t.Rows {
			switch row[j].Kind {
			case domain.CellMissing:
				p.Missing++
			case domain.CellText:
				p.Text++
			case domain.CellIndicator:
				indicators++
				p.Numeric++
			default:
				p.Numeric++
			}
		}

		switch {
		case p.Text > 0:
			p.Kind = domain.CellText.String()
		case indicators > 0 && indicators == p.Numeric:
			p.Kind = domain.CellIndicator.String()
		case p.Numeric > 0:
			p.Kind = domain.CellNumber.String()
		default:
			p.Kind = domain.CellMissing.String()
		}
		profiles[j] = p
	}
	return profiles
}
