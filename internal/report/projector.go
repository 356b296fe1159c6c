package report

import (
	"context"
	"fmt"
	"time"
)

// Projector builds Tabular reports from a Source.
type Projector struct {
	src Source
	loc *time.Location
}

// NewProjector returns a projector that renders timestamps in loc.
// A nil loc selects time.Local.
func NewProjector(src Source, loc *time.Location) *Projector {
	return &Projector{src: src, loc: loc}
}

// Project builds the report for typeID. Every row it returns has exactly
// len(Headers) cells.
func (p *Projector) Project(ctx context.Context, typeID string) (*Tabular, error) {
	def, ok := definitions[typeID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportType, typeID)
	}

	headers, rows, records, err := def.project(ctx, p.src, clock{loc: p.loc})
	if err != nil {
		return nil, fmt.Errorf("load %s data: %w", typeID, err)
	}

	return &Tabular{
		Title:   Label(typeID),
		Headers: headers,
		Rows:    rows,
		Records: records,
	}, nil
}
