package store

import (
	"context"

	chx "rolelink/internal/platform/store/ch"
)

// chAdapter maps the ch client onto the store.Clickhouse seam
type chAdapter struct{ c *chx.CH }

func newCHAdapter(c *chx.CH) *chAdapter { return &chAdapter{c: c} }

func (a *chAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.c.Exec(ctx, sql, args...)
}

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRowsAdapter{r: rs}, nil
}

func (a *chAdapter) Close() error { return a.c.Close() }

type chRowsAdapter struct{ r chx.Rows }

func (x chRowsAdapter) Next() bool            { return x.r.Next() }
func (x chRowsAdapter) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x chRowsAdapter) Err() error            { return x.r.Err() }
func (x chRowsAdapter) Close()                { x.r.Close() }
