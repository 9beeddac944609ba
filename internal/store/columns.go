package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/roach88/weekfn/internal/column"
	"github.com/roach88/weekfn/internal/types"
)

// LoadColumn reads one column of a table as a column of type t.
//
// Rows are returned in rowid order. SQL NULL becomes a null marker.
// Integer values outside the storage range of t are rejected.
func (s *Store) LoadColumn(ctx context.Context, table, name string, t types.DataType) (column.Column, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid ASC", quoteIdent(name), quoteIdent(table))
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load %s.%s: %w", table, name, err)
	}
	defer rows.Close()

	if types.IsString(t) {
		return scanStrings(rows, t)
	}

	var (
		values []int64
		nulls  []bool
		hasNil bool
	)
	for rows.Next() {
		var v sql.NullInt64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("load %s.%s row %d: %w", table, name, len(values), err)
		}
		values = append(values, v.Int64)
		nulls = append(nulls, !v.Valid)
		hasNil = hasNil || !v.Valid
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load %s.%s: %w", table, name, err)
	}
	if !hasNil {
		nulls = nil
	}

	col, err := fromIntegers(t, values, nulls)
	if err != nil {
		return nil, fmt.Errorf("load %s.%s: %w", table, name, err)
	}
	return col, nil
}

// SaveColumn writes c into table.name, creating the table when needed.
// Existing rows are kept; the column's rows are appended in order.
// Constant columns are expanded.
func (s *Store) SaveColumn(ctx context.Context, table, name string, c column.Column) (err error) {
	values, err := sqlValues(c)
	if err != nil {
		return fmt.Errorf("save %s.%s: %w", table, name, err)
	}

	affinity := "INTEGER"
	if types.IsString(c.Type()) {
		affinity = "TEXT"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s.%s: begin: %w", table, name, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	create := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s %s)", quoteIdent(table), quoteIdent(name), affinity)
	if _, err = tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("save %s.%s: create: %w", table, name, err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (?)", quoteIdent(table), quoteIdent(name)))
	if err != nil {
		return fmt.Errorf("save %s.%s: prepare: %w", table, name, err)
	}
	defer stmt.Close()

	for i, v := range values {
		if _, err = stmt.ExecContext(ctx, v); err != nil {
			return fmt.Errorf("save %s.%s row %d: %w", table, name, i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("save %s.%s: commit: %w", table, name, err)
	}
	return nil
}

func scanStrings(rows *sql.Rows, t types.DataType) (column.Column, error) {
	var (
		values []string
		nulls  []bool
		hasNil bool
	)
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("row %d: %w", len(values), err)
		}
		values = append(values, v.String)
		nulls = append(nulls, !v.Valid)
		hasNil = hasNil || !v.Valid
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if !hasNil {
		nulls = nil
	}
	return nullable(t, orEmpty(values), nulls)
}

// fromIntegers converts scanned integers into the storage type of t.
func fromIntegers(t types.DataType, values []int64, nulls []bool) (column.Column, error) {
	switch t.(type) {
	case types.Date:
		return narrow[uint16](t, values, nulls, types.MinDate, types.MaxDate)
	case types.Date32:
		return narrow[int32](t, values, nulls, types.MinDate32, types.MaxDate32)
	case types.DateTime, types.UInt32:
		return narrow[uint32](t, values, nulls, 0, math.MaxUint32)
	case types.UInt8:
		return narrow[uint8](t, values, nulls, 0, math.MaxUint8)
	case types.UInt16:
		return narrow[uint16](t, values, nulls, 0, math.MaxUint16)
	case types.Int32:
		return narrow[int32](t, values, nulls, math.MinInt32, math.MaxInt32)
	case types.DateTime64, types.Int64:
		return narrow[int64](t, values, nulls, math.MinInt64, math.MaxInt64)
	default:
		return nil, fmt.Errorf("no storage for type %s", t.Name())
	}
}

type integer interface {
	~uint8 | ~uint16 | ~uint32 | ~int32 | ~int64
}

func narrow[T integer](t types.DataType, values []int64, nulls []bool, lo, hi int64) (column.Column, error) {
	out := make([]T, len(values))
	for i, v := range values {
		if nulls != nil && nulls[i] {
			continue
		}
		if v < lo || v > hi {
			return nil, fmt.Errorf("row %d: value %d out of range for %s", i, v, t.Name())
		}
		out[i] = T(v)
	}
	return nullable(t, out, nulls)
}

func nullable[T column.Native](t types.DataType, data []T, nulls []bool) (column.Column, error) {
	vec, err := column.NewNullableVector(t, data, nulls)
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// sqlValues expands c into driver values; null rows become nil.
func sqlValues(c column.Column) ([]any, error) {
	n := c.Len()
	inner, isConst := column.Unwrap(c)

	at := func(i int) int {
		if isConst {
			return 0
		}
		return i
	}

	var get func(i int) any
	switch v := inner.(type) {
	case *column.Vector[uint8]:
		get = func(i int) any { return int64(v.At(i)) }
	case *column.Vector[uint16]:
		get = func(i int) any { return int64(v.At(i)) }
	case *column.Vector[uint32]:
		get = func(i int) any { return int64(v.At(i)) }
	case *column.Vector[int32]:
		get = func(i int) any { return int64(v.At(i)) }
	case *column.Vector[int64]:
		get = func(i int) any { return v.At(i) }
	case *column.Vector[string]:
		get = func(i int) any { return v.At(i) }
	default:
		return nil, fmt.Errorf("unsupported column %T", inner)
	}

	out := make([]any, n)
	for i := 0; i < n; i++ {
		j := at(i)
		if inner.IsNull(j) {
			continue
		}
		out[i] = get(j)
	}
	return out, nil
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
