package primitives

import (
	"fmt"

	"cozenage/internal/cell"
	"cozenage/internal/dbconn"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

var dbManager = dbconn.NewManager()

func registerSQL(e *env.Env) {
	builtin(e, "db-open", func(args *cell.Cell) *cell.Cell {
		if err := arity("db-open", args.SList, 2); err != nil {
			return err
		}
		kind := string(args.SList[0].Str.Bytes)
		dsn := string(args.SList[1].Str.Bytes)
		id, err := dbManager.Open(kind, dsn)
		if err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "db-open: %v", err))
		}
		return cell.NewInteger(id)
	})

	builtin(e, "db-close", func(args *cell.Cell) *cell.Cell {
		if err := arity("db-close", args.SList, 1); err != nil {
			return err
		}
		h := args.SList[0]
		if h.Kind != cell.Integer {
			return typeErr("db-close", "database handle", h)
		}
		if err := dbManager.Close(h.I64); err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "db-close: %v", err))
		}
		return cell.Unspec
	})

	builtin(e, "db-exec", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("db-exec", args.SList, 2); err != nil {
			return err
		}
		h := args.SList[0]
		if h.Kind != cell.Integer {
			return typeErr("db-exec", "database handle", h)
		}
		query := string(args.SList[1].Str.Bytes)
		affected, err := dbManager.Exec(h.I64, query, sqlArgs(args.SList[2:])...)
		if err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "db-exec: %v", err))
		}
		return cell.NewInteger(affected)
	})

	builtin(e, "db-query", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("db-query", args.SList, 2); err != nil {
			return err
		}
		h := args.SList[0]
		if h.Kind != cell.Integer {
			return typeErr("db-query", "database handle", h)
		}
		query := string(args.SList[1].Str.Bytes)
		columns, rows, err := dbManager.Query(h.I64, query, sqlArgs(args.SList[2:])...)
		if err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "db-query: %v", err))
		}
		resultRows := make([]*cell.Cell, len(rows))
		for i, row := range rows {
			pairs := make([]*cell.Cell, len(columns))
			for j, col := range columns {
				pairs[j] = cell.Cons(symbolFor(col), goValueToCell(row[col]))
			}
			resultRows[i] = cell.ListFromSlice(pairs)
		}
		return cell.ListFromSlice(resultRows)
	})
}

func sqlArgs(cells []*cell.Cell) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		switch c.Kind {
		case cell.String:
			out[i] = string(c.Str.Bytes)
		case cell.Integer:
			out[i] = c.I64
		case cell.Real:
			out[i] = c.F64
		case cell.Boolean:
			out[i] = c.Bool
		default:
			out[i] = cell.Display(c)
		}
	}
	return out
}

func goValueToCell(v interface{}) *cell.Cell {
	switch val := v.(type) {
	case nil:
		return cell.False
	case []byte:
		return cell.NewString(string(val))
	case string:
		return cell.NewString(val)
	case int64:
		return cell.NewInteger(val)
	case float64:
		return cell.NewReal(val)
	case bool:
		return cell.Bool(val)
	default:
		return cell.NewString(fmt.Sprint(val))
	}
}
