package primitives

import (
	stdtime "time"

	"github.com/ncruces/go-strftime"

	"cozenage/internal/cell"
	"cozenage/internal/env"
)

func registerTime(e *env.Env) {
	builtin(e, "current-second", func(args *cell.Cell) *cell.Cell {
		return cell.NewReal(float64(stdtime.Now().UnixNano()) / 1e9)
	})
	builtin(e, "current-jiffy", func(args *cell.Cell) *cell.Cell {
		return cell.NewInteger(stdtime.Now().UnixNano())
	})
	builtin(e, "jiffies-per-second", func(args *cell.Cell) *cell.Cell {
		return cell.NewInteger(1_000_000_000)
	})

	builtin(e, "strftime", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("strftime", args.SList, 1); err != nil {
			return err
		}
		format := args.SList[0]
		if format.Kind != cell.String {
			return typeErr("strftime", "string", format)
		}
		when := stdtime.Now()
		if len(args.SList) > 1 {
			sec := args.SList[1]
			if !cell.IsNumber(sec) {
				return typeErr("strftime", "number", sec)
			}
			when = stdtime.Unix(0, int64(realValue(sec)*1e9))
		}
		return cell.NewString(strftime.Format(string(format.Str.Bytes), when))
	})
}
