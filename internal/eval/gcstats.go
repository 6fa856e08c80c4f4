package eval

import (
	"fmt"
	"os"
	"runtime"

	"github.com/dustin/go-humanize"

	"cozenage/internal/cell"
	"cozenage/internal/schemerr"
)

// WithGCStats implements the `with-gc-stats` builtin half of the
// with-gc-stats derived form: the expander rewrites `(with-gc-stats expr)`
// into `(with-gc-stats (lambda () expr))` so the thunk reaches here
// unevaluated, then this applies it and reports the heap delta it caused
// (spec.md §5, §8: `(with-gc-stats (length (iota 100000)))` -> 100000,
// with a diagnostic line on stderr, not stdout, so the return value is
// unaffected).
func WithGCStats(args *cell.Cell) *cell.Cell {
	if len(args.SList) != 1 {
		return cell.NewError(schemerr.Arityf("with-gc-stats", "1", len(args.SList)))
	}
	thunk := args.SList[0]
	if thunk.Kind != cell.Procedure {
		return cell.NewError(schemerr.Typef("with-gc-stats", "procedure", thunk.Kind.String()))
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	result := Apply(thunk, nil)
	runtime.ReadMemStats(&after)

	delta := int64(after.TotalAlloc) - int64(before.TotalAlloc)
	gcs := after.NumGC - before.NumGC
	fmt.Fprintf(os.Stderr, "with-gc-stats: %s allocated, %d collection(s), %d ns in GC\n",
		humanize.Bytes(uint64(delta)), gcs, after.PauseTotalNs-before.PauseTotalNs)

	return result
}
