package expander

import (
	"fmt"

	"cozenage/internal/cell"
	"cozenage/internal/symtab"
)

// counter drives fresh-temporary generation for the expander's own
// generated bindings (cond's `=>`/bare-test temps, or's short-circuit
// temps, case's key temp, do's loop name). Names use a leading underscore
// plus digits (spec.md §9) to make accidental capture of user code
// unlikely without a full hygiene system.
var counter int64

func gensym() *cell.Cell {
	counter++
	return symtab.Intern(fmt.Sprintf("_%d", counter))
}
