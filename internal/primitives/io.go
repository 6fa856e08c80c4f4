package primitives

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/port"
	"cozenage/internal/schemerr"
)

var (
	stdoutPort = &cell.Cell{Kind: cell.Port, Prt: &cell.Port{ID: "stdout", Direction: cell.DirOut, Medium: cell.MediumFile, Open: true, Handle: os.Stdout}}
	stdinPort  = &cell.Cell{Kind: cell.Port, Prt: &cell.Port{ID: "stdin", Direction: cell.DirIn, Medium: cell.MediumFile, Open: true, Handle: bufio.NewReader(os.Stdin)}}
)

func portWriter(args []*cell.Cell, idx int) (*os.File, *strings.Builder, *cell.Port, *cell.Cell) {
	if len(args) <= idx {
		return os.Stdout, nil, stdoutPort.Prt, nil
	}
	p := args[idx]
	if p.Kind != cell.Port {
		return nil, nil, nil, typeErr("write", "port", p)
	}
	switch h := p.Prt.Handle.(type) {
	case *os.File:
		return h, nil, p.Prt, nil
	case *strings.Builder:
		return nil, h, p.Prt, nil
	default:
		return nil, nil, nil, cell.NewError(schemerr.New(schemerr.Value, "write: not an output port"))
	}
}

func registerIO(e *env.Env) {
	builtin(e, "display", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("display", args.SList, 1); err != nil {
			return err
		}
		f, sb, port, errc := portWriter(args.SList, 1)
		if errc != nil {
			return errc
		}
		if !port.Open || port.Direction == cell.DirIn {
			return cell.NewError(schemerr.New(schemerr.Value, "display: port not open for output"))
		}
		text := cell.Display(args.SList[0])
		if sb != nil {
			sb.WriteString(text)
		} else {
			fmt.Fprint(f, text)
		}
		return cell.Unspec
	})

	builtin(e, "write", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("write", args.SList, 1); err != nil {
			return err
		}
		f, sb, port, errc := portWriter(args.SList, 1)
		if errc != nil {
			return errc
		}
		if !port.Open || port.Direction == cell.DirIn {
			return cell.NewError(schemerr.New(schemerr.Value, "write: port not open for output"))
		}
		text := cell.Write(args.SList[0])
		if sb != nil {
			sb.WriteString(text)
		} else {
			fmt.Fprint(f, text)
		}
		return cell.Unspec
	})

	builtin(e, "newline", func(args *cell.Cell) *cell.Cell {
		f, sb, port, errc := portWriter(args.SList, 0)
		if errc != nil {
			return errc
		}
		if !port.Open || port.Direction == cell.DirIn {
			return cell.NewError(schemerr.New(schemerr.Value, "newline: port not open for output"))
		}
		if sb != nil {
			sb.WriteByte('\n')
		} else {
			fmt.Fprintln(f)
		}
		return cell.Unspec
	})

	builtin(e, "write-string", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("write-string", args.SList, 1); err != nil {
			return err
		}
		f, sb, port, errc := portWriter(args.SList, 1)
		if errc != nil {
			return errc
		}
		if !port.Open || port.Direction == cell.DirIn {
			return cell.NewError(schemerr.New(schemerr.Value, "write-string: port not open for output"))
		}
		text := string(args.SList[0].Str.Bytes)
		if sb != nil {
			sb.WriteString(text)
		} else {
			fmt.Fprint(f, text)
		}
		return cell.Unspec
	})

	builtin(e, "current-output-port", func(args *cell.Cell) *cell.Cell { return stdoutPort })
	builtin(e, "current-input-port", func(args *cell.Cell) *cell.Cell { return stdinPort })

	builtin(e, "open-output-string", func(args *cell.Cell) *cell.Cell {
		return &cell.Cell{Kind: cell.Port, Prt: &cell.Port{ID: port.NewID(), Direction: cell.DirOut, Medium: cell.MediumString, Open: true, Handle: &strings.Builder{}}}
	})
	builtin(e, "get-output-string", func(args *cell.Cell) *cell.Cell {
		if err := arity("get-output-string", args.SList, 1); err != nil {
			return err
		}
		p := args.SList[0]
		sb, ok := p.Prt.Handle.(*strings.Builder)
		if !ok {
			return typeErr("get-output-string", "string output port", p)
		}
		return cell.NewString(sb.String())
	})

	builtin(e, "open-input-string", func(args *cell.Cell) *cell.Cell {
		if err := arity("open-input-string", args.SList, 1); err != nil {
			return err
		}
		r := bufio.NewReader(strings.NewReader(string(args.SList[0].Str.Bytes)))
		return &cell.Cell{Kind: cell.Port, Prt: &cell.Port{ID: port.NewID(), Direction: cell.DirIn, Medium: cell.MediumString, Open: true, Handle: r}}
	})

	builtin(e, "read-line", func(args *cell.Cell) *cell.Cell {
		port := stdinPort
		if len(args.SList) > 0 {
			port = args.SList[0]
		}
		r, ok := port.Prt.Handle.(*bufio.Reader)
		if !ok {
			return typeErr("read-line", "input port", port)
		}
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return cell.EOFObject
		}
		return cell.NewString(strings.TrimRight(line, "\n"))
	})

	builtin(e, "close-port", func(args *cell.Cell) *cell.Cell {
		if err := arity("close-port", args.SList, 1); err != nil {
			return err
		}
		p := args.SList[0]
		if p.Kind != cell.Port {
			return typeErr("close-port", "port", p)
		}
		if f, ok := p.Prt.Handle.(*os.File); ok && f != os.Stdout && f != os.Stdin && f != os.Stderr {
			f.Close()
		}
		p.Prt.Open = false
		return cell.Unspec
	})
}
