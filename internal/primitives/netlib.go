package primitives

import (
	"time"

	"cozenage/internal/cell"
	"cozenage/internal/env"
	"cozenage/internal/netconn"
	"cozenage/internal/schemerr"
)

var wsRegistry = netconn.NewRegistry()

func registerNetwork(e *env.Env) {
	builtin(e, "http-get", func(args *cell.Cell) *cell.Cell {
		if err := arity("http-get", args.SList, 1); err != nil {
			return err
		}
		return respondHTTP(netconn.Get(string(args.SList[0].Str.Bytes)))
	})
	builtin(e, "http-post", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("http-post", args.SList, 1); err != nil {
			return err
		}
		var body []byte
		if len(args.SList) > 1 {
			body = args.SList[1].Str.Bytes
		}
		return respondHTTP(netconn.Post(string(args.SList[0].Str.Bytes), body, nil))
	})
	builtin(e, "http-put", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("http-put", args.SList, 1); err != nil {
			return err
		}
		var body []byte
		if len(args.SList) > 1 {
			body = args.SList[1].Str.Bytes
		}
		return respondHTTP(netconn.Put(string(args.SList[0].Str.Bytes), body, nil))
	})
	builtin(e, "http-delete", func(args *cell.Cell) *cell.Cell {
		if err := arity("http-delete", args.SList, 1); err != nil {
			return err
		}
		return respondHTTP(netconn.Delete(string(args.SList[0].Str.Bytes)))
	})

	builtin(e, "ws-connect", func(args *cell.Cell) *cell.Cell {
		if err := arity("ws-connect", args.SList, 1); err != nil {
			return err
		}
		url := string(args.SList[0].Str.Bytes)
		id, err := wsRegistry.Connect(url)
		if err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "ws-connect: %v", err))
		}
		return &cell.Cell{Kind: cell.Port, Prt: &cell.Port{ID: id, Path: url, Direction: cell.DirAsync, Medium: cell.MediumFile, Open: true}}
	})

	builtin(e, "ws-send", func(args *cell.Cell) *cell.Cell {
		if err := arity("ws-send", args.SList, 2); err != nil {
			return err
		}
		p := args.SList[0]
		if p.Kind != cell.Port {
			return typeErr("ws-send", "port", p)
		}
		if err := wsRegistry.Send(p.Prt.ID, string(args.SList[1].Str.Bytes)); err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "ws-send: %v", err))
		}
		return cell.Unspec
	})

	builtin(e, "ws-recv", func(args *cell.Cell) *cell.Cell {
		if err := arityAtLeast("ws-recv", args.SList, 1); err != nil {
			return err
		}
		p := args.SList[0]
		if p.Kind != cell.Port {
			return typeErr("ws-recv", "port", p)
		}
		timeout := 30 * time.Second
		if len(args.SList) > 1 {
			timeout = time.Duration(realValue(args.SList[1]) * float64(time.Second))
		}
		msg, err := wsRegistry.Recv(p.Prt.ID, timeout)
		if err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "ws-recv: %v", err))
		}
		return cell.NewString(msg)
	})

	builtin(e, "ws-close", func(args *cell.Cell) *cell.Cell {
		if err := arity("ws-close", args.SList, 1); err != nil {
			return err
		}
		p := args.SList[0]
		if p.Kind != cell.Port {
			return typeErr("ws-close", "port", p)
		}
		if err := wsRegistry.Close(p.Prt.ID); err != nil {
			return cell.NewError(schemerr.New(schemerr.OS, "ws-close: %v", err))
		}
		p.Prt.Open = false
		return cell.Unspec
	})
}

// respondHTTP turns a netconn.Response into an alist of (status . N)
// (body . STRING) pairs — chosen over a bespoke Kind so Scheme code
// inspects it with plain assq.
func respondHTTP(resp *netconn.Response, err error) *cell.Cell {
	if err != nil {
		return cell.NewError(schemerr.New(schemerr.OS, "http: %v", err))
	}
	return cell.ListFromSlice([]*cell.Cell{
		cell.Cons(symbolFor("status"), cell.NewInteger(int64(resp.StatusCode))),
		cell.Cons(symbolFor("body"), cell.NewString(resp.Body)),
	})
}
