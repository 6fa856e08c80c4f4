package primitives

import (
	"cozenage/internal/cell"
	"cozenage/internal/cryptoutil"
	"cozenage/internal/env"
	"cozenage/internal/schemerr"
)

func registerCrypto(e *env.Env) {
	builtin(e, "hash-bytes", func(args *cell.Cell) *cell.Cell {
		if err := arity("hash-bytes", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		var data []byte
		switch a.Kind {
		case cell.String:
			data = a.Str.Bytes
		case cell.Bytevector:
			data = a.BV
		default:
			return typeErr("hash-bytes", "string or bytevector", a)
		}
		return cell.NewString(cryptoutil.HashHex(data))
	})

	builtin(e, "password-hash", func(args *cell.Cell) *cell.Cell {
		if err := arity("password-hash", args.SList, 1); err != nil {
			return err
		}
		a := args.SList[0]
		if a.Kind != cell.String {
			return typeErr("password-hash", "string", a)
		}
		hashed, err := cryptoutil.PasswordHash(string(a.Str.Bytes))
		if err != nil {
			return cell.NewError(schemerr.New(schemerr.General, "password-hash: %v", err))
		}
		return cell.NewString(hashed)
	})

	builtin(e, "password-verify", func(args *cell.Cell) *cell.Cell {
		if err := arity("password-verify", args.SList, 2); err != nil {
			return err
		}
		password, hash := args.SList[0], args.SList[1]
		if password.Kind != cell.String || hash.Kind != cell.String {
			return typeErr("password-verify", "string", password)
		}
		return cell.Bool(cryptoutil.PasswordVerify(string(password.Str.Bytes), string(hash.Str.Bytes)))
	})
}
