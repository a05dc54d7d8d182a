package sierra

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
)

// JSON wire form of a Sierra program artifact. Values are strings so that
// felt literals larger than 64 bits survive decoding.

type programJSON struct {
	Types    []typeDeclJSON    `json:"type_declarations"`
	Libfuncs []libfuncDeclJSON `json:"libfunc_declarations"`
}

type typeDeclJSON struct {
	ID        string           `json:"id"`
	GenericID string           `json:"generic_id"`
	Args      []genericArgJSON `json:"generic_args"`
	DebugName string           `json:"debug_name"`
}

type libfuncDeclJSON struct {
	ID        uint64           `json:"id"`
	GenericID string           `json:"generic_id"`
	Args      []genericArgJSON `json:"generic_args"`
	DebugName string           `json:"debug_name"`
}

type genericArgJSON struct {
	Value    *string `json:"value,omitempty"`
	Type     *string `json:"type,omitempty"`
	UserFunc *string `json:"user_func,omitempty"`
	Libfunc  *string `json:"libfunc,omitempty"`
}

// ReadProgram decodes a Sierra program from its JSON artifact form.
func ReadProgram(r io.Reader) (*Program, error) {
	var raw programJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode sierra program: %w", err)
	}

	prog := &Program{
		Types:    make([]TypeDeclaration, 0, len(raw.Types)),
		Libfuncs: make([]LibfuncDeclaration, 0, len(raw.Libfuncs)),
	}
	for i := range raw.Types {
		td := &raw.Types[i]
		args, err := decodeArgs(td.Args)
		if err != nil {
			return nil, fmt.Errorf("type declaration %q: %w", td.ID, err)
		}
		prog.Types = append(prog.Types, TypeDeclaration{
			ID:        TypeID(td.ID),
			GenericID: td.GenericID,
			Args:      args,
			DebugName: td.DebugName,
		})
	}
	for i := range raw.Libfuncs {
		ld := &raw.Libfuncs[i]
		args, err := decodeArgs(ld.Args)
		if err != nil {
			return nil, fmt.Errorf("libfunc declaration %d (%s): %w", ld.ID, ld.GenericID, err)
		}
		prog.Libfuncs = append(prog.Libfuncs, LibfuncDeclaration{
			ID:        DeclID(ld.ID),
			GenericID: ld.GenericID,
			Args:      args,
			DebugName: ld.DebugName,
		})
	}
	return prog, nil
}

// LoadProgram reads a Sierra program artifact from disk.
func LoadProgram(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadProgram(f)
}

func decodeArgs(raw []genericArgJSON) ([]GenericArg, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	args := make([]GenericArg, 0, len(raw))
	for i, a := range raw {
		switch {
		case a.Value != nil:
			v, ok := new(big.Int).SetString(*a.Value, 0)
			if !ok {
				return nil, fmt.Errorf("generic arg %d: invalid value literal %q", i, *a.Value)
			}
			args = append(args, GenericArg{Kind: ArgValue, Value: v})
		case a.Type != nil:
			args = append(args, GenericArg{Kind: ArgType, Type: TypeID(*a.Type)})
		case a.UserFunc != nil:
			args = append(args, GenericArg{Kind: ArgUserFunc, Ref: *a.UserFunc})
		case a.Libfunc != nil:
			args = append(args, GenericArg{Kind: ArgLibfunc, Ref: *a.Libfunc})
		default:
			return nil, fmt.Errorf("generic arg %d: empty argument", i)
		}
	}
	return args, nil
}
