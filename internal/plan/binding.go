// Package plan holds resolved call bindings and their content fingerprints.
package plan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/weekfn/internal/function"
	"github.com/roach88/weekfn/internal/types"
)

// DomainBinding is the hash domain for binding fingerprints.
// The version suffix allows changing the canonical form later.
const DomainBinding = "weekfn/binding/v1"

// Binding is a validated and resolved call signature.
//
// The same function name, declared argument types and captured settings
// always produce the same Fingerprint.
type Binding struct {
	Function            function.Function
	ArgTypes            []types.DataType
	ReturnType          types.DataType
	EnableDate32Results bool
	SessionTimezone     string
	Fingerprint         string
}

// Bind validates args against fn and resolves the result type.
// Contract errors are returned unwrapped.
func Bind(fn function.Function, args []types.DataType, settings function.Settings) (*Binding, error) {
	rt, err := fn.ReturnType(args)
	if err != nil {
		return nil, err
	}
	fp, err := Fingerprint(fn.Name(), args, settings)
	if err != nil {
		return nil, err
	}
	return &Binding{
		Function:            fn,
		ArgTypes:            append([]types.DataType(nil), args...),
		ReturnType:          rt,
		EnableDate32Results: settings.EnableDate32Results,
		SessionTimezone:     settings.SessionTimezone,
		Fingerprint:         fp,
	}, nil
}

// Fingerprint computes the binding fingerprint for a call signature:
// SHA256(DomainBinding + 0x00 + canonical JSON).
func Fingerprint(name string, args []types.DataType, settings function.Settings) (string, error) {
	canonical, err := MarshalCanonical(signature(name, args, settings))
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainBinding, canonical), nil
}

// Object returns the binding as a canonical JSON object.
func (b *Binding) Object() map[string]any {
	obj := signature(b.Function.Name(), b.ArgTypes, function.Settings{
		EnableDate32Results: b.EnableDate32Results,
		SessionTimezone:     b.SessionTimezone,
	})
	obj["return_type"] = typeName(b.ReturnType)
	obj["fingerprint"] = b.Fingerprint
	return obj
}

func signature(name string, args []types.DataType, settings function.Settings) map[string]any {
	names := make([]string, len(args))
	for i, a := range args {
		names[i] = typeName(a)
	}
	return map[string]any{
		"function":              name,
		"arg_types":             names,
		"enable_date32_results": settings.EnableDate32Results,
		"session_timezone":      settings.SessionTimezone,
	}
}

func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func typeName(t types.DataType) string {
	if t == nil {
		return ""
	}
	return t.Name()
}
