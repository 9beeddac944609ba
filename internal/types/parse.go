package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a type name that could not be parsed.
type ParseError struct {
	Input   string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid type %q: %s", e.Input, e.Message)
}

var simpleTypes = map[string]DataType{
	"Date":   Date{},
	"Date32": Date32{},
	"UInt8":  UInt8{},
	"UInt16": UInt16{},
	"UInt32": UInt32{},
	"Int32":  Int32{},
	"Int64":  Int64{},
	"String": String{},
}

// Parse reads a type from its textual form, e.g. "Date32",
// "DateTime('Europe/Berlin')" or "DateTime64(3, 'UTC')".
func Parse(s string) (DataType, error) {
	in := strings.TrimSpace(s)
	if t, ok := simpleTypes[in]; ok {
		return t, nil
	}

	name, params, hasParams, err := splitParams(in)
	if err != nil {
		return nil, &ParseError{Input: s, Message: err.Error()}
	}

	switch name {
	case "DateTime":
		if !hasParams {
			return DateTime{}, nil
		}
		if len(params) != 1 {
			return nil, &ParseError{Input: s, Message: "DateTime takes at most one timezone parameter"}
		}
		tz, err := unquote(params[0])
		if err != nil {
			return nil, &ParseError{Input: s, Message: err.Error()}
		}
		return DateTime{Timezone: tz}, nil

	case "DateTime64":
		if !hasParams || len(params) == 0 || len(params) > 2 {
			return nil, &ParseError{Input: s, Message: "DateTime64 requires a scale and an optional timezone"}
		}
		scale, err := strconv.ParseUint(strings.TrimSpace(params[0]), 10, 32)
		if err != nil {
			return nil, &ParseError{Input: s, Message: fmt.Sprintf("scale %q is not an integer", params[0])}
		}
		if scale > MaxScale {
			return nil, &ParseError{Input: s, Message: fmt.Sprintf("scale %d is out of range [0, %d]", scale, MaxScale)}
		}
		dt := DateTime64{Scale: uint32(scale)}
		if len(params) == 2 {
			tz, err := unquote(params[1])
			if err != nil {
				return nil, &ParseError{Input: s, Message: err.Error()}
			}
			dt.Timezone = tz
		}
		return dt, nil
	}

	return nil, &ParseError{Input: s, Message: "unknown type"}
}

// MustParse is like Parse but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustParse(s string) DataType {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// splitParams splits "Name(a, 'b')" into the name and its parameters.
// Commas inside quotes do not split.
func splitParams(s string) (string, []string, bool, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, false, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, false, fmt.Errorf("missing closing parenthesis")
	}
	name := strings.TrimSpace(s[:open])
	body := s[open+1 : len(s)-1]

	var params []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && inQuote && i+1 < len(body):
			cur.WriteByte(c)
			cur.WriteByte(body[i+1])
			i++
		case c == '\'':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ',' && !inQuote:
			params = append(params, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return "", nil, false, fmt.Errorf("unterminated quote")
	}
	if last := strings.TrimSpace(cur.String()); last != "" || len(params) > 0 {
		params = append(params, last)
	}
	return name, params, true, nil
}

func unquote(p string) (string, error) {
	p = strings.TrimSpace(p)
	if len(p) < 2 || p[0] != '\'' || p[len(p)-1] != '\'' {
		return "", fmt.Errorf("timezone %s must be a quoted string", p)
	}
	return strings.ReplaceAll(p[1:len(p)-1], `\'`, "'"), nil
}
