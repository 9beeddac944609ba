// Package session binds and executes week function calls.
//
// A Session owns a query id, the settings captured for the query, a cache
// of resolved bindings and a trace of executed batches:
//
//	s := session.New(settings, function.Default())
//	b, err := s.Bind("toStartOfWeek", []types.DataType{types.Date32{}})
//	out, err := s.Execute(ctx, b, args)
//
// Every executed column is checked against the bound return type; a
// difference is reported as ErrCodeResolverMismatch and the call fails.
package session
