// Package function implements the custom-week function family on top of
// the per-row transforms.
//
// A call goes through three steps:
//
//	Validate    declared argument types -> Request, or ArityError/TypeError
//	ReturnType  Request + captured date32 results flag -> result type
//	Execute     runtime column type -> Path -> generic kernel -> column
//
// ReturnType and Execute both derive the result from ResultEncoding, so a
// column produced by Execute always has the type ReturnType announced.
// A DateTime64 column's scale is read from its own type and passed to the
// kernel unchanged. Whether a timezone argument is allowed depends only on
// the declared type of argument 1.
package function
