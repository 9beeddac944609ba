// Package column provides the columnar primitives the week functions run on.
//
// A Column is an immutable batch of rows of one declared type. Two
// implementations exist:
//
//   - Vector[T]: one native value per row plus an optional null map
//   - Const: a single-row column logically repeated for a number of rows
//
// Column is a sealed interface using the marker method pattern, so
// consumers can switch exhaustively over the two shapes.
//
// STORAGE TYPES:
//
//	Declared type   Native
//	-------------   ------
//	Date            uint16
//	Date32          int32
//	DateTime        uint32
//	DateTime64      int64
//	UInt8           uint8
//	UInt16          uint16
//	UInt32          uint32
//	Int32           int32
//	Int64           int64
//	String          string
//
// APPLY:
//
// Apply is the element-wise primitive used by every kernel. It preserves
// row count, row order and null markers. Null rows are never passed to the
// per-row function; their output slot holds the zero value.
package column
