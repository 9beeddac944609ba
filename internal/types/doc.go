// Package types provides the declared data types seen by the week function
// layer.
//
// This package contains type descriptors and type-system queries only. All
// other internal packages import types; types imports nothing internal.
//
// DataType is a sealed interface using the marker method pattern. Only the
// types in this package implement it, which keeps type switches in the
// dispatcher exhaustive:
//
//	switch t := dt.(type) {
//	case Date:
//	case Date32:
//	case DateTime:
//	case DateTime64:
//	    // t.Scale is the runtime scale carried by the column
//	}
//
// TEMPORAL ENCODINGS:
//
//	Encoding      Type                     Storage
//	--------      ----                     -------
//	NarrowDay     Date                     uint16 days since 1970-01-01
//	WideDay       Date32                   int32 days since 1970-01-01
//	SecondsTZ     DateTime('tz')           uint32 seconds since epoch
//	SubSecondTZ   DateTime64(scale, 'tz')  int64 ticks of 10^-scale seconds
//
// Classification is a pure function of the declared type. Nothing in this
// package looks at column data.
package types
