package types

// Encoding identifies one of the fixed temporal on-column representations.
type Encoding uint8

const (
	// NotTemporal is returned for types outside the four temporal encodings.
	NotTemporal Encoding = iota
	NarrowDay
	WideDay
	SecondsTZ
	SubSecondTZ
)

// Encodings lists the temporal encodings in declaration order.
var Encodings = []Encoding{NarrowDay, WideDay, SecondsTZ, SubSecondTZ}

func (e Encoding) String() string {
	switch e {
	case NarrowDay:
		return "NarrowDay"
	case WideDay:
		return "WideDay"
	case SecondsTZ:
		return "SecondsTZ"
	case SubSecondTZ:
		return "SubSecondTZ"
	default:
		return "NotTemporal"
	}
}

// IsTemporal reports whether e is one of the four temporal encodings.
func (e Encoding) IsTemporal() bool {
	return e >= NarrowDay && e <= SubSecondTZ
}

// IsDayOnly reports whether e carries a day count without a time of day.
// Day-only values have no timezone.
func (e Encoding) IsDayOnly() bool {
	return e == NarrowDay || e == WideDay
}

// EncodingOf classifies a declared type. A DateTime64 whose scale is
// above MaxScale is NotTemporal.
func EncodingOf(t DataType) Encoding {
	switch tt := t.(type) {
	case Date:
		return NarrowDay
	case Date32:
		return WideDay
	case DateTime:
		return SecondsTZ
	case DateTime64:
		if tt.Scale > MaxScale {
			return NotTemporal
		}
		return SubSecondTZ
	default:
		return NotTemporal
	}
}

// DayType returns the day-only type for a day encoding.
func DayType(e Encoding) DataType {
	if e == WideDay {
		return Date32{}
	}
	return Date{}
}
