package models

// PrimitiveKind is the closed set of DTDL primitive schemas.
type PrimitiveKind int

const (
	PrimitiveBoolean PrimitiveKind = iota + 1
	PrimitiveDate
	PrimitiveDateTime
	PrimitiveDouble
	PrimitiveDuration
	PrimitiveFloat
	PrimitiveInteger
	PrimitiveLong
	PrimitiveString
	PrimitiveTime
)

var primitiveNames = map[PrimitiveKind]string{
	PrimitiveBoolean:  "boolean",
	PrimitiveDate:     "date",
	PrimitiveDateTime: "dateTime",
	PrimitiveDouble:   "double",
	PrimitiveDuration: "duration",
	PrimitiveFloat:    "float",
	PrimitiveInteger:  "integer",
	PrimitiveLong:     "long",
	PrimitiveString:   "string",
	PrimitiveTime:     "time",
}

var primitivesByName = func() map[string]PrimitiveKind {
	m := make(map[string]PrimitiveKind, len(primitiveNames))
	for k, name := range primitiveNames {
		m[name] = k
	}
	return m
}()

// String returns the DTDL name of the primitive schema.
func (k PrimitiveKind) String() string {
	if name, ok := primitiveNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParsePrimitiveKind resolves a DTDL primitive schema name such as "dateTime".
func ParsePrimitiveKind(name string) (PrimitiveKind, bool) {
	k, ok := primitivesByName[name]
	return k, ok
}
