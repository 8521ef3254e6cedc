package avro

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Nullability records the position of the null branch inside the
// two-branch union that made a type node nullable. The wire encoding
// writes a branch index, not a null bit, so this has to be tracked
// explicitly rather than folded into a boolean.
type Nullability int

const (
	// NotNullable means the type node was not produced from a union.
	NotNullable Nullability = iota
	// NullFirst means null was branch 0 of the union.
	NullFirst
	// NullSecond means null was branch 1 of the union.
	NullSecond
)

// Metadata is a per-node bag of string attributes: logicalType
// passthrough, avro.default, and any attribute on the writer schema this
// package does not otherwise understand. The namespace attribute of a
// record, enum or fixed definition is used for name resolution only and
// is not stored in the bag.
type Metadata map[string]string

// Variant is the sealed set of shapes a TypeNode can take. It is the Go
// stand-in for a tagged union: one concrete, unexported-method-bearing
// struct per Avro/columnar shape, dispatched with a type switch rather
// than reflection.
type Variant interface {
	isVariant()
}

// TypeNode is a resolved Avro type: a variant, its nullability, and its
// metadata. Type nodes are built once per schema and shared structurally
// by pointer.
type TypeNode struct {
	Variant     Variant
	Nullability Nullability
	Metadata    Metadata
}

// Field is a named, typed member of a Record, carrying the opaque JSON
// text of its Avro default when one was declared.
type Field struct {
	Name    string
	Type    *TypeNode
	Default *string
}

type (
	// NullVariant is the Avro null type.
	NullVariant struct{}
	// BoolVariant is the Avro boolean type.
	BoolVariant struct{}
	// I32Variant is the Avro int type.
	I32Variant struct{}
	// I64Variant is the Avro long type.
	I64Variant struct{}
	// F32Variant is the Avro float type.
	F32Variant struct{}
	// F64Variant is the Avro double type.
	F64Variant struct{}
	// BytesVariant is the Avro bytes type.
	BytesVariant struct{}
	// Utf8Variant is the Avro string type.
	Utf8Variant struct{}
	// UuidVariant is a string with logicalType uuid, stored as Fixed(16).
	UuidVariant struct{}
	// Date32Variant is an int with logicalType date.
	Date32Variant struct{}
	// TimeMillisVariant is an int with logicalType time-millis.
	TimeMillisVariant struct{}
	// TimeMicrosVariant is a long with logicalType time-micros.
	TimeMicrosVariant struct{}
	// DurationVariant is a Fixed(12) with logicalType duration.
	DurationVariant struct{}
)

func (NullVariant) isVariant()       {}
func (BoolVariant) isVariant()       {}
func (I32Variant) isVariant()        {}
func (I64Variant) isVariant()        {}
func (F32Variant) isVariant()        {}
func (F64Variant) isVariant()        {}
func (BytesVariant) isVariant()      {}
func (Utf8Variant) isVariant()       {}
func (UuidVariant) isVariant()       {}
func (Date32Variant) isVariant()     {}
func (TimeMillisVariant) isVariant() {}
func (TimeMicrosVariant) isVariant() {}
func (DurationVariant) isVariant()   {}

// TimestampMillisVariant is a long with logicalType timestamp-millis or
// local-timestamp-millis; UTC records which.
type TimestampMillisVariant struct {
	UTC bool
}

func (TimestampMillisVariant) isVariant() {}

// TimestampMicrosVariant is a long with logicalType timestamp-micros or
// local-timestamp-micros; UTC records which.
type TimestampMicrosVariant struct {
	UTC bool
}

func (TimestampMicrosVariant) isVariant() {}

// RecordVariant is an ordered sequence of named fields.
type RecordVariant struct {
	Fields []*Field
}

func (RecordVariant) isVariant() {}

// EnumVariant is an ordered sequence of symbol strings.
type EnumVariant struct {
	Symbols []string
}

func (EnumVariant) isVariant() {}

// ArrayVariant is a list of a single element type.
type ArrayVariant struct {
	Element *TypeNode
}

func (ArrayVariant) isVariant() {}

// MapVariant is a map whose keys are always Utf8 and whose values are
// the given type.
type MapVariant struct {
	Value *TypeNode
}

func (MapVariant) isVariant() {}

// FixedVariant is a raw byte run of a declared size.
type FixedVariant struct {
	Size int
}

func (FixedVariant) isVariant() {}

// DecimalVariant is a decimal logical type: precision is required, scale
// defaults to 0, and Size, when greater than zero, records the fixed
// byte width the decimal was declared over (absent for the bytes
// encoding).
type DecimalVariant struct {
	Precision int
	Scale     int
	Size      int
}

func (DecimalVariant) isVariant() {}

// Uses128BitStorage reports whether this decimal fits 128-bit physical
// storage: true when a fixed size of 16 bytes or less was declared, or
// when no size was declared and the precision is at most 38 digits.
func (d DecimalVariant) Uses128BitStorage() bool {
	if d.Size > 0 {
		return d.Size <= 16
	}
	return d.Precision <= 38
}

// ArrowField derives the columnar field descriptor for this type node
// under the given name: physical type, nullability, and metadata.
func (t *TypeNode) ArrowField(name string) arrow.Field {
	return arrow.Field{
		Name:     name,
		Type:     t.arrowDataType(),
		Nullable: t.Nullability != NotNullable,
		Metadata: t.arrowMetadata(),
	}
}

func (t *TypeNode) arrowMetadata() arrow.Metadata {
	if len(t.Metadata) == 0 {
		return arrow.Metadata{}
	}
	keys := make([]string, 0, len(t.Metadata))
	values := make([]string, 0, len(t.Metadata))
	for k, v := range t.Metadata {
		keys = append(keys, k)
		values = append(values, v)
	}
	return arrow.NewMetadata(keys, values)
}

//nolint:gocyclo
func (t *TypeNode) arrowDataType() arrow.DataType {
	switch v := t.Variant.(type) {
	case NullVariant:
		return arrow.Null
	case BoolVariant:
		return arrow.FixedWidthTypes.Boolean
	case I32Variant:
		return arrow.PrimitiveTypes.Int32
	case I64Variant:
		return arrow.PrimitiveTypes.Int64
	case F32Variant:
		return arrow.PrimitiveTypes.Float32
	case F64Variant:
		return arrow.PrimitiveTypes.Float64
	case BytesVariant:
		return arrow.BinaryTypes.Binary
	case Utf8Variant:
		return arrow.BinaryTypes.String
	case UuidVariant:
		return &arrow.FixedSizeBinaryType{ByteWidth: 16}
	case Date32Variant:
		return arrow.FixedWidthTypes.Date32
	case TimeMillisVariant:
		return arrow.FixedWidthTypes.Time32ms
	case TimeMicrosVariant:
		return arrow.FixedWidthTypes.Time64us
	case TimestampMillisVariant:
		return &arrow.TimestampType{Unit: arrow.Millisecond, TimeZone: utcZone(v.UTC)}
	case TimestampMicrosVariant:
		return &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: utcZone(v.UTC)}
	case DurationVariant:
		return arrow.FixedWidthTypes.MonthDayNanoInterval
	case RecordVariant:
		fields := make([]arrow.Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = f.Type.ArrowField(f.Name)
		}
		return arrow.StructOf(fields...)
	case EnumVariant:
		return &arrow.DictionaryType{
			IndexType: arrow.PrimitiveTypes.Int32,
			ValueType: arrow.BinaryTypes.String,
		}
	case ArrayVariant:
		return arrow.ListOfField(v.Element.ArrowField("item"))
	case MapVariant:
		valueField := v.Value.ArrowField("value")
		return arrow.MapOf(arrow.BinaryTypes.String, valueField.Type)
	case FixedVariant:
		return &arrow.FixedSizeBinaryType{ByteWidth: v.Size}
	case DecimalVariant:
		scale := v.Scale
		if v.Uses128BitStorage() {
			return &arrow.Decimal128Type{Precision: int32(v.Precision), Scale: int32(scale)}
		}
		return &arrow.Decimal256Type{Precision: int32(v.Precision), Scale: int32(scale)}
	default:
		return arrow.BinaryTypes.String
	}
}

func utcZone(utc bool) string {
	if utc {
		return "+00:00"
	}
	return ""
}
