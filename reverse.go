package avro

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// FromArrowField resolves the columnar (Arrow) view of a field back into
// the type model — the reverse of TypeNode.ArrowField. Top-level
// nullability becomes NullFirst, matching the forward direction's
// convention for the common "nullable wraps the real type" shape.
func FromArrowField(f arrow.Field) *TypeNode {
	node := fromArrowType(f.Type)
	if node.Metadata == nil {
		node.Metadata = Metadata{}
	}
	copyArrowMetadata(f.Metadata, node.Metadata)
	if f.Nullable {
		node.Nullability = NullFirst
	}
	return node
}

func copyArrowMetadata(md arrow.Metadata, dst Metadata) {
	keys := md.Keys()
	values := md.Values()
	for i, k := range keys {
		dst[k] = values[i]
	}
}

//nolint:gocyclo
func fromArrowType(dt arrow.DataType) *TypeNode {
	switch dt.ID() {
	case arrow.NULL:
		return &TypeNode{Variant: NullVariant{}}
	case arrow.BOOL:
		return &TypeNode{Variant: BoolVariant{}}
	case arrow.INT8, arrow.INT16, arrow.INT32:
		return &TypeNode{Variant: I32Variant{}}
	case arrow.INT64:
		return &TypeNode{Variant: I64Variant{}}
	case arrow.FLOAT32:
		return &TypeNode{Variant: F32Variant{}}
	case arrow.FLOAT64:
		return &TypeNode{Variant: F64Variant{}}
	case arrow.BINARY, arrow.LARGE_BINARY:
		return &TypeNode{Variant: BytesVariant{}}
	case arrow.STRING, arrow.LARGE_STRING:
		return &TypeNode{Variant: Utf8Variant{}}
	case arrow.FIXED_SIZE_BINARY:
		ft := dt.(*arrow.FixedSizeBinaryType)
		return &TypeNode{Variant: FixedVariant{Size: ft.ByteWidth}}
	case arrow.DECIMAL128:
		dtp := dt.(*arrow.Decimal128Type)
		return &TypeNode{Variant: DecimalVariant{Precision: int(dtp.Precision), Scale: int(dtp.Scale), Size: 16}}
	case arrow.DECIMAL256:
		dtp := dt.(*arrow.Decimal256Type)
		return &TypeNode{Variant: DecimalVariant{Precision: int(dtp.Precision), Scale: int(dtp.Scale), Size: 32}}
	case arrow.DATE32:
		return &TypeNode{Variant: Date32Variant{}}
	case arrow.TIME32:
		return &TypeNode{Variant: TimeMillisVariant{}}
	case arrow.TIME64:
		return &TypeNode{Variant: TimeMicrosVariant{}}
	case arrow.TIMESTAMP:
		tt := dt.(*arrow.TimestampType)
		utc := tt.TimeZone != ""
		if tt.Unit == arrow.Microsecond {
			return &TypeNode{Variant: TimestampMicrosVariant{UTC: utc}}
		}
		return &TypeNode{Variant: TimestampMillisVariant{UTC: utc}}
	case arrow.INTERVAL_MONTH_DAY_NANO:
		return &TypeNode{Variant: DurationVariant{}}
	case arrow.DICTIONARY:
		dict := dt.(*arrow.DictionaryType)
		if id := dict.ValueType.ID(); id == arrow.STRING || id == arrow.LARGE_STRING {
			return &TypeNode{Variant: EnumVariant{}}
		}
		return &TypeNode{Variant: Utf8Variant{}}
	case arrow.STRUCT:
		st := dt.(*arrow.StructType)
		fields := make([]*Field, st.NumFields())
		for i := 0; i < st.NumFields(); i++ {
			af := st.Field(i)
			fields[i] = &Field{Name: af.Name, Type: FromArrowField(af)}
		}
		return &TypeNode{Variant: RecordVariant{Fields: fields}}
	case arrow.LIST:
		lt := dt.(*arrow.ListType)
		return &TypeNode{Variant: ArrayVariant{Element: FromArrowField(lt.ElemField())}}
	case arrow.LARGE_LIST:
		lt := dt.(*arrow.LargeListType)
		return &TypeNode{Variant: ArrayVariant{Element: FromArrowField(lt.ElemField())}}
	case arrow.MAP:
		mt := dt.(*arrow.MapType)
		return &TypeNode{Variant: MapVariant{Value: FromArrowField(mt.ItemField())}}
	default:
		return &TypeNode{Variant: Utf8Variant{}}
	}
}
