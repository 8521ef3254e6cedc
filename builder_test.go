package avro

import (
	"math/big"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/require"
)

func singleFieldRecord(t *TypeNode) *TypeNode {
	return &TypeNode{Variant: RecordVariant{Fields: []*Field{{Name: "col0", Type: t}}}}
}

func TestDecodeFixedTwoRows(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: FixedVariant{Size: 4}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	wire := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x23, 0x45, 0x67}
	n, err := dec.Decode(wire, 2)
	require.NoError(t, err)
	require.Equal(t, len(wire), n)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.FixedSizeBinary)
	require.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, col.Value(0))
	require.Equal(t, []byte{0x01, 0x23, 0x45, 0x67}, col.Value(1))
}

func TestDecodeDurationTwoRows(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: DurationVariant{}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	wire := []byte{
		0x01, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00, 0x00, 0x64, 0x00, 0x00, 0x00,
		0xFF, 0xFF, 0xFF, 0xFF, 0x0A, 0x00, 0x00, 0x00, 0x0F, 0x27, 0x00, 0x00,
	}
	_, err = dec.Decode(wire, 2)
	require.NoError(t, err)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.MonthDayNanoInterval)
	v0 := col.Value(0)
	require.Equal(t, int32(1), v0.Months)
	require.Equal(t, int32(2), v0.Days)
	require.Equal(t, int64(100_000_000), v0.Nanoseconds)

	v1 := col.Value(1)
	require.Equal(t, int32(-1), v1.Months)
	require.Equal(t, int32(10), v1.Days)
	require.Equal(t, int64(9_999_000_000), v1.Nanoseconds)
}

func TestDecodeEnumThreeRows(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: EnumVariant{Symbols: []string{"RED", "GREEN", "BLUE"}}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	var wire []byte
	wire = append(wire, encodeInt(1)...)
	wire = append(wire, encodeInt(0)...)
	wire = append(wire, encodeInt(2)...)
	_, err = dec.Decode(wire, 3)
	require.NoError(t, err)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.Dictionary)
	values := col.Dictionary().(*array.String)
	require.Equal(t, "GREEN", values.Value(col.GetValueIndex(0)))
	require.Equal(t, "RED", values.Value(col.GetValueIndex(1)))
	require.Equal(t, "BLUE", values.Value(col.GetValueIndex(2)))
}

func TestDecodeNullableDecimalThreeRows(t *testing.T) {
	field := &TypeNode{
		Variant:     DecimalVariant{Precision: 4, Scale: 1},
		Nullability: NullSecond,
	}
	rec := singleFieldRecord(field)
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	var wire []byte
	wire = append(wire, encodeInt(0)...)
	wire = append(wire, encodeBytes([]byte{0x04, 0xD2})...)
	wire = append(wire, encodeInt(1)...)
	wire = append(wire, encodeInt(0)...)
	wire = append(wire, encodeBytes([]byte{0xFB, 0x2E})...)
	_, err = dec.Decode(wire, 3)
	require.NoError(t, err)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.Decimal128)
	require.True(t, col.IsValid(0))
	require.False(t, col.IsValid(1))
	require.True(t, col.IsValid(2))

	require.Equal(t, big.NewInt(1234), col.Value(0).BigInt())
	require.Equal(t, big.NewInt(-1234), col.Value(2).BigInt())
}

func TestDecodeListOfIntTwoRows(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: ArrayVariant{Element: &TypeNode{Variant: I32Variant{}}}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	var wire []byte
	wire = append(wire, encodeLong(2)...)
	wire = append(wire, encodeInt(10)...)
	wire = append(wire, encodeInt(20)...)
	wire = append(wire, encodeLong(0)...)
	wire = append(wire, encodeLong(0)...)
	_, err = dec.Decode(wire, 2)
	require.NoError(t, err)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.List)
	values := col.ListValues().(*array.Int32)
	offsets := col.Offsets()

	require.Equal(t, []int32{10, 20}, values.Int32Values()[offsets[0]:offsets[1]])
	require.Equal(t, offsets[1], offsets[2])
}

func TestDecodeListNegativeBlock(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: ArrayVariant{Element: &TypeNode{Variant: I32Variant{}}}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	var wire []byte
	wire = append(wire, encodeLong(-3)...)
	wire = append(wire, encodeLong(12)...)
	wire = append(wire, encodeInt(1)...)
	wire = append(wire, encodeInt(2)...)
	wire = append(wire, encodeInt(3)...)
	wire = append(wire, encodeLong(0)...)
	_, err = dec.Decode(wire, 1)
	require.NoError(t, err)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.List)
	values := col.ListValues().(*array.Int32)
	offsets := col.Offsets()
	require.Equal(t, []int32{1, 2, 3}, values.Int32Values()[offsets[0]:offsets[1]])
}

func TestDecodeMapOfStringOneRow(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: MapVariant{Value: &TypeNode{Variant: Utf8Variant{}}}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	var wire []byte
	wire = append(wire, encodeLong(1)...)
	wire = append(wire, encodeString("hello")...)
	wire = append(wire, encodeString("world")...)
	wire = append(wire, encodeLong(0)...)
	_, err = dec.Decode(wire, 1)
	require.NoError(t, err)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.Map)
	offsets := col.Offsets()
	require.Equal(t, int32(1), offsets[1]-offsets[0])

	keys := col.Keys().(*array.String)
	items := col.Items().(*array.String)
	require.Equal(t, "hello", keys.Value(int(offsets[0])))
	require.Equal(t, "world", items.Value(int(offsets[0])))
}

func TestDecodeDecimalOversizedFixedReturnsErrParse(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: DecimalVariant{Precision: 20, Scale: 0, Size: 50}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	wire := make([]byte, 50)
	_, err = dec.Decode(wire, 1)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrParse)
}

func TestDecodeDecimalPrecisionOverflowReturnsErrParse(t *testing.T) {
	rec := singleFieldRecord(&TypeNode{Variant: DecimalVariant{Precision: 4, Scale: 0}})
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	wire := encodeBytes([]byte{0x01, 0x86, 0xA0}) // 100000, 6 digits > precision 4
	_, err = dec.Decode(wire, 1)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrParse)
}

func TestDecodeNullableMapRowsStayAligned(t *testing.T) {
	field := &TypeNode{
		Variant:     MapVariant{Value: &TypeNode{Variant: Utf8Variant{}}},
		Nullability: NullFirst,
	}
	rec := singleFieldRecord(field)
	dec, err := NewRecordDecoder(rec)
	require.NoError(t, err)
	defer dec.Release()

	var wire []byte
	wire = append(wire, encodeInt(0)...) // NullFirst branch 0: null
	wire = append(wire, encodeInt(1)...) // branch 1: present
	wire = append(wire, encodeLong(1)...)
	wire = append(wire, encodeString("k")...)
	wire = append(wire, encodeString("v")...)
	wire = append(wire, encodeLong(0)...)
	_, err = dec.Decode(wire, 2)
	require.NoError(t, err)

	batch, err := dec.Flush()
	require.NoError(t, err)
	defer batch.Release()

	col := batch.Column(0).(*array.Map)
	require.False(t, col.IsValid(0))
	require.True(t, col.IsValid(1))

	offsets := col.Offsets()
	require.Equal(t, offsets[0], offsets[1])
	require.Equal(t, int32(1), offsets[2]-offsets[1])

	keys := col.Keys().(*array.String)
	items := col.Items().(*array.String)
	require.Equal(t, "k", keys.Value(int(offsets[1])))
	require.Equal(t, "v", items.Value(int(offsets[1])))
}

func TestArrowField(t *testing.T) {
	node := &TypeNode{Variant: I32Variant{}, Nullability: NullFirst}
	f := node.ArrowField("count")
	require.Equal(t, "count", f.Name)
	require.True(t, f.Nullable)
	require.Equal(t, arrow.PrimitiveTypes.Int32, f.Type)
}
