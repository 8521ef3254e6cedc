package avro

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranslateRecordDefaultMetadata(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Widget",
		"fields": [
			{"name": "count", "type": "int", "default": 42}
		]
	}`)

	node, err := Translate(schema)
	require.NoError(t, err)

	rec, ok := node.Variant.(RecordVariant)
	require.True(t, ok)
	require.Len(t, rec.Fields, 1)
	require.Equal(t, "42", rec.Fields[0].Type.Metadata["avro.default"])
}

func TestTranslateNullableUnion(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Widget",
		"fields": [
			{"name": "name", "type": ["null", "string"]},
			{"name": "tag", "type": ["string", "null"]}
		]
	}`)

	node, err := Translate(schema)
	require.NoError(t, err)
	rec := node.Variant.(RecordVariant)

	require.Equal(t, NullFirst, rec.Fields[0].Type.Nullability)
	require.IsType(t, Utf8Variant{}, rec.Fields[0].Type.Variant)

	require.Equal(t, NullSecond, rec.Fields[1].Type.Nullability)
	require.IsType(t, Utf8Variant{}, rec.Fields[1].Type.Variant)
}

func TestTranslateRejectsWideUnion(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Widget",
		"fields": [
			{"name": "v", "type": ["null", "string", "int"]}
		]
	}`)

	_, err := Translate(schema)
	require.ErrorIs(t, err, ErrNotImplemented)
}

func TestTranslateDecimalOnBytes(t *testing.T) {
	schema := []byte(`{"type": "bytes", "logicalType": "decimal", "precision": 9, "scale": 2}`)

	node, err := Translate(schema)
	require.NoError(t, err)

	dec, ok := node.Variant.(DecimalVariant)
	require.True(t, ok)
	require.Equal(t, 9, dec.Precision)
	require.Equal(t, 2, dec.Scale)
	require.True(t, dec.Uses128BitStorage())
}

func TestTranslateDurationFixed(t *testing.T) {
	schema := []byte(`{"type": "fixed", "name": "dur", "size": 12, "logicalType": "duration"}`)

	node, err := Translate(schema)
	require.NoError(t, err)
	require.IsType(t, DurationVariant{}, node.Variant)
}

func TestTranslateEnumAndNamedReference(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Order",
		"namespace": "com.example",
		"fields": [
			{"name": "status", "type": {"type": "enum", "name": "Status", "symbols": ["NEW", "DONE"]}},
			{"name": "retryStatus", "type": "com.example.Status"}
		]
	}`)

	node, err := Translate(schema)
	require.NoError(t, err)
	rec := node.Variant.(RecordVariant)

	enum, ok := rec.Fields[0].Type.Variant.(EnumVariant)
	require.True(t, ok)
	require.Equal(t, []string{"NEW", "DONE"}, enum.Symbols)

	require.Same(t, rec.Fields[0].Type, rec.Fields[1].Type)
}

func TestTranslateUnresolvedReferenceWrapsErrParse(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Widget",
		"fields": [
			{"name": "v", "type": "com.example.Missing"}
		]
	}`)

	_, err := Translate(schema)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrParse)
}

func TestTranslateDecoratedReferenceToFixedDecimal(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Widget",
		"fields": [
			{"name": "raw", "type": {"type": "fixed", "name": "MyFixed", "size": 16}},
			{
				"name": "amount",
				"type": {"type": "MyFixed", "logicalType": "decimal", "precision": 10, "scale": 2}
			}
		]
	}`)

	node, err := Translate(schema)
	require.NoError(t, err)
	rec := node.Variant.(RecordVariant)

	require.IsType(t, FixedVariant{}, rec.Fields[0].Type.Variant)

	dec, ok := rec.Fields[1].Type.Variant.(DecimalVariant)
	require.True(t, ok)
	require.Equal(t, 10, dec.Precision)
	require.Equal(t, 2, dec.Scale)
	require.Equal(t, 16, dec.Size)

	// The shared, registered Fixed node must stay a plain Fixed.
	require.IsType(t, FixedVariant{}, rec.Fields[0].Type.Variant)
}

func TestTranslateDecoratedReferenceSizeOverride(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Widget",
		"fields": [
			{"name": "raw", "type": {"type": "fixed", "name": "MyFixed", "size": 16}},
			{
				"name": "amount",
				"type": {"type": "MyFixed", "logicalType": "decimal", "precision": 10, "scale": 2, "size": 8}
			}
		]
	}`)

	node, err := Translate(schema)
	require.NoError(t, err)
	rec := node.Variant.(RecordVariant)

	dec := rec.Fields[1].Type.Variant.(DecimalVariant)
	require.Equal(t, 8, dec.Size)
}

func TestForwardReverseRoundTrip(t *testing.T) {
	schema := []byte(`{
		"type": "record",
		"name": "Widget",
		"fields": [
			{"name": "id", "type": "long"},
			{"name": "amount", "type": {"type": "bytes", "logicalType": "decimal", "precision": 10, "scale": 2}},
			{"name": "tags", "type": {"type": "array", "items": "string"}}
		]
	}`)

	node, err := Translate(schema)
	require.NoError(t, err)

	field := node.ArrowField("widget")
	back := FromArrowField(field)

	rec, ok := back.Variant.(RecordVariant)
	require.True(t, ok)
	require.Len(t, rec.Fields, 3)
	require.IsType(t, I64Variant{}, rec.Fields[0].Type.Variant)

	dec := rec.Fields[1].Type.Variant.(DecimalVariant)
	require.Equal(t, 10, dec.Precision)
	require.Equal(t, 2, dec.Scale)

	arr := rec.Fields[2].Type.Variant.(ArrayVariant)
	require.IsType(t, Utf8Variant{}, arr.Element.Variant)
}
