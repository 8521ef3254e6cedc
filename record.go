package avro

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// RecordDecoder turns a binary stream of Avro-encoded rows, all sharing
// a single top-level record schema, into Arrow record batches. It keeps
// one columnBuilder per top-level field and flushes them together so
// every column in a returned batch shares the same row count.
type RecordDecoder struct {
	typ    *TypeNode
	mem    memory.Allocator
	schema *arrow.Schema
	fields []*fieldBuilder
	rows   int64
	cursor *Cursor
}

// NewRecordDecoder builds a decoder for t, which must be a record type
// node (typically the result of Translate or FromArrowField on a
// struct-typed field).
func NewRecordDecoder(t *TypeNode) (*RecordDecoder, error) {
	rec, ok := t.Variant.(RecordVariant)
	if !ok {
		return nil, fmt.Errorf("%w: top-level type must be a record, got %T", ErrParse, t.Variant)
	}

	mem := memory.NewGoAllocator()

	arrowFields := make([]arrow.Field, len(rec.Fields))
	fields := make([]*fieldBuilder, len(rec.Fields))
	for i, f := range rec.Fields {
		arrowFields[i] = f.Type.ArrowField(f.Name)
		inner, err := newColumnBuilder(mem, f.Type)
		if err != nil {
			for _, built := range fields[:i] {
				if built != nil {
					built.release()
				}
			}
			return nil, err
		}
		fields[i] = &fieldBuilder{typ: f.Type, inner: inner}
	}

	return &RecordDecoder{
		typ:    t,
		mem:    mem,
		schema: arrow.NewSchema(arrowFields, nil),
		fields: fields,
		cursor: NewCursor(nil),
	}, nil
}

// Schema returns the Arrow schema this decoder produces batches under.
func (d *RecordDecoder) Schema() *arrow.Schema {
	return d.schema
}

// Decode reads count rows from buf, starting at its beginning, appending
// their values into the decoder's column builders. It returns the
// number of bytes consumed from buf.
func (d *RecordDecoder) Decode(buf []byte, count int) (int, error) {
	d.cursor.Reset(buf)
	for i := 0; i < count; i++ {
		for _, fb := range d.fields {
			if err := fb.decode(d.cursor); err != nil {
				return d.cursor.Pos(), err
			}
		}
		d.rows++
	}
	return d.cursor.Pos(), nil
}

// Flush drains the accumulated rows into a single Arrow record batch,
// resetting every column builder so decoding can continue for the next
// batch. The caller owns the returned record and must call Release on
// it.
func (d *RecordDecoder) Flush() (arrow.Record, error) {
	cols := make([]arrow.Array, len(d.fields))
	for i, fb := range d.fields {
		cols[i] = fb.newArray()
	}
	defer func() {
		for _, c := range cols {
			c.Release()
		}
	}()

	rec := array.NewRecord(d.schema, cols, d.rows)
	d.rows = 0
	return rec, nil
}

// Release frees the memory held by the decoder's column builders. Call
// it once decoding is finished; it is not needed between Flush calls.
func (d *RecordDecoder) Release() {
	for _, fb := range d.fields {
		fb.release()
	}
}
