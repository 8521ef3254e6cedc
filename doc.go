/*
Package avro resolves Avro schemas into a columnar, Arrow-compatible type
model and decodes Avro binary-encoded rows directly into Arrow arrays.

It covers two concerns: translating an Avro schema (and, in reverse, an
Arrow schema) into a flat columnar type tree, and decoding a run of
Avro-encoded records from an in-memory byte slice into an arrow.Record
batch. Container-file framing and CLI/config/file I/O concerns are out
of scope; the wire-level Cursor is exported from this package as the
plumbing the decoder reads rows with.

Usage Example:

	typ, err := avro.Translate([]byte(`{
		"type": "record",
		"name": "test",
		"namespace": "org.example",
		"fields" : [
			{"name": "a", "type": "long"},
			{"name": "b", "type": "string"}
		]
	}`))
	if err != nil {
		log.Fatal(err)
	}

	dec, err := avro.NewRecordDecoder(typ)
	if err != nil {
		log.Fatal(err)
	}

	n, err := dec.Decode(buf, 10)
	if err != nil {
		log.Fatal(err)
	}

	rec, err := dec.Flush()
	if err != nil {
		log.Fatal(err)
	}
	defer rec.Release()
*/
package avro
