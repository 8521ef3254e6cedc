package avro

import "errors"

// ErrParse is returned when an Avro schema document cannot be parsed into
// the columnar type model, for example when a required attribute is
// missing or malformed.
var ErrParse = errors.New("avro: parse error")

// ErrNotImplemented is returned when a schema uses a construct this
// package deliberately does not resolve, such as a union with more than
// two branches or a non-nullable union.
var ErrNotImplemented = errors.New("avro: not implemented")
