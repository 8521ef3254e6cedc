package avro

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
)

// Translate parses an Avro schema document and resolves it into the
// columnar type model.
func Translate(schema []byte) (*TypeNode, error) {
	var doc any
	if err := jsoniter.Unmarshal(schema, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	r := newResolver()
	return parseType("", doc, r)
}

type nameKey struct {
	name      string
	namespace string
}

// resolver maps (name, namespace) to an already-resolved type node,
// mirroring the Rust Resolver: named types register themselves before
// recursing into children that might reference them back.
type resolver struct {
	types map[nameKey]*TypeNode
}

func newResolver() *resolver {
	return &resolver{types: make(map[nameKey]*TypeNode)}
}

func (r *resolver) register(name, namespace string, node *TypeNode) {
	r.types[nameKey{name, namespace}] = node
}

func (r *resolver) resolve(namespace, ref string) (*TypeNode, error) {
	name, ns := splitRef(ref, namespace)
	if node, ok := r.types[nameKey{name, ns}]; ok {
		return node, nil
	}

	full := ref
	if ns != "" && !strings.Contains(ref, ".") {
		full = ns + "." + ref
	}
	return nil, fmt.Errorf("%w: failed to resolve %s", ErrParse, full)
}

// splitRef splits a named reference on the last dot, since a namespace
// may itself legally contain dots.
func splitRef(ref, inherited string) (name, namespace string) {
	if idx := strings.LastIndex(ref, "."); idx >= 0 {
		return ref[idx+1:], ref[:idx]
	}
	return ref, inherited
}

// resolveFullName determines the (name, namespace) pair for a named
// schema definition: a dotted name is a full name overriding any
// namespace attribute, otherwise an explicit namespace attribute wins,
// falling back to the inherited namespace.
func resolveFullName(rawName, rawNamespace, inherited string, hasNamespace bool) (name, namespace string) {
	if idx := strings.LastIndex(rawName, "."); idx >= 0 {
		return rawName[idx+1:], rawName[:idx]
	}
	if hasNamespace && rawNamespace != "" {
		return rawName, rawNamespace
	}
	return rawName, inherited
}

func hasKey(keys []string, k string) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

// decodeMap decodes a raw JSON-object node into dst using mapstructure,
// capturing which keys were consumed in meta so callers can tell which
// attributes landed in a ",remain" catch-all.
func decodeMap(m map[string]any, dst any, meta *mapstructure.Metadata) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata:         meta,
		Result:           dst,
		WeaklyTypedInput: true,
	}
	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

// metadataFromProps stringifies leftover schema attributes into the
// type node's metadata bag.
func metadataFromProps(props map[string]any) Metadata {
	if len(props) == 0 {
		return nil
	}
	md := make(Metadata, len(props))
	for k, v := range props {
		switch s := v.(type) {
		case string:
			md[k] = s
		default:
			b, err := jsoniter.Marshal(v)
			if err == nil {
				md[k] = string(b)
			}
		}
	}
	return md
}

func parseType(namespace string, v any, r *resolver) (*TypeNode, error) {
	switch val := v.(type) {
	case nil:
		return &TypeNode{Variant: NullVariant{}}, nil
	case string:
		return parsePrimitiveOrRef(namespace, val, r)
	case map[string]any:
		return parseComplexType(namespace, val, r)
	case []any:
		return parseUnion(namespace, val, r)
	default:
		return nil, fmt.Errorf("%w: unknown type: %v", ErrParse, v)
	}
}

func parsePrimitiveOrRef(namespace, s string, r *resolver) (*TypeNode, error) {
	if v, ok := primitiveVariant(s); ok {
		return &TypeNode{Variant: v}, nil
	}
	return r.resolve(namespace, s)
}

func primitiveVariant(s string) (Variant, bool) {
	switch s {
	case "null":
		return NullVariant{}, true
	case "boolean":
		return BoolVariant{}, true
	case "int":
		return I32Variant{}, true
	case "long":
		return I64Variant{}, true
	case "float":
		return F32Variant{}, true
	case "double":
		return F64Variant{}, true
	case "bytes":
		return BytesVariant{}, true
	case "string":
		return Utf8Variant{}, true
	default:
		return nil, false
	}
}

func parseComplexType(namespace string, m map[string]any, r *resolver) (*TypeNode, error) {
	switch t := m["type"].(type) {
	case []any:
		return parseUnion(namespace, t, r)
	case string:
		switch t {
		case "record", "error":
			return parseRecord(namespace, m, r)
		case "enum":
			return parseEnum(namespace, m, r)
		case "array":
			return parseArrayNode(namespace, m, r)
		case "map":
			return parseMapNode(namespace, m, r)
		case "fixed":
			return parseFixedNode(namespace, m, r)
		default:
			if _, ok := primitiveVariant(t); ok {
				return parseDecoratedPrimitive(namespace, t, m)
			}
			return parseDecoratedReference(namespace, t, m, r)
		}
	default:
		return nil, fmt.Errorf("%w: schema object missing a type", ErrParse)
	}
}

type rawDecorated struct {
	Type        string         `mapstructure:"type"`
	LogicalType string         `mapstructure:"logicalType"`
	Precision   int            `mapstructure:"precision"`
	Scale       int            `mapstructure:"scale"`
	Props       map[string]any `mapstructure:",remain"`
}

func parseDecoratedPrimitive(namespace, prim string, m map[string]any) (*TypeNode, error) {
	var (
		raw  rawDecorated
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	base, _ := primitiveVariant(prim)
	node := &TypeNode{Variant: base, Metadata: metadataFromProps(raw.Props)}

	if !hasKey(meta.Keys, "logicalType") || raw.LogicalType == "" {
		return node, nil
	}

	switch {
	case prim == "string" && raw.LogicalType == "uuid":
		node.Variant = UuidVariant{}
	case prim == "int" && raw.LogicalType == "date":
		node.Variant = Date32Variant{}
	case prim == "int" && raw.LogicalType == "time-millis":
		node.Variant = TimeMillisVariant{}
	case prim == "long" && raw.LogicalType == "time-micros":
		node.Variant = TimeMicrosVariant{}
	case prim == "long" && raw.LogicalType == "timestamp-millis":
		node.Variant = TimestampMillisVariant{UTC: true}
	case prim == "long" && raw.LogicalType == "timestamp-micros":
		node.Variant = TimestampMicrosVariant{UTC: true}
	case prim == "long" && raw.LogicalType == "local-timestamp-millis":
		node.Variant = TimestampMillisVariant{UTC: false}
	case prim == "long" && raw.LogicalType == "local-timestamp-micros":
		node.Variant = TimestampMicrosVariant{UTC: false}
	case prim == "bytes" && raw.LogicalType == "decimal":
		node.Variant = DecimalVariant{Precision: raw.Precision, Scale: raw.Scale}
	default:
		if node.Metadata == nil {
			node.Metadata = Metadata{}
		}
		node.Metadata["logicalType"] = raw.LogicalType
	}

	return node, nil
}

type rawDecoratedRef struct {
	Type        string         `mapstructure:"type"`
	LogicalType string         `mapstructure:"logicalType"`
	Precision   int            `mapstructure:"precision"`
	Scale       int            `mapstructure:"scale"`
	Size        int            `mapstructure:"size"`
	Props       map[string]any `mapstructure:",remain"`
}

// parseDecoratedReference handles a named-type reference that itself
// carries logical-type attributes, e.g. a reference to a previously
// defined Fixed decorated with logicalType: decimal. The resolved base
// type is never mutated in place, since the same named type may be
// referenced elsewhere without the decoration.
func parseDecoratedReference(namespace, ref string, m map[string]any, r *resolver) (*TypeNode, error) {
	base, err := r.resolve(namespace, ref)
	if err != nil {
		return nil, err
	}

	var (
		raw  rawDecoratedRef
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if !hasKey(meta.Keys, "logicalType") || raw.LogicalType != "decimal" {
		return base, nil
	}

	fixed, ok := base.Variant.(FixedVariant)
	if !ok {
		return base, nil
	}

	size := fixed.Size
	if hasKey(meta.Keys, "size") {
		size = raw.Size
	}

	return &TypeNode{
		Variant:  DecimalVariant{Precision: raw.Precision, Scale: raw.Scale, Size: size},
		Metadata: base.Metadata,
	}, nil
}

type rawRecord struct {
	Type      string         `mapstructure:"type"`
	Name      string         `mapstructure:"name"`
	Namespace string         `mapstructure:"namespace"`
	Fields    []any          `mapstructure:"fields"`
	Props     map[string]any `mapstructure:",remain"`
}

type rawField struct {
	Name    string         `mapstructure:"name"`
	Type    any            `mapstructure:"type"`
	Default any            `mapstructure:"default"`
	Props   map[string]any `mapstructure:",remain"`
}

func parseRecord(namespace string, m map[string]any, r *resolver) (*TypeNode, error) {
	var (
		raw  rawRecord
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: record requires a name", ErrParse)
	}

	name, ns := resolveFullName(raw.Name, raw.Namespace, namespace, hasKey(meta.Keys, "namespace"))

	node := &TypeNode{Variant: RecordVariant{}, Metadata: metadataFromProps(raw.Props)}
	r.register(name, ns, node)

	fields := make([]*Field, len(raw.Fields))
	for i, rf := range raw.Fields {
		fm, ok := rf.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: invalid field at index %d", ErrParse, i)
		}
		field, err := parseField(ns, fm, r)
		if err != nil {
			return nil, err
		}
		fields[i] = field
	}

	node.Variant = RecordVariant{Fields: fields}
	return node, nil
}

func parseField(namespace string, m map[string]any, r *resolver) (*Field, error) {
	var (
		raw  rawField
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: field requires a name", ErrParse)
	}
	if !hasKey(meta.Keys, "type") {
		return nil, fmt.Errorf("%w: field %q requires a type", ErrParse, raw.Name)
	}

	typ, err := parseType(namespace, raw.Type, r)
	if err != nil {
		return nil, err
	}

	if len(raw.Props) > 0 {
		if typ.Metadata == nil {
			typ.Metadata = Metadata{}
		}
		for k, v := range metadataFromProps(raw.Props) {
			typ.Metadata[k] = v
		}
	}

	var def *string
	if hasKey(meta.Keys, "default") {
		b, err := jsoniter.Marshal(raw.Default)
		if err == nil {
			s := string(b)
			def = &s
			if typ.Metadata == nil {
				typ.Metadata = Metadata{}
			}
			typ.Metadata["avro.default"] = s
		}
	}

	return &Field{Name: raw.Name, Type: typ, Default: def}, nil
}

type rawEnum struct {
	Type      string         `mapstructure:"type"`
	Name      string         `mapstructure:"name"`
	Namespace string         `mapstructure:"namespace"`
	Symbols   []any          `mapstructure:"symbols"`
	Props     map[string]any `mapstructure:",remain"`
}

func parseEnum(namespace string, m map[string]any, r *resolver) (*TypeNode, error) {
	var (
		raw  rawEnum
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: enum requires a name", ErrParse)
	}
	if len(raw.Symbols) == 0 {
		return nil, fmt.Errorf("%w: enum must have a non-empty array of symbols", ErrParse)
	}

	name, ns := resolveFullName(raw.Name, raw.Namespace, namespace, hasKey(meta.Keys, "namespace"))

	symbols := make([]string, len(raw.Symbols))
	for i, s := range raw.Symbols {
		str, ok := s.(string)
		if !ok {
			return nil, fmt.Errorf("%w: invalid enum symbol %+v", ErrParse, s)
		}
		symbols[i] = str
	}

	node := &TypeNode{Variant: EnumVariant{Symbols: symbols}, Metadata: metadataFromProps(raw.Props)}
	r.register(name, ns, node)
	return node, nil
}

type rawArray struct {
	Type  string         `mapstructure:"type"`
	Items any            `mapstructure:"items"`
	Props map[string]any `mapstructure:",remain"`
}

func parseArrayNode(namespace string, m map[string]any, r *resolver) (*TypeNode, error) {
	var (
		raw  rawArray
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if !hasKey(meta.Keys, "items") {
		return nil, fmt.Errorf("%w: array must have an items key", ErrParse)
	}

	elem, err := parseType(namespace, raw.Items, r)
	if err != nil {
		return nil, err
	}
	return &TypeNode{Variant: ArrayVariant{Element: elem}, Metadata: metadataFromProps(raw.Props)}, nil
}

type rawMap struct {
	Type   string         `mapstructure:"type"`
	Values any            `mapstructure:"values"`
	Props  map[string]any `mapstructure:",remain"`
}

func parseMapNode(namespace string, m map[string]any, r *resolver) (*TypeNode, error) {
	var (
		raw  rawMap
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if !hasKey(meta.Keys, "values") {
		return nil, fmt.Errorf("%w: map must have a values key", ErrParse)
	}

	val, err := parseType(namespace, raw.Values, r)
	if err != nil {
		return nil, err
	}
	return &TypeNode{Variant: MapVariant{Value: val}, Metadata: metadataFromProps(raw.Props)}, nil
}

type rawFixed struct {
	Type        string         `mapstructure:"type"`
	Name        string         `mapstructure:"name"`
	Namespace   string         `mapstructure:"namespace"`
	Size        int            `mapstructure:"size"`
	LogicalType string         `mapstructure:"logicalType"`
	Precision   int            `mapstructure:"precision"`
	Scale       int            `mapstructure:"scale"`
	Props       map[string]any `mapstructure:",remain"`
}

func parseFixedNode(namespace string, m map[string]any, r *resolver) (*TypeNode, error) {
	var (
		raw  rawFixed
		meta mapstructure.Metadata
	)
	if err := decodeMap(m, &raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("%w: fixed requires a name", ErrParse)
	}
	if !hasKey(meta.Keys, "size") {
		return nil, fmt.Errorf("%w: fixed requires a size", ErrParse)
	}

	name, ns := resolveFullName(raw.Name, raw.Namespace, namespace, hasKey(meta.Keys, "namespace"))

	md := metadataFromProps(raw.Props)
	var variant Variant = FixedVariant{Size: raw.Size}
	if hasKey(meta.Keys, "logicalType") && raw.LogicalType != "" {
		switch raw.LogicalType {
		case "duration":
			if raw.Size == 12 {
				variant = DurationVariant{}
			} else {
				md = withMetadata(md, "logicalType", raw.LogicalType)
			}
		case "decimal":
			variant = DecimalVariant{Precision: raw.Precision, Scale: raw.Scale, Size: raw.Size}
		default:
			md = withMetadata(md, "logicalType", raw.LogicalType)
		}
	}

	node := &TypeNode{Variant: variant, Metadata: md}
	r.register(name, ns, node)
	return node, nil
}

func withMetadata(md Metadata, k, v string) Metadata {
	if md == nil {
		md = Metadata{}
	}
	md[k] = v
	return md
}

func isNullBranch(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == "null"
	}
	if m, ok := v.(map[string]any); ok {
		if t, ok := m["type"].(string); ok {
			return t == "null"
		}
	}
	return false
}

func parseUnion(namespace string, branches []any, r *resolver) (*TypeNode, error) {
	if len(branches) != 2 {
		return nil, fmt.Errorf(
			"%w: unions must have exactly two branches, one of which is null", ErrNotImplemented,
		)
	}

	nullIdx := -1
	nullCount := 0
	for i, b := range branches {
		if isNullBranch(b) {
			nullCount++
			nullIdx = i
		}
	}
	if nullCount != 1 {
		return nil, fmt.Errorf(
			"%w: unions must have exactly two branches, one of which is null", ErrNotImplemented,
		)
	}

	otherIdx := 1 - nullIdx
	inner, err := parseType(namespace, branches[otherIdx], r)
	if err != nil {
		return nil, err
	}

	if nullIdx == 0 {
		inner.Nullability = NullFirst
	} else {
		inner.Nullability = NullSecond
	}
	return inner, nil
}
