package datamodel

import "fmt"

// ErrWrongKind is returned when a method is invoked on a Node for which
// that operation doesn't make sense given the Node's Kind.
//
// Grounded on go-ipld-prime's datamodel.ErrWrongKind: same field shape,
// trimmed to this module's single concrete Node type (no TypeName, since
// there is no typed-node layer here).
type ErrWrongKind struct {
	MethodName      string
	ActualKind      Kind
	AppropriateKind Kind
}

func (e ErrWrongKind) Error() string {
	return fmt.Sprintf("func called on wrong kind: %q called on a %s node, but only makes sense on %s", e.MethodName, e.ActualKind, e.AppropriateKind)
}

// ErrRepeatedMapKey indicates a Map was asked to hold two entries with the
// same key. No codec in this module ever decodes such a Map; it can only
// arise from misuse of a MapBuilder.
type ErrRepeatedMapKey struct {
	Key string
}

func (e ErrRepeatedMapKey) Error() string {
	return fmt.Sprintf("cannot repeat map key %q", e.Key)
}

// DecodeError is the common shape returned by every Decoder in this
// module. Kind names one of the fixed error kinds below; Offset is a
// best-effort byte offset into the input, -1 if not applicable.
type DecodeError struct {
	Kind   string
	Detail string
	Offset int64
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Offset, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newDecodeError(kind, detail string, offset int64) *DecodeError {
	return &DecodeError{Kind: kind, Detail: detail, Offset: offset}
}

// The following constructors name every error kind a decoder in this
// module can return. Each decoder package calls these rather than
// building *DecodeError literals directly, so the kind strings stay
// centralized and consistent.

func ErrUnexpectedEOF(offset int64) error {
	return newDecodeError("UnexpectedEof", "input ended mid-value", offset)
}

func ErrTrailingBytes(offset int64) error {
	return newDecodeError("TrailingBytes", "decode produced a complete value but bytes remain", offset)
}

func ErrInvalidUTF8(offset int64) error {
	return newDecodeError("InvalidUtf8", "string bytes are not valid UTF-8", offset)
}

func ErrNotCanonical(reason string, offset int64) error {
	return newDecodeError("NotCanonical", reason, offset)
}

func ErrUnsupportedTag(detail string, offset int64) error {
	return newDecodeError("UnsupportedTag", detail, offset)
}

func ErrUnsupportedType(detail string, offset int64) error {
	return newDecodeError("UnsupportedType", detail, offset)
}

func ErrDuplicateKey(key string, offset int64) error {
	return newDecodeError("DuplicateKey", fmt.Sprintf("duplicate map key %q", key), offset)
}

func ErrIntegerOutOfRange(detail string, offset int64) error {
	return newDecodeError("IntegerOutOfRange", detail, offset)
}

func ErrFloatNotFinite(offset int64) error {
	return newDecodeError("FloatNotFinite", "NaN or infinite float on the wire", offset)
}

func ErrInvalidCid(detail string, offset int64) error {
	return newDecodeError("InvalidCid", detail, offset)
}

func ErrLengthMismatch(declared, remaining int64, offset int64) error {
	return newDecodeError("LengthMismatch", fmt.Sprintf("declared length %d exceeds %d remaining bytes", declared, remaining), offset)
}

func ErrDepthExceeded(limit int) error {
	return newDecodeError("DepthExceeded", fmt.Sprintf("recursion limit of %d exceeded", limit), -1)
}

func ErrSchemaViolation(detail string, offset int64) error {
	return newDecodeError("SchemaViolation", detail, offset)
}

// ErrorKind reports the taxonomy name of a *DecodeError, or "" for any other
// error (including nil). It exists for diagnostics (the CLI uses it); it
// is not part of the programmatic decode contract, which is "typed error
// or nil".
func ErrorKind(err error) string {
	if de, ok := err.(*DecodeError); ok {
		return de.Kind
	}
	return ""
}
