// Package wire implements the binary codec for the chat protocol.
//
// Messages are encoded as protobuf-style tagged fields (field number +
// wire type + value) using the low-level protowire primitives; there is
// no generated code. Decoding is permissive by contract:
//
//   - absent optional fields decode to zero values, never errors
//   - unknown field numbers are skipped deterministically
//   - a known field encoded with an unexpected wire type is skipped
//   - only structurally invalid bytes (truncated varint, truncated
//     length-delimited value, bad tag) fail, with *DecodeError
//
// Load-bearing presence (unset vs explicit false) is modeled with
// pointer fields on the decoded types.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// DecodeErrorKind classifies decode errors.
type DecodeErrorKind int

const (
	// KindMalformedFrame indicates structurally invalid bytes. The frame
	// is unrecoverable; subsequent frames in a batch are unaffected.
	KindMalformedFrame DecodeErrorKind = iota
)

// DecodeError represents a codec failure.
type DecodeError struct {
	Kind DecodeErrorKind
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// malformed builds a KindMalformedFrame decode error.
func malformed(msg string, err error) *DecodeError {
	return &DecodeError{Kind: KindMalformedFrame, Msg: msg, Err: err}
}

// dec walks the fields of one encoded message.
type dec struct {
	buf []byte
	num protowire.Number
	typ protowire.Type
}

func newDec(b []byte) *dec {
	return &dec{buf: b}
}

// next advances to the next field tag. Returns false at end of input.
func (d *dec) next() (bool, error) {
	if len(d.buf) == 0 {
		return false, nil
	}
	num, typ, n := protowire.ConsumeTag(d.buf)
	if n < 0 {
		return false, malformed("malformed field tag", protowire.ParseError(n))
	}
	d.buf = d.buf[n:]
	d.num, d.typ = num, typ
	return true, nil
}

// skip consumes the current field's value without interpreting it.
func (d *dec) skip() error {
	n := protowire.ConsumeFieldValue(d.num, d.typ, d.buf)
	if n < 0 {
		return malformed(fmt.Sprintf("malformed value for field %d", d.num), protowire.ParseError(n))
	}
	d.buf = d.buf[n:]
	return nil
}

// varint consumes the current field as a varint. ok is false (and the
// value skipped) when the field was encoded with a different wire type.
func (d *dec) varint() (uint64, bool, error) {
	if d.typ != protowire.VarintType {
		return 0, false, d.skip()
	}
	v, n := protowire.ConsumeVarint(d.buf)
	if n < 0 {
		return 0, false, malformed(fmt.Sprintf("truncated varint in field %d", d.num), protowire.ParseError(n))
	}
	d.buf = d.buf[n:]
	return v, true, nil
}

// bytes consumes the current field as a length-delimited value. The
// returned slice aliases the input buffer.
func (d *dec) bytes() ([]byte, bool, error) {
	if d.typ != protowire.BytesType {
		return nil, false, d.skip()
	}
	v, n := protowire.ConsumeBytes(d.buf)
	if n < 0 {
		return nil, false, malformed(fmt.Sprintf("truncated length-delimited field %d", d.num), protowire.ParseError(n))
	}
	d.buf = d.buf[n:]
	return v, true, nil
}

// getString decodes the current field into dst, skipping on wire type
// mismatch.
func (d *dec) getString(dst *string) error {
	v, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	*dst = string(v)
	return nil
}

// getBytes decodes the current field into dst as a copy.
func (d *dec) getBytes(dst *[]byte) error {
	v, ok, err := d.bytes()
	if err != nil || !ok {
		return err
	}
	*dst = append([]byte(nil), v...)
	return nil
}

// getInt64 decodes the current varint field into dst.
func (d *dec) getInt64(dst *int64) error {
	v, ok, err := d.varint()
	if err != nil || !ok {
		return err
	}
	*dst = int64(v)
	return nil
}

// getUint64 decodes the current varint field into dst.
func (d *dec) getUint64(dst *uint64) error {
	v, ok, err := d.varint()
	if err != nil || !ok {
		return err
	}
	*dst = v
	return nil
}

// getInt32 decodes the current varint field into dst.
func (d *dec) getInt32(dst *int32) error {
	v, ok, err := d.varint()
	if err != nil || !ok {
		return err
	}
	*dst = int32(v)
	return nil
}

// getBool decodes the current varint field into dst.
func (d *dec) getBool(dst *bool) error {
	v, ok, err := d.varint()
	if err != nil || !ok {
		return err
	}
	*dst = v != 0
	return nil
}

// getBoolPtr decodes the current varint field with explicit presence:
// dst is populated only when the field is present on the wire.
func (d *dec) getBoolPtr(dst **bool) error {
	v, ok, err := d.varint()
	if err != nil || !ok {
		return err
	}
	b := v != 0
	*dst = &b
	return nil
}

// getEnum decodes the current varint field into an int32-backed enum.
func getEnum[T ~int32](d *dec, dst *T) error {
	v, ok, err := d.varint()
	if err != nil || !ok {
		return err
	}
	*dst = T(v)
	return nil
}

// parseFields walks b, calling field for every tag. field reports
// whether it consumed the value; unhandled fields are skipped.
func parseFields(b []byte, field func(d *dec) (bool, error)) error {
	d := newDec(b)
	for {
		ok, err := d.next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		handled, err := field(d)
		if err != nil {
			return err
		}
		if !handled {
			if err := d.skip(); err != nil {
				return err
			}
		}
	}
}
