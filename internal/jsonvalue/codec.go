package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-json-experiment/json/jsontext"
)

// Decode reads exactly one JSON document from r
func Decode(r io.Reader) (Value, error) {
	dec := jsontext.NewDecoder(r, jsontext.AllowDuplicateNames(true))

	v, err := readValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}

		return nil, err
	}

	if _, err := dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, ErrTrailingData
		}

		return nil, err
	}

	return v, nil
}

// DecodeObject reads one JSON document from r and requires it to be an object
func DecodeObject(r io.Reader) (*Object, error) {
	v, err := Decode(r)
	if err != nil {
		return nil, err
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrNotObject, v.Kind())
	}

	return obj, nil
}

// Parse decodes a JSON document held in memory
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// ParseObject decodes a JSON object held in memory
func ParseObject(data []byte) (*Object, error) {
	return DecodeObject(bytes.NewReader(data))
}

// readValue consumes the next complete value from the decoder
func readValue(dec *jsontext.Decoder) (Value, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return nil, err
	}

	switch tok.Kind() {
	case 'n':
		return Null{}, nil
	case 't', 'f':
		return Bool(tok.Bool()), nil
	case '"':
		return String(tok.String()), nil
	case '0':
		return Number(tok.String()), nil
	case '[':
		arr := Array{}

		for dec.PeekKind() != ']' {
			elem, err := readValue(dec)
			if err != nil {
				return nil, err
			}

			arr = append(arr, elem)
		}

		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}

		return arr, nil
	case '{':
		obj := &Object{}

		for dec.PeekKind() != '}' {
			name, err := dec.ReadToken()
			if err != nil {
				return nil, err
			}

			// the token is only valid until the next read
			key := name.String()

			member, err := readValue(dec)
			if err != nil {
				return nil, err
			}

			obj.Set(key, member)
		}

		if _, err := dec.ReadToken(); err != nil {
			return nil, err
		}

		return obj, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedToken, tok.Kind())
	}
}

// Marshal encodes v as compact JSON, keeping object member order
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer

	enc := jsontext.NewEncoder(&buf)
	if err := writeValue(enc, v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// writeValue emits v to the encoder
func writeValue(enc *jsontext.Encoder, v Value) error {
	switch val := v.(type) {
	case nil, Null:
		return enc.WriteToken(jsontext.Null)
	case String:
		return enc.WriteToken(jsontext.String(string(val)))
	case Number:
		return enc.WriteValue(jsontext.Value(val))
	case Bool:
		return enc.WriteToken(jsontext.Bool(bool(val)))
	case Array:
		if err := enc.WriteToken(jsontext.BeginArray); err != nil {
			return err
		}

		for _, elem := range val {
			if err := writeValue(enc, elem); err != nil {
				return err
			}
		}

		return enc.WriteToken(jsontext.EndArray)
	case *Object:
		if val == nil {
			return enc.WriteToken(jsontext.Null)
		}

		if err := enc.WriteToken(jsontext.BeginObject); err != nil {
			return err
		}

		for _, m := range val.members {
			if err := enc.WriteToken(jsontext.String(m.Key)); err != nil {
				return err
			}

			if err := writeValue(enc, m.Value); err != nil {
				return err
			}
		}

		return enc.WriteToken(jsontext.EndObject)
	default:
		return fmt.Errorf("%w: %T", ErrUnexpectedToken, v)
	}
}

// MarshalJSON implements json.Marshaler
func (o *Object) MarshalJSON() ([]byte, error) {
	return Marshal(o)
}

// UnmarshalJSON implements json.Unmarshaler
func (o *Object) UnmarshalJSON(data []byte) error {
	parsed, err := ParseObject(data)
	if err != nil {
		return err
	}

	*o = *parsed

	return nil
}
