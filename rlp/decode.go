package rlp

import (
	"fmt"
	"math/big"
	"reflect"
)

// DecodeBytes parses RLP-encoded data in b and stores the result in the
// value pointed to by val. The input must contain exactly one value and no
// trailing data.
func DecodeBytes(b []byte, val interface{}) error {
	rv := reflect.ValueOf(val)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("rlp: Decode requires a non-nil pointer")
	}
	rest, err := decodeValue(b, rv.Elem())
	if err != nil {
		return err
	}
	if len(rest) != 0 {
		return ErrMoreThanOneValue
	}
	return nil
}

var (
	bigIntPtrType = reflect.PointerTo(bigIntType)
	decoderIface  = reflect.TypeOf((*Decoder)(nil)).Elem()
)

// decodeValue decodes the first RLP value of b into v and returns the
// unconsumed remainder.
func decodeValue(b []byte, v reflect.Value) (rest []byte, err error) {
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(decoderIface) {
		k, content, r, err := Split(b)
		if err != nil {
			return nil, err
		}
		raw, err := rebuild(k, content)
		if err != nil {
			return nil, err
		}
		if err := v.Addr().Interface().(Decoder).DecodeRLP(raw); err != nil {
			return nil, err
		}
		return r, nil
	}

	switch v.Type() {
	case bigIntType:
		content, r, err := SplitString(b)
		if err != nil {
			return nil, err
		}
		bi, err := decodeBigInt(content)
		if err != nil {
			return nil, err
		}
		v.Set(reflect.ValueOf(*bi))
		return r, nil
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.Type() == bigIntPtrType {
			content, r, err := SplitString(b)
			if err != nil {
				return nil, err
			}
			bi, err := decodeBigInt(content)
			if err != nil {
				return nil, err
			}
			v.Set(reflect.ValueOf(bi))
			return r, nil
		}
		// An empty string decodes to a nil pointer, the counterpart of
		// encodeValue's nil-pointer-as-empty-string rule (used for the
		// optional Transaction.To field).
		if k, c, _, err := Split(b); err == nil && k == String && len(c) == 0 {
			_, r, err := SplitString(b)
			if err != nil {
				return nil, err
			}
			v.Set(reflect.Zero(v.Type()))
			return r, nil
		}
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return decodeValue(b, v.Elem())
	case reflect.Bool:
		content, r, err := SplitString(b)
		if err != nil {
			return nil, err
		}
		switch {
		case len(content) == 0:
			v.SetBool(false)
		case len(content) == 1 && content[0] == 1:
			v.SetBool(true)
		default:
			return nil, fmt.Errorf("rlp: invalid boolean value")
		}
		return r, nil
	case reflect.String:
		content, r, err := SplitString(b)
		if err != nil {
			return nil, err
		}
		v.SetString(string(content))
		return r, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		content, r, err := SplitString(b)
		if err != nil {
			return nil, err
		}
		i, err := decodeUint(content)
		if err != nil {
			return nil, err
		}
		v.SetUint(i)
		return r, nil
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			content, r, err := SplitString(b)
			if err != nil {
				return nil, err
			}
			v.SetBytes(append([]byte(nil), content...))
			return r, nil
		}
		content, r, err := SplitList(b)
		if err != nil {
			return nil, err
		}
		n, err := CountValues(content)
		if err != nil {
			return nil, err
		}
		slice := reflect.MakeSlice(v.Type(), n, n)
		rest2 := content
		for i := 0; i < n; i++ {
			rest2, err = decodeValue(rest2, slice.Index(i))
			if err != nil {
				return nil, err
			}
		}
		v.Set(slice)
		return r, nil
	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			content, r, err := SplitString(b)
			if err != nil {
				return nil, err
			}
			if len(content) > v.Len() {
				return nil, ErrValueTooLarge
			}
			reflect.Copy(v, reflect.ValueOf(content))
			return r, nil
		}
		content, r, err := SplitList(b)
		if err != nil {
			return nil, err
		}
		rest2 := content
		for i := 0; i < v.Len(); i++ {
			rest2, err = decodeValue(rest2, v.Index(i))
			if err != nil {
				return nil, err
			}
		}
		return r, nil
	case reflect.Struct:
		content, r, err := SplitList(b)
		if err != nil {
			return nil, err
		}
		t := v.Type()
		rest2 := content
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.PkgPath != "" || f.Tag.Get("rlp") == "-" {
				continue
			}
			rest2, err = decodeValue(rest2, v.Field(i))
			if err != nil {
				return nil, err
			}
		}
		return r, nil
	default:
		return nil, fmt.Errorf("rlp: unsupported decode type %s", v.Type())
	}
}

func decodeUint(content []byte) (uint64, error) {
	if len(content) > 0 && content[0] == 0 {
		return 0, ErrCanonInt
	}
	if len(content) > 8 {
		return 0, ErrValueTooLarge
	}
	var i uint64
	for _, b := range content {
		i = i<<8 | uint64(b)
	}
	return i, nil
}

func decodeBigInt(content []byte) (*big.Int, error) {
	if len(content) > 0 && content[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(big.Int).SetBytes(content), nil
}

// rebuild reconstructs the raw RLP encoding of a Split value, used to hand
// a Decoder its own bytes back.
func rebuild(k Kind, content []byte) ([]byte, error) {
	switch k {
	case String:
		return EncodeBytes(content), nil
	case List:
		return EncodeList(content), nil
	default:
		return content, nil
	}
}
