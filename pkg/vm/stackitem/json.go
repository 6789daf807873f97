package stackitem

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
)

// ToJSON renders it using the VM's JSON convention: ByteArray as base64,
// Integer as a bare number, Boolean/Null as JSON literals, Array as a JSON
// array, Map as a JSON object keyed by the byte-string form of its keys.
func ToJSON(it Item) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, it); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, it Item) error {
	switch t := it.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case *BigInteger:
		buf.WriteString(t.value.String())
	case *ByteArray:
		buf.WriteByte('"')
		buf.WriteString(base64.StdEncoding.EncodeToString([]byte(*t)))
		buf.WriteByte('"')
	case *Buffer:
		buf.WriteByte('"')
		buf.WriteString(base64.StdEncoding.EncodeToString(t.Bytes()))
		buf.WriteByte('"')
	case *Array:
		buf.WriteByte('[')
		for i, e := range t.value {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Struct:
		buf.WriteByte('[')
		for i, e := range t.value {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		buf.WriteByte('{')
		for i, e := range t.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := e.Key.TryBytes()
			if err != nil {
				return err
			}
			kj, _ := json.Marshal(string(kb))
			buf.Write(kj)
			buf.WriteByte(':')
			if err := writeJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("stackitem: %s has no JSON representation", it.Type())
	}
	return nil
}

// FromJSON parses the VM's JSON convention into an Item tree.
func FromJSON(data []byte) (Item, error) {
	var raw interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return fromJSONValue(raw)
}

func fromJSONValue(v interface{}) (Item, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case json.Number:
		if bytes.ContainsRune([]byte(t.String()), '.') {
			f, err := t.Float64()
			if err != nil {
				return nil, err
			}
			if f != float64(int64(f)) {
				return nil, fmt.Errorf("stackitem: non-integral JSON number %q", t.String())
			}
			return NewBigInteger(big.NewInt(int64(f))), nil
		}
		bi, ok := new(big.Int).SetString(t.String(), 10)
		if !ok {
			return nil, fmt.Errorf("stackitem: invalid JSON number %q", t.String())
		}
		return NewBigInteger(bi), nil
	case string:
		b, err := base64.StdEncoding.DecodeString(t)
		if err != nil {
			return nil, err
		}
		return NewByteArray(b), nil
	case []interface{}:
		items := make([]Item, 0, len(t))
		for _, e := range t {
			it, err := fromJSONValue(e)
			if err != nil {
				return nil, err
			}
			items = append(items, it)
		}
		return NewArray(items), nil
	case map[string]interface{}:
		m := NewMap()
		for k, e := range t {
			it, err := fromJSONValue(e)
			if err != nil {
				return nil, err
			}
			m.Add(NewByteArray([]byte(k)), it)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("stackitem: unsupported JSON value %T", v)
	}
}
