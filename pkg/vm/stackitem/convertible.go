package stackitem

// SerializationContext tracks how many bytes have already been produced by
// a batch of Serialize calls sharing the same MaxSize budget (used when
// several items, e.g. a transaction's notifications, are serialized back
// to back and must collectively stay under the limit).
type SerializationContext struct {
	written int
}

// NewSerializationContext returns a fresh, empty SerializationContext.
func NewSerializationContext() *SerializationContext {
	return &SerializationContext{}
}

// Serialize encodes it, optionally enforcing MaxSize against the context's
// running total rather than just this one item.
func (c *SerializationContext) Serialize(it Item, limited bool) ([]byte, error) {
	data, err := Serialize(it)
	if err != nil {
		return nil, err
	}
	if limited && c.written+len(data) > MaxSize {
		return nil, ErrTooBig
	}
	c.written += len(data)
	return data, nil
}

// SerializeConvertible converts v to a stack item via ToStackItem and
// serializes the result; used to persist domain types (balances, NEF
// blobs, nonfungible token state) in their compact stack-item encoding.
func SerializeConvertible(v Convertible) ([]byte, error) {
	it, err := v.ToStackItem()
	if err != nil {
		return nil, err
	}
	return Serialize(it)
}

// DeserializeConvertible is the inverse of SerializeConvertible: it decodes
// data into a stack item and feeds it through v's FromStackItem.
func DeserializeConvertible(data []byte, v Convertible) error {
	it, err := Deserialize(data)
	if err != nil {
		return err
	}
	return v.FromStackItem(it)
}
