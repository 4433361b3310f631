package responseformat

import (
	"math"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Number is a float64 that encodes NaN and infinities as null, which JSON
// cannot otherwise represent
type Number float64

// Numbers converts a slice of float64
func Numbers(x []float64) []Number {
	out := make([]Number, len(x))
	for i, v := range x {
		out[i] = Number(v)
	}
	return out
}

// Valid reports whether n is a finite value
func (n Number) Valid() bool {
	return !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(n), 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

func (n Number) EncodeMsgpack(enc *msgpack.Encoder) error {
	if !n.Valid() {
		return enc.EncodeNil()
	}
	return enc.EncodeFloat64(float64(n))
}

func (n *Number) DecodeMsgpack(dec *msgpack.Decoder) error {
	c, err := dec.PeekCode()
	if err != nil {
		return err
	}
	if c == msgpcode.Nil {
		*n = Number(math.NaN())
		return dec.DecodeNil()
	}
	v, err := dec.DecodeFloat64()
	if err != nil {
		return err
	}
	*n = Number(v)
	return nil
}
