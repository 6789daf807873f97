package util

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// twoPow256 is 2**256, used to reinterpret uint256's unsigned words as
// two's-complement signed values (matching the VM's Integer stack item,
// which is bounded to 32 bytes two's complement).
var twoPow256 = new(big.Int).Lsh(big.NewInt(1), 256)

// ToBig converts a uint256 word to a signed math/big.Int, treating the
// top bit (bit 255) as the two's-complement sign bit.
func ToBig(x *uint256.Int) *big.Int {
	b := x.ToBig()
	if b.Bit(255) == 1 {
		b = new(big.Int).Sub(b, twoPow256)
	}
	return b
}

// ToInt64 converts x to an int64; callers must have already checked
// IsInt64, no saturation is performed.
func ToInt64(x *uint256.Int) int64 {
	return ToBig(x).Int64()
}

// IsInt64 reports whether x's signed value fits into an int64.
func IsInt64(x *uint256.Int) bool {
	b := ToBig(x)
	return b.Cmp(big.NewInt(math.MinInt64)) >= 0 && b.Cmp(big.NewInt(math.MaxInt64)) <= 0
}
