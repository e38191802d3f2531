package regress

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// DefaultOutputPrefix names output directories when none is given
const DefaultOutputPrefix = "out_"

// Seed returns seed when it is non-negative, otherwise a random 32-bit seed.
// Seeds that do not fit in 32 bits are rejected rather than truncated.
func Seed(seed int64) (uint32, error) {
	if seed > math.MaxUint32 {
		return 0, fmt.Errorf("seed %d exceeds the 32-bit maximum %d", seed, uint32(math.MaxUint32))
	}
	if seed >= 0 {
		return uint32(seed), nil
	}
	return rand.Uint32(), nil
}

// OutputDir returns name when set, otherwise prefix followed by today's date.
func OutputDir(name, prefix string) string {
	if name != "" {
		return name
	}
	if prefix == "" {
		prefix = DefaultOutputPrefix
	}
	return prefix + time.Now().Format(time.DateOnly)
}
