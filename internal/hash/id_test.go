package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestChecksum_MatchesID(t *testing.T) {
	for _, s := range []string{"", "flow_cfs", "0110101"} {
		assert.Equal(t, ID(s), Checksum([]byte(s)))
	}
}

func TestChecksum_DetectsChange(t *testing.T) {
	a := Checksum([]byte{0x01, 0x02, 0x03})
	b := Checksum([]byte{0x01, 0x02, 0x04})
	assert.NotEqual(t, a, b)
}

func BenchmarkID(b *testing.B) {
	for b.Loop() {
		ID("snowpack_swe_april_1")
	}
}
