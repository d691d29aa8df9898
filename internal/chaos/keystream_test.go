package chaos

import (
	"bytes"
	"testing"
)

func TestKeystreamFixtures(t *testing.T) {
	tests := []struct {
		seed   string
		length int
		want   []byte
	}{
		{"abc", 8, []byte{122, 175, 16, 97, 168, 201, 222, 100}},
		{"", 4, []byte{93, 95, 242, 224}},
		{"abc", 0, []byte{}},
	}

	for _, tt := range tests {
		got := Keystream(tt.seed, tt.length)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("Keystream(%q, %d): expected %v, got %v", tt.seed, tt.length, tt.want, got)
		}
	}
}

func TestKeystreamPrefixStable(t *testing.T) {
	long := Keystream("seed", 512)
	short := Keystream("seed", 100)

	if !bytes.Equal(long[:100], short) {
		t.Error("a shorter keystream must be a prefix of a longer one")
	}
}

func TestKeystreamSeedSensitivity(t *testing.T) {
	a := Keystream("seed-a", 256)
	b := Keystream("seed-b", 256)

	same := 0
	for i := range a {
		if a[i] == b[i] {
			same++
		}
	}
	if same > 32 {
		t.Errorf("too many coincident bytes between different seeds: %d/256", same)
	}
}
