package container

import (
	"bytes"
	"errors"
	"testing"
)

func TestGrayLayout(t *testing.T) {
	data, err := Encode([][]byte{{0xAA, 0xBB}}, Header{Height: 3, Width: 258, Channels: 1}, FormatGray)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xAA, 0xBB, 0, 0, 0, 3, 0, 0, 1, 2}
	if !bytes.Equal(data, want) {
		t.Errorf("expected %v, got %v", want, data)
	}
}

func TestLegacyLayout(t *testing.T) {
	data, err := Encode([][]byte{{1, 2}, {3, 4}, {5, 6}}, Header{Height: 1, Width: 2}, FormatColorLegacy)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 4, 5, 6, 0, 0, 0, 1, 0, 0, 0, 2, 3}
	if !bytes.Equal(data, want) {
		t.Errorf("expected %v, got %v", want, data)
	}
}

func TestColorLayout(t *testing.T) {
	data, err := Encode([][]byte{{1}, {2, 3}}, Header{Height: 1, Width: 1}, FormatColor)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 0, 0, 0, 1, 0, 0, 0, 2, 0, 0, 0, 1, 0, 0, 0, 1, 2}
	if !bytes.Equal(data, want) {
		t.Errorf("expected %v, got %v", want, data)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		parts  [][]byte
	}{
		{"gray", FormatGray, [][]byte{bytes.Repeat([]byte{7}, 24)}},
		{"gray empty payload", FormatGray, [][]byte{{}}},
		{"legacy", FormatColorLegacy, [][]byte{make([]byte, 16), bytes.Repeat([]byte{1}, 16), bytes.Repeat([]byte{2}, 16)}},
		{"color uneven", FormatColor, [][]byte{make([]byte, 8), bytes.Repeat([]byte{1}, 16), bytes.Repeat([]byte{2}, 24)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Header{Height: 12, Width: 34, Channels: len(tt.parts)}
			data, err := Encode(tt.parts, h, tt.format)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Decode(data, tt.format)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Header != h {
				t.Errorf("expected header %+v, got %+v", h, got.Header)
			}
			if len(got.Parts) != len(tt.parts) {
				t.Fatalf("expected %d parts, got %d", len(tt.parts), len(got.Parts))
			}
			for i := range tt.parts {
				if !bytes.Equal(got.Parts[i], tt.parts[i]) {
					t.Errorf("part %d mismatch", i)
				}
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format Format
		want   error
	}{
		{"gray short", make([]byte, 7), FormatGray, ErrTruncated},
		{"legacy short", make([]byte, 8), FormatColorLegacy, ErrTruncated},
		{"legacy split", []byte{1, 2, 3, 4, 5, 0, 0, 0, 1, 0, 0, 0, 1, 3}, FormatColorLegacy, ErrChannelSplit},
		{"legacy zero channels", []byte{0, 0, 0, 1, 0, 0, 0, 1, 0}, FormatColorLegacy, ErrDimensions},
		{"color trailer short", []byte{0, 0, 0, 1, 0, 0, 0, 1, 3}, FormatColor, ErrTruncated},
		{"color overrun", []byte{1, 0, 0, 0, 9, 0, 0, 0, 1, 0, 0, 0, 1, 1}, FormatColor, ErrChannelSplit},
		{"color leftover", []byte{1, 2, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1, 1}, FormatColor, ErrChannelSplit},
		{"unknown format", make([]byte, 16), Format(9), ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.format)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode([][]byte{{1}, {2}}, Header{Height: 1, Width: 1}, FormatGray); !errors.Is(err, ErrDimensions) {
		t.Errorf("expected ErrDimensions for two gray parts, got %v", err)
	}
	if _, err := Encode([][]byte{{1}}, Header{Height: -1, Width: 1}, FormatGray); !errors.Is(err, ErrDimensions) {
		t.Errorf("expected ErrDimensions for negative height, got %v", err)
	}
	if _, err := Encode(nil, Header{Height: 1, Width: 1}, FormatColor); !errors.Is(err, ErrDimensions) {
		t.Errorf("expected ErrDimensions for no parts, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for _, f := range []Format{FormatGray, FormatColorLegacy, FormatColor} {
		got, err := ParseFormat(f.String())
		if err != nil || got != f {
			t.Errorf("%v: got %v, %v", f, got, err)
		}
	}
	if _, err := ParseFormat("jpeg"); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat, got %v", err)
	}
	if ForChannels(1) != FormatGray || ForChannels(3) != FormatColor {
		t.Error("unexpected default formats")
	}
}
