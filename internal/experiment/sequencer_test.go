package experiment

import (
	"errors"
	"reflect"
	"testing"
)

func TestOrderFrames(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "numeric order beats lexical order",
			in:   []string{"frame_10.png", "frame_2.png", "frame_0.png", "frame_1.png"},
			want: []string{"frame_0.png", "frame_1.png", "frame_2.png", "frame_10.png"},
		},
		{
			name: "first digit run decides",
			in:   []string{"run2_frame_9.png", "run10_frame_0.png", "run1_frame_5.png"},
			want: []string{"run1_frame_5.png", "run2_frame_9.png", "run10_frame_0.png"},
		},
		{
			name: "equal indices keep input order",
			in:   []string{"b_01.png", "a_1_extra.png", "c_1.png"},
			want: []string{"b_01.png", "a_1_extra.png", "c_1.png"},
		},
		{
			name: "empty input",
			in:   []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OrderFrames(tt.in)
			if err != nil {
				t.Fatalf("OrderFrames failed: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("OrderFrames(%v):\n got %v\nwant %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOrderFrames_InputNotModified(t *testing.T) {
	in := []string{"frame_3.png", "frame_1.png", "frame_2.png"}
	orig := make([]string, len(in))
	copy(orig, in)

	if _, err := OrderFrames(in); err != nil {
		t.Fatalf("OrderFrames failed: %v", err)
	}
	if !reflect.DeepEqual(in, orig) {
		t.Errorf("input slice was modified: %v", in)
	}
}

func TestOrderFrames_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   []string
	}{
		{"no digits at all", []string{"frame_0.png", "noise.png"}},
		{"index overflows int", []string{"frame_999999999999999999999999.png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OrderFrames(tt.in)
			if !errors.Is(err, ErrMalformedFilename) {
				t.Errorf("got %v, want ErrMalformedFilename", err)
			}
		})
	}
}

func TestFrameIndex(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"frame_0.png", 0},
		{"frame_42.png", 42},
		{"img007.jpeg", 7},
		{"12.png", 12},
		{"a1b2c3.png", 1},
	}

	for _, tt := range tests {
		got, err := frameIndex(tt.in)
		if err != nil {
			t.Fatalf("frameIndex(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("frameIndex(%q): got %d, want %d", tt.in, got, tt.want)
		}
	}
}
