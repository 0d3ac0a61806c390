package ebitenaudio

import "testing"

func TestResampledLength(t *testing.T) {
	cases := []struct {
		name   string
		length int64
		rate   int
		to     int
		want   int64
	}{
		{"unchanged_rate", 44100 * 4, 44100, 44100, 44100 * 4},
		{"half_speed_doubles", 1000, 44100, 88200, 2000},
		{"odd_ratio_rounds_to_frame", 44100 * 4, 44100, 29400, 117600},
		{"tiny_stream_never_negative", 3, 44100, 29400, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := resampledLength(c.length, c.rate, c.to)
			if got != c.want {
				t.Fatalf("resampledLength(%d, %d, %d) = %d, want %d", c.length, c.rate, c.to, got, c.want)
			}
			if got%bytesPerFrame != 0 {
				t.Fatalf("length %d is not frame aligned", got)
			}
		})
	}
}
