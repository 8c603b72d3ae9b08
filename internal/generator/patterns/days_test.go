package patterns

import (
	"testing"
	"time"

	"github.com/rewardsense/synthgen/internal/utils"
)

func TestDayWeights(t *testing.T) {
	t.Run("bill-like clusters early and mid month", func(t *testing.T) {
		weights := DayWeights("utilities", 1, 30)
		for i, w := range weights {
			d := i + 1
			want := 1.0
			if d <= 5 || (d >= 15 && d <= 20) {
				want = 3.0
			}
			if w != want {
				t.Errorf("day %d weight = %v, want %v", d, w, want)
			}
		}
	})

	t.Run("weekend-heavy boosts weekendish days", func(t *testing.T) {
		weights := DayWeights("dining", 1, 28)
		for i, w := range weights {
			d := i + 1
			want := 1.0
			if d%7 == 6 || d%7 == 0 {
				want = 1.8
			}
			if w != want {
				t.Errorf("day %d weight = %v, want %v", d, w, want)
			}
		}
	})

	t.Run("uniform for unpatterned category", func(t *testing.T) {
		weights := DayWeights("gas", 1, 31)
		for i, w := range weights {
			if w != 1.0 {
				t.Errorf("day %d weight = %v, want 1.0", i+1, w)
			}
		}
	})

	t.Run("respects clamped range", func(t *testing.T) {
		weights := DayWeights("utilities", 10, 20)
		if len(weights) != 11 {
			t.Fatalf("got %d weights, want 11", len(weights))
		}
		if weights[0] != 1.0 {
			t.Errorf("day 10 weight = %v, want 1.0", weights[0])
		}
		if weights[5] != 3.0 {
			t.Errorf("day 15 weight = %v, want 3.0", weights[5])
		}
	})

	t.Run("empty for inverted range", func(t *testing.T) {
		if weights := DayWeights("gas", 20, 10); weights != nil {
			t.Errorf("got %v, want nil", weights)
		}
	})
}

func TestSampleDay(t *testing.T) {
	rng := utils.NewRandom(42)

	t.Run("stays within range", func(t *testing.T) {
		for i := 0; i < 1000; i++ {
			d := SampleDay(rng, "dining", 5, 25)
			if d < 5 || d > 25 {
				t.Fatalf("sampled day %d outside [5, 25]", d)
			}
		}
	})

	t.Run("degenerate range returns min day", func(t *testing.T) {
		if d := SampleDay(rng, "gas", 12, 12); d != 12 {
			t.Errorf("got %d, want 12", d)
		}
	})

	t.Run("bill-like favors cluster days", func(t *testing.T) {
		cluster := 0
		const n = 5000
		for i := 0; i < n; i++ {
			d := SampleDay(rng, "utilities", 1, 30)
			if d <= 5 || (d >= 15 && d <= 20) {
				cluster++
			}
		}
		// 11 of 30 days carry weight 3.0, so the cluster share should
		// be around 33/52 ~ 63%.
		if float64(cluster)/n < 0.5 {
			t.Errorf("cluster days drew only %d of %d samples", cluster, n)
		}
	})
}

func TestDaysIn(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.January, 31},
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tc := range tests {
		if got := DaysIn(tc.year, tc.month); got != tc.want {
			t.Errorf("DaysIn(%d, %v) = %d, want %d", tc.year, tc.month, got, tc.want)
		}
	}
}
