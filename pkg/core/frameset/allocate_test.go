package frameset

import (
	"math/rand"
	"slices"
	"testing"
)

func TestAllocateTracks(t *testing.T) {
	tests := []struct {
		name      string
		specs     []Length
		available int
		want      []int
	}{
		{"single fixed absorbs everything", []Length{Px(100)}, 50, []int{50}},
		{"percent leftover spread proportionally", []Length{Pct(25), Pct(25)}, 100, []int{50, 50}},
		{"relative remainder to last", []Length{Star(1), Star(1), Star(1)}, 100, []int{33, 33, 34}},
		{"weighted relative", []Length{Star(2), Star(1)}, 100, []int{66, 34}},
		{"fixed then relative", []Length{Px(100), Star(1)}, 300, []int{100, 200}},
		{"percent then relative", []Length{Pct(50), Star(1)}, 200, []int{100, 100}},
		{"fixed over-subscribed", []Length{Px(100), Px(200)}, 150, []int{50, 100}},
		{"fixed scale-down remainder to last", []Length{Px(100), Px(100), Px(100)}, 200, []int{66, 66, 68}},
		{"percent over-subscribed", []Length{Pct(60), Pct(60)}, 100, []int{50, 50}},
		{"fixed wins over percent", []Length{Px(80), Pct(50)}, 100, []int{80, 20}},
		{"leftover to percent not fixed", []Length{Px(30), Pct(10)}, 100, []int{30, 70}},
		{"leftover to fixed", []Length{Px(10), Px(30)}, 100, []int{25, 75}},
		{"zero percent spread evenly", []Length{Pct(0), Pct(0)}, 100, []int{50, 50}},
		{"zero fixed takes leftover", []Length{Px(0)}, 10, []int{10}},
		{"no specs", nil, 80, []int{80}},
		{"zero length", []Length{Px(10), Star(1)}, 0, []int{0, 0}},
		{"negative length clamps", []Length{Px(100)}, -20, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocateTracks(tt.specs, tt.available)
			if !slices.Equal(got, tt.want) {
				t.Errorf("AllocateTracks(%v, %d) = %v, want %v", tt.specs, tt.available, got, tt.want)
			}
		})
	}
}

func randomSpecs(r *rand.Rand) []Length {
	specs := make([]Length, 1+r.Intn(6))
	for i := range specs {
		switch r.Intn(3) {
		case 0:
			specs[i] = Px(r.Intn(300))
		case 1:
			specs[i] = Pct(r.Intn(120))
		default:
			specs[i] = Star(r.Intn(4))
		}
	}
	return specs
}

func TestAllocateTracksConservation(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		specs := randomSpecs(r)
		available := r.Intn(1000)
		got := AllocateTracks(specs, available)
		if len(got) != len(specs) {
			t.Fatalf("AllocateTracks(%v, %d) returned %d sizes, want %d", specs, available, len(got), len(specs))
		}
		if s := sum(got); s != available {
			t.Fatalf("AllocateTracks(%v, %d) = %v, sums to %d", specs, available, got, s)
		}
	}
}

func TestAllocateTracksFixedScaleLaw(t *testing.T) {
	specs := []Length{Px(120), Px(70), Px(310)}
	total := 500
	for available := 0; available < total; available++ {
		got := AllocateTracks(specs, available)
		for i, s := range specs[:len(specs)-1] {
			if want := s.Value * available / total; got[i] != want {
				t.Fatalf("available %d: track %d = %d, want %d", available, i, got[i], want)
			}
		}
		if sum(got) != available {
			t.Fatalf("available %d: sizes %v do not sum up", available, got)
		}
	}
}

func TestAllocateTracksLargeValues(t *testing.T) {
	t.Run("scale law at the bound", func(t *testing.T) {
		specs := []Length{Px(MaxLength), Px(3), Px(MaxLength / 2)}
		total := MaxLength + 3 + MaxLength/2
		got := AllocateTracks(specs, 1000)
		for i, s := range specs[:len(specs)-1] {
			if want := s.Value * 1000 / total; got[i] != want {
				t.Errorf("track %d = %d, want %d", i, got[i], want)
			}
		}
		if sum(got) != 1000 {
			t.Errorf("sizes %v do not sum to 1000", got)
		}
	})

	tests := []struct {
		name      string
		specs     []Length
		available int
	}{
		{"huge fixed", []Length{Px(1 << 62), Px(3), Px(1 << 61)}, 1000},
		{"huge percent", []Length{Pct(1 << 58), Pct(3), Px(10)}, 1000},
		{"huge weight", []Length{Star(1 << 62), Star(1)}, 1000},
		{"huge available", []Length{Pct(50), Star(1)}, 1 << 62},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AllocateTracks(tt.specs, tt.available)
			for i, size := range got {
				if size < 0 {
					t.Errorf("track %d = %d", i, size)
				}
			}
			if want := min(tt.available, MaxLength); sum(got) != want {
				t.Errorf("AllocateTracks = %v, sums to %d, want %d", got, sum(got), want)
			}
			if got[0] < got[1] {
				t.Errorf("larger track got less space: %v", got)
			}
		})
	}
}

func TestAllocateTracksIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		specs := randomSpecs(r)
		available := r.Intn(800)
		a := NewGridAxis(len(specs))
		a.LayOut(specs, available)
		first := a.Sizes()
		a.LayOut(specs, available)
		if !slices.Equal(first, a.Sizes()) {
			t.Fatalf("LayOut(%v, %d) not idempotent: %v then %v", specs, available, first, a.Sizes())
		}
	}
}

func TestGridAxisLayOutDeltas(t *testing.T) {
	specs := []Length{Star(1), Star(1)}

	t.Run("applied", func(t *testing.T) {
		a := NewGridAxis(2)
		a.SetDeltas([]int{10, -10})
		if ok := a.LayOut(specs, 100); !ok {
			t.Fatal("LayOut rejected valid deltas")
		}
		if got := a.Sizes(); !slices.Equal(got, []int{60, 40}) {
			t.Errorf("Sizes() = %v, want [60 40]", got)
		}
		if got := a.Deltas(); !slices.Equal(got, []int{10, -10}) {
			t.Errorf("Deltas() = %v, want deltas kept", got)
		}
	})

	t.Run("rejected", func(t *testing.T) {
		a := NewGridAxis(2)
		a.SetDeltas([]int{50, -50})
		if ok := a.LayOut(specs, 100); ok {
			t.Fatal("LayOut accepted deltas that collapse a track")
		}
		if got := a.Sizes(); !slices.Equal(got, []int{50, 50}) {
			t.Errorf("Sizes() = %v, want [50 50]", got)
		}
		if got := a.Deltas(); !slices.Equal(got, []int{0, 0}) {
			t.Errorf("Deltas() = %v, want reset", got)
		}
	})

	t.Run("count change resets", func(t *testing.T) {
		a := NewGridAxis(2)
		a.SetDeltas([]int{5, -5})
		a.LayOut([]Length{Star(1), Star(1), Star(1)}, 90)
		if got := a.Deltas(); !slices.Equal(got, []int{0, 0, 0}) {
			t.Errorf("Deltas() = %v, want zeroed", got)
		}
		for i := 0; i <= a.Len(); i++ {
			if !a.AllowBorder(i) {
				t.Errorf("AllowBorder(%d) = false after reallocation", i)
			}
		}
	})

	t.Run("wrong length", func(t *testing.T) {
		a := NewGridAxis(2)
		if a.SetDeltas([]int{1, 2, 3}) {
			t.Error("SetDeltas accepted mismatched length")
		}
	})

	t.Run("nonzero sum", func(t *testing.T) {
		a := NewGridAxis(2)
		if a.SetDeltas([]int{500, 0}) {
			t.Error("SetDeltas accepted deltas that change the total")
		}
		if got := a.Deltas(); !slices.Equal(got, []int{0, 0}) {
			t.Errorf("Deltas() = %v, want untouched", got)
		}
	})

	t.Run("zero length rejected", func(t *testing.T) {
		a := NewGridAxis(2)
		a.SetDeltas([]int{10, -10})
		if ok := a.LayOut(specs, 0); ok {
			t.Fatal("LayOut applied deltas to a zero-length axis")
		}
		if got := a.Sizes(); !slices.Equal(got, []int{0, 0}) {
			t.Errorf("Sizes() = %v, want [0 0]", got)
		}
		if got := a.Deltas(); !slices.Equal(got, []int{0, 0}) {
			t.Errorf("Deltas() = %v, want reset", got)
		}
	})

	t.Run("empty track may grow", func(t *testing.T) {
		a := NewGridAxis(2)
		a.SetDeltas([]int{10, -10})
		if ok := a.LayOut([]Length{Px(0), Star(1)}, 100); !ok {
			t.Fatal("LayOut rejected deltas growing an empty track")
		}
		if got := a.Sizes(); !slices.Equal(got, []int{10, 90}) {
			t.Errorf("Sizes() = %v, want [10 90]", got)
		}
	})
}

func TestGridAxisLayOutNeverNegative(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		specs := randomSpecs(r)
		a := NewGridAxis(trackCount(specs))
		deltas := make([]int, a.Len())
		if len(deltas) > 1 {
			d := r.Intn(200) - 100
			deltas[0], deltas[1] = d, -d
		}
		a.SetDeltas(deltas)
		available := r.Intn(50)
		a.LayOut(specs, available)
		total := 0
		for _, size := range a.Sizes() {
			if size < 0 {
				t.Fatalf("specs %v at %d with deltas %v: negative size in %v", specs, available, deltas, a.Sizes())
			}
			total += size
		}
		if total != available {
			t.Fatalf("specs %v at %d with deltas %v: sum %d", specs, available, deltas, total)
		}
	}
}

func TestLengthString(t *testing.T) {
	tests := []struct {
		l    Length
		want string
	}{
		{Px(100), "100"},
		{Pct(25), "25%"},
		{Star(1), "*"},
		{Star(0), "*"},
		{Star(3), "3*"},
	}
	for _, tt := range tests {
		if got := tt.l.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
