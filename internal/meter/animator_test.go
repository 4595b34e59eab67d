package meter

import "testing"

func TestAnimatorAttack(t *testing.T) {
	for _, step := range []int{0, 2, 4, 10} {
		a := NewAnimator(Ballistics{DecayStep: step, DecayWindow: 2, HoldTicks: 10})
		for _, r := range []float64{-40, -20, -20, -3, 0} {
			if got := a.Process(r); got.Level != int(r) {
				t.Errorf("step %d: Process(%v).Level = %d, want %d", step, r, got.Level, int(r))
			}
		}
	}
}

func TestAnimatorTruncatesReading(t *testing.T) {
	a := NewAnimator(Ballistics{DecayStep: 4, DecayWindow: 2})
	if got := a.Process(-3.7); got.Level != -3 {
		t.Errorf("Process(-3.7).Level = %d, want -3", got.Level)
	}
}

func TestAnimatorZeroDecayHolds(t *testing.T) {
	a := NewAnimator(Ballistics{DecayStep: 0, DecayWindow: 1})
	a.Process(-5)
	for i := range 500 {
		if got := a.Process(-90); got.Level != -5 {
			t.Fatalf("tick %d: Level = %d, want -5", i, got.Level)
		}
	}
}

func TestAnimatorDecay(t *testing.T) {
	tests := []struct {
		name   string
		step   int
		window int
		k      int
		want   int
	}{
		{"one step", 4, 2, 1, -4},
		{"five steps", 4, 2, 5, -20},
		{"gentle single light", 2, 3, 4, -8},
		{"clamped at floor", 10, 2, 100, FloorLevel},
		{"window of one", 4, 1, 7, -28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnimator(Ballistics{DecayStep: tt.step, DecayWindow: tt.window})
			a.Process(0)
			var st State
			for range tt.window * tt.k {
				st = a.Process(-150)
			}
			if st.Level != tt.want {
				t.Errorf("Level after %d windows = %d, want %d", tt.k, st.Level, tt.want)
			}
		})
	}
}

func TestAnimatorDecayIgnoresDistance(t *testing.T) {
	near := NewAnimator(Ballistics{DecayStep: 4, DecayWindow: 2})
	far := NewAnimator(Ballistics{DecayStep: 4, DecayWindow: 2})
	near.Process(0)
	far.Process(0)
	for range 6 {
		near.Process(-1)
		far.Process(-100)
	}
	if near.State().Level != far.State().Level {
		t.Errorf("near Level = %d, far Level = %d, want equal", near.State().Level, far.State().Level)
	}
}

func TestAnimatorDecayCounterResetsOnPeak(t *testing.T) {
	a := NewAnimator(Ballistics{DecayStep: 4, DecayWindow: 3})
	a.Process(-10)
	a.Process(-50)
	a.Process(-50)
	a.Process(-10) // tie, restarts the window
	a.Process(-50)
	if got := a.Process(-50); got.Level != -10 {
		t.Errorf("Level = %d, want -10 before the window completes", got.Level)
	}
	if got := a.Process(-50); got.Level != -14 {
		t.Errorf("Level = %d, want -14", got.Level)
	}
}

func TestAnimatorPeakHold(t *testing.T) {
	const hold = 5
	a := NewAnimator(Ballistics{DecayStep: 4, DecayWindow: 1, HoldTicks: hold})

	st := a.Process(-1)
	if !st.PeakActive || st.PeakLevel != -1 {
		t.Fatalf("latch tick = %+v, want active peak at -1", st)
	}
	for i := 1; i <= hold; i++ {
		st = a.Process(-60)
		if !st.PeakActive {
			t.Fatalf("tick %d: PeakActive = false, want true", i)
		}
		if st.PeakLevel != -1 {
			t.Fatalf("tick %d: PeakLevel = %d, want -1", i, st.PeakLevel)
		}
	}
	if st = a.Process(-60); st.PeakActive {
		t.Errorf("tick %d: PeakActive = true, want false", hold+1)
	}
}

func TestAnimatorPeakHoldRetriggersOnTie(t *testing.T) {
	a := NewAnimator(Ballistics{DecayStep: 4, DecayWindow: 10, HoldTicks: 2})
	a.Process(-6)
	a.Process(-30)
	a.Process(-6) // equal to the displayed level
	a.Process(-30)
	if st := a.Process(-30); !st.PeakActive {
		t.Error("PeakActive = false, want hold restarted by the tie")
	}
}

func TestAnimatorStartsAtFloor(t *testing.T) {
	a := NewAnimator(Ballistics{DecayStep: 4, DecayWindow: 2})
	if got := a.State().Level; got != FloorLevel {
		t.Errorf("initial Level = %d, want %d", got, FloorLevel)
	}
	if got := a.Process(-80); got.Level != -80 {
		t.Errorf("first Process(-80).Level = %d, want -80", got.Level)
	}

	a.Reset()
	if got := a.State(); got.Level != FloorLevel || got.PeakActive {
		t.Errorf("State after Reset = %+v, want floor", got)
	}
}
