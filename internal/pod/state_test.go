package pod

import (
	"testing"
	"time"
)

func TestIsScheduledBasal_TruthTable(t *testing.T) {
	cases := []struct {
		state BasalDeliveryState
		want  bool
	}{
		{BasalActive, true},
		{BasalInitiatingTempBasal, true},
		{BasalSuspending, false},
		{BasalSuspended, false},
		{BasalResuming, false},
		{BasalTempBasal, false},
		{BasalCancelingTempBasal, false},
	}
	for _, tc := range cases {
		if got := tc.state.IsScheduledBasal(); got != tc.want {
			t.Errorf("IsScheduledBasal(%s) = %v, want %v", tc.state, got, tc.want)
		}
	}
}

func TestIsTransitioning(t *testing.T) {
	transitioning := []BasalDeliveryState{BasalSuspending, BasalResuming, BasalInitiatingTempBasal, BasalCancelingTempBasal}
	steady := []BasalDeliveryState{BasalActive, BasalSuspended, BasalTempBasal}
	for _, s := range transitioning {
		if !s.IsTransitioning() {
			t.Errorf("IsTransitioning(%s) = false, want true", s)
		}
	}
	for _, s := range steady {
		if s.IsTransitioning() {
			t.Errorf("IsTransitioning(%s) = true, want false", s)
		}
	}
}

func TestTimeRemainingLifeState_CollapsesToExpired(t *testing.T) {
	if got := TimeRemainingLifeState(0); got.Kind != LifeExpired {
		t.Fatalf("TimeRemainingLifeState(0).Kind = %v, want LifeExpired", got.Kind)
	}
	if got := TimeRemainingLifeState(-time.Hour); got.Kind != LifeExpired {
		t.Fatalf("TimeRemainingLifeState(-1h).Kind = %v, want LifeExpired", got.Kind)
	}
	got := TimeRemainingLifeState(26*time.Hour + 30*time.Minute)
	if got.Kind != LifeTimeRemaining {
		t.Fatalf("Kind = %v, want LifeTimeRemaining", got.Kind)
	}
	if got.String() != "26h 30m remaining" {
		t.Fatalf("String() = %q", got.String())
	}
}

func TestReservoirLevel(t *testing.T) {
	above := ReservoirAboveThreshold()
	if _, ok := above.Units(); ok {
		t.Fatal("above-threshold level should not report exact units")
	}
	if above.String() != "50+ U" {
		t.Fatalf("String() = %q", above.String())
	}

	exact := ReservoirValid(12.5)
	units, ok := exact.Units()
	if !ok || units != 12.5 {
		t.Fatalf("Units() = %v, %v", units, ok)
	}
	if exact.String() != "12.5 U" {
		t.Fatalf("String() = %q", exact.String())
	}

	if units, _ := ReservoirValid(-1).Units(); units != 0 {
		t.Fatalf("negative reading should clamp to 0, got %v", units)
	}
}
