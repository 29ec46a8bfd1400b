package pod

import "testing"

func TestFaultEventCode_OcclusionSet(t *testing.T) {
	occlusions := []FaultEventCode{
		Occluded,
		OcclusionCheckStartup1,
		OcclusionCheckStartup2,
		OcclusionCheckTimeouts1,
		OcclusionCheckTimeouts2,
		OcclusionCheckTimeouts3,
		OcclusionCheckPulseIssue,
		OcclusionCheckBolusProblem,
		OcclusionCheckAboveThreshold,
	}
	if len(occlusions) != 9 {
		t.Fatalf("occlusion variant count = %d, want 9", len(occlusions))
	}
	for _, code := range occlusions {
		if !code.IsOcclusion() {
			t.Errorf("IsOcclusion(%s) = false, want true", code)
		}
	}

	others := []FaultEventCode{NoFaults, ReservoirEmpty, ExceededMaximumPodLife80Hrs, CommandError, FaultEventCode(0xff)}
	for _, code := range others {
		if code.IsOcclusion() {
			t.Errorf("IsOcclusion(%s) = true, want false", code)
		}
	}
}

func TestFaultEventCode_StringIsLowercaseHex(t *testing.T) {
	cases := []struct {
		code FaultEventCode
		want string
	}{
		{NoFaults, "0x00"},
		{Occluded, "0x14"},
		{ExceededMaximumPodLife80Hrs, "0x1c"},
		{OcclusionCheckAboveThreshold, "0x5c"},
		{FaultEventCode(0xab), "0xab"},
	}
	for _, tc := range cases {
		if got := tc.code.String(); got != tc.want {
			t.Errorf("String(%d) = %q, want %q", byte(tc.code), got, tc.want)
		}
	}
}

func TestFaultEventCode_UnknownHasDescription(t *testing.T) {
	if desc := FaultEventCode(0x7f).Description(); desc == "" {
		t.Fatal("unknown code must still describe itself")
	}
}
