package source

import (
	"testing"
	"time"
)

var allKinds = []Kind{RegularFile, ProcKmsg, DevKmsg, DeviceNode}

func TestResolve_LegacyAlwaysDisablesFollow(t *testing.T) {
	for _, k := range allKinds {
		s := Resolve(k, Legacy)
		if s.Follow.Enabled() {
			t.Errorf("kind=%s: legacy follow = %s, want disabled", k, s.Follow)
		}
		if s.PersistEligible {
			t.Errorf("kind=%s: legacy persist eligible, want false", k)
		}
	}
}

func TestResolve_Table(t *testing.T) {
	tests := []struct {
		kind       Kind
		compat     Compat
		follow     FollowPolicy
		opener     OpenerKind
		privileged bool
		persist    bool
	}{
		{RegularFile, Current, IntervalPoll(1000), RegularFiles, false, true},
		{DeviceNode, Current, Disabled(), RegularFiles, false, false},
		{ProcKmsg, Current, Disabled(), ProcKmsgPrivileged, true, false},
		{DevKmsg, Current, Disabled(), DevKmsgOpener, false, false},
		{RegularFile, Legacy, Disabled(), RegularFiles, false, false},
		{DeviceNode, Legacy, Disabled(), RegularFiles, false, false},
		{ProcKmsg, Legacy, Disabled(), ProcKmsgPrivileged, true, false},
		{DevKmsg, Legacy, Disabled(), DevKmsgOpener, false, false},
	}
	for _, tt := range tests {
		s := Resolve(tt.kind, tt.compat)
		if s.Follow != tt.follow {
			t.Errorf("%s/%s: follow = %s, want %s", tt.kind, tt.compat, s.Follow, tt.follow)
		}
		if s.Opener != tt.opener {
			t.Errorf("%s/%s: opener = %s, want %s", tt.kind, tt.compat, s.Opener, tt.opener)
		}
		if s.NeedsPrivileges != tt.privileged {
			t.Errorf("%s/%s: needs privileges = %v, want %v", tt.kind, tt.compat, s.NeedsPrivileges, tt.privileged)
		}
		if s.PersistEligible != tt.persist {
			t.Errorf("%s/%s: persist eligible = %v, want %v", tt.kind, tt.compat, s.PersistEligible, tt.persist)
		}
	}
}

func TestResolve_PrivilegesOnlyForProcKmsgOpener(t *testing.T) {
	for _, k := range []Kind{ProcKmsg, DevKmsg} {
		for _, c := range []Compat{Current, Legacy} {
			s := Resolve(k, c)
			if s.NeedsPrivileges != (s.Opener == ProcKmsgPrivileged) {
				t.Errorf("%s/%s: needs privileges = %v with opener %s", k, c, s.NeedsPrivileges, s.Opener)
			}
		}
	}
}

func TestFollowPolicy(t *testing.T) {
	var zero FollowPolicy
	if zero.Enabled() || zero != Disabled() {
		t.Error("zero FollowPolicy should be Disabled")
	}
	p := IntervalPoll(250)
	if !p.Enabled() || p.Interval() != 250*time.Millisecond || p.IntervalMS() != 250 {
		t.Errorf("IntervalPoll(250) = %s", p)
	}
	if got := p.String(); got != "interval-poll(250ms)" {
		t.Errorf("String() = %q", got)
	}
	if FollowFreq(0).Enabled() || FollowFreq(-1).Enabled() {
		t.Error("FollowFreq with non-positive value should be disabled")
	}
	if FollowFreq(10) != IntervalPoll(10) {
		t.Error("FollowFreq(10) should equal IntervalPoll(10)")
	}
}

func TestIntervalPoll_PanicsOnNonPositive(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for IntervalPoll(0)")
		}
	}()
	IntervalPoll(0)
}
