package source

import (
	"fmt"
	"time"
)

// DefaultFollowInterval is how often an ordinary file is checked for growth.
const DefaultFollowInterval = 1000 * time.Millisecond

// FollowPolicy says whether a reader keeps watching its file for appended
// data after reaching the end. The zero value is Disabled.
type FollowPolicy struct {
	interval time.Duration
}

// Disabled returns the policy that reads to end of data and stops
// watching for growth.
func Disabled() FollowPolicy { return FollowPolicy{} }

// IntervalPoll returns a policy that polls for growth every ms milliseconds.
// It panics if ms is not positive.
func IntervalPoll(ms int) FollowPolicy {
	if ms <= 0 {
		panic(fmt.Sprintf("source: non-positive follow interval %d", ms))
	}
	return FollowPolicy{interval: time.Duration(ms) * time.Millisecond}
}

// FollowFreq converts a configured follow frequency in milliseconds into a
// policy. Zero or negative values disable following.
func FollowFreq(ms int) FollowPolicy {
	if ms <= 0 {
		return Disabled()
	}
	return IntervalPoll(ms)
}

// Enabled reports whether the policy polls for growth.
func (f FollowPolicy) Enabled() bool { return f.interval > 0 }

// Interval is the poll period, zero when disabled.
func (f FollowPolicy) Interval() time.Duration { return f.interval }

// IntervalMS is the poll period in milliseconds, zero when disabled.
func (f FollowPolicy) IntervalMS() int { return int(f.interval / time.Millisecond) }

func (f FollowPolicy) String() string {
	if !f.Enabled() {
		return "disabled"
	}
	return fmt.Sprintf("interval-poll(%dms)", f.IntervalMS())
}

// OpenerKind names the open procedure used for a source.
type OpenerKind int

const (
	// RegularFiles opens the path as an ordinary, seekable file.
	RegularFiles OpenerKind = iota
	// ProcKmsgPrivileged opens /proc/kmsg, which requires elevated privileges.
	ProcKmsgPrivileged
	// DevKmsgOpener opens /dev/kmsg in record mode.
	DevKmsgOpener
)

func (o OpenerKind) String() string {
	switch o {
	case RegularFiles:
		return "regular-files"
	case ProcKmsgPrivileged:
		return "proc-kmsg-privileged"
	case DevKmsgOpener:
		return "dev-kmsg"
	default:
		return "unknown"
	}
}

// NeedsPrivileges reports whether opening requires elevated privileges.
func (o OpenerKind) NeedsPrivileges() bool { return o == ProcKmsgPrivileged }

// Strategy is the reading strategy resolved for one source.
type Strategy struct {
	Kind            Kind
	Compat          Compat
	Follow          FollowPolicy
	Opener          OpenerKind
	NeedsPrivileges bool
	// PersistEligible is true when a saved read position is meaningful,
	// which is only the case for sources polled for growth.
	PersistEligible bool
}

// Resolve computes the follow policy and opener for kind. Legacy mode
// always disables following, whatever the kind.
//
// DevKmsg is explicitly in the no-follow set: otherwise a /dev/kmsg whose
// probe failed would be polled like a file and opened with the regular
// opener.
func Resolve(kind Kind, compat Compat) Strategy {
	s := Strategy{Kind: kind, Compat: compat}

	switch {
	case compat == Legacy:
		s.Follow = Disabled()
	case kind == DeviceNode || kind == ProcKmsg || kind == DevKmsg:
		s.Follow = Disabled()
	default:
		s.Follow = IntervalPoll(int(DefaultFollowInterval / time.Millisecond))
	}

	switch {
	case s.Follow.Enabled():
		s.Opener = RegularFiles
	case kind == ProcKmsg:
		s.Opener = ProcKmsgPrivileged
	case kind == DevKmsg:
		s.Opener = DevKmsgOpener
	default:
		s.Opener = RegularFiles
	}
	s.NeedsPrivileges = s.Opener.NeedsPrivileges()
	s.PersistEligible = s.Follow.Enabled()
	return s
}
