package pipe

import (
	"github.com/google/uuid"
)

// State is the base state every pipe embeds: its configuration, the next
// node in the graph and whether it is initialized.
type State struct {
	cfg         *Config
	next        Pipe
	initialized bool
}

// NewState binds a pipe to cfg.
func NewState(cfg *Config) State {
	return State{cfg: cfg}
}

// Config returns the bound configuration.
func (s *State) Config() *Config { return s.cfg }

// Append makes next the node that receives this pipe's messages.
func (s *State) Append(next Pipe) { s.next = next }

// Next returns the downstream node, if any.
func (s *State) Next() Pipe { return s.next }

// Initialized reports whether InitMethod succeeded without a later
// DeinitMethod.
func (s *State) Initialized() bool { return s.initialized }

// InitMethod is the default init behaviour.
func (s *State) InitMethod() error {
	if s.cfg == nil {
		return ErrNoConfig
	}
	s.initialized = true
	return nil
}

// DeinitMethod is the default deinit behaviour.
func (s *State) DeinitMethod() error {
	s.initialized = false
	return nil
}

// Forward hands msg to the next node. Messages are dropped when the pipe
// has no downstream.
func (s *State) Forward(msg *Message, po *PathOptions) {
	if s.next != nil {
		s.next.Queue(msg, po)
	}
}

// SourceDriver is the base state of source drivers. It wraps the pipe
// state and adds the driver identity.
type SourceDriver struct {
	pipe  State
	id    string
	group string
}

// NewSourceDriver returns the base state for a driver bound to cfg.
func NewSourceDriver(cfg *Config) SourceDriver {
	return SourceDriver{pipe: NewState(cfg)}
}

// Pipe returns the embedded pipe state.
func (d *SourceDriver) Pipe() *State { return &d.pipe }

// ID returns the driver ID, assigned at the first init when not set.
func (d *SourceDriver) ID() string { return d.id }

// SetID sets the driver ID.
func (d *SourceDriver) SetID(id string) { d.id = id }

// Group returns the name of the source group the driver belongs to.
func (d *SourceDriver) Group() string { return d.group }

// SetGroup sets the source group name.
func (d *SourceDriver) SetGroup(group string) { d.group = group }

// InitMethod initializes the pipe state and assigns an ID if none was
// configured.
func (d *SourceDriver) InitMethod() error {
	if err := d.pipe.InitMethod(); err != nil {
		return err
	}
	if d.id == "" {
		d.id = uuid.NewString()
	}
	return nil
}

// DeinitMethod deinitializes the pipe state.
func (d *SourceDriver) DeinitMethod() error {
	return d.pipe.DeinitMethod()
}

// QueueMethod stamps msg with the driver identity and forwards it.
func (d *SourceDriver) QueueMethod(msg *Message, po *PathOptions) {
	if msg.SourceID == "" {
		msg.SourceID = d.id
	}
	d.pipe.Forward(msg, po)
}

// FreeMethod drops references held by the base state.
func (d *SourceDriver) FreeMethod() {
	d.pipe.next = nil
	d.pipe.cfg = nil
}
