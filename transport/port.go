package transport

import (
	"sync"

	"github.com/pkg/errors"
)

var ErrNoEphemeralPort = errors.New("no ephemeral port available")

// PortTable keeps track of occupied ports.
type PortTable struct {
	table map[uint16]struct{}
	mu    sync.Mutex

	ephemeral [2]uint16 // start, end
	rand      func() uint16
	maxTry    uint
}

type EphemeralPortOptions struct {
	Range  [2]uint16 // [start, end)
	Rand   func() uint16
	MaxTry uint
}

func (o EphemeralPortOptions) validate() error {
	if o.Range[0] >= o.Range[1] {
		return errors.Errorf("end(%d) must be greater than start(%d)", o.Range[1], o.Range[0])
	}
	if o.Rand == nil {
		return errors.New("rand function must be provided")
	}
	return nil
}

func NewPortTable(opts EphemeralPortOptions) *PortTable {
	if err := opts.validate(); err != nil {
		panic(err)
	}

	return &PortTable{
		table:     make(map[uint16]struct{}),
		ephemeral: opts.Range,
		rand:      opts.Rand,
		maxTry:    opts.MaxTry,
	}
}

// Occupy marks port as used until release is called.
// Port 0 picks a free port from the ephemeral range.
func (p *PortTable) Occupy(port uint16) (occupied uint16, release func(), err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if port == 0 {
		return p.occupyEphemeralLocked()
	}

	release, ok := p.occupyLocked(port)
	if !ok {
		return 0, nil, ErrAddrAlreadyInUse
	}
	return port, release, nil
}

func (p *PortTable) occupyEphemeralLocked() (uint16, func(), error) {
	for range p.maxTry {
		port := p.selectEphemeral()
		if port == 0 {
			continue
		}

		if release, ok := p.occupyLocked(port); ok {
			return port, release, nil
		}
	}

	return 0, nil, ErrNoEphemeralPort
}

func (p *PortTable) occupyLocked(port uint16) (release func(), ok bool) {
	if _, found := p.table[port]; found {
		return nil, false
	}

	p.table[port] = struct{}{}

	var once sync.Once
	release = func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.table, port)
		})
	}

	return release, true
}

func (p *PortTable) selectEphemeral() uint16 {
	gap := p.ephemeral[1] - p.ephemeral[0]
	return p.ephemeral[0] + (p.rand() % gap)
}
