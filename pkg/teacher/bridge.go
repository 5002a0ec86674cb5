package teacher

import (
	"context"

	"github.com/soucha/fsmlib/pkg/fsm"
	"golang.org/x/sync/errgroup"
)

// PortDriver is the far side of a BlackBoxPort: whatever actually
// talks to the device (a serial line, a socket, a subprocess). Its
// methods run on the driver goroutine only.
type PortDriver interface {
	IsResettable() bool
	Reset() error
	Query(i fsm.InputID) (fsm.OutputID, error)
}

type portRequestKind int

const (
	portReset portRequestKind = iota // RESET_INPUT sentinel
	portQuery
	portStop // LEARNING_COMPLETED sentinel
)

type portRequest struct {
	kind  portRequestKind
	input fsm.InputID
}

type portResponse struct {
	output fsm.OutputID
	err    error
}

// BlackBoxPort is a BlackBox whose queries are relayed across a
// channel pair to a driver goroutine running PortDriver, mirroring the
// original's two-thread bridge (spec.md §5): a learning side and a
// driver side, connected by a request queue and a response buffer.
// RESET_INPUT and LEARNING_COMPLETED are side-band control messages
// here too (portReset, portStop), never ordinary queried inputs.
//
// Cancelling the context passed to Run abandons any in-flight request
// with no consistency guarantee about the device's resulting state,
// matching the original's stop() semantics; there is no per-query
// timeout.
type BlackBoxPort struct {
	requests  chan portRequest
	responses chan portResponse
	resets    int
	symbols   int
}

// NewBlackBoxPort creates an unconnected port; call Run to start the
// driver goroutine before issuing any query.
func NewBlackBoxPort() *BlackBoxPort {
	return &BlackBoxPort{
		requests:  make(chan portRequest),
		responses: make(chan portResponse),
	}
}

// Run starts the driver loop and blocks until ctx is cancelled or a
// portStop request is sent (via Stop), returning ctx.Err() on
// cancellation and nil on Stop. Intended to be launched in its own
// goroutine, e.g. via errgroup.Group.Go. A driver's Reset or Query
// error does not end Run; it is returned to the caller of ResetCtx or
// QueryCtx.
func (p *BlackBoxPort) Run(ctx context.Context, driver PortDriver) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-p.requests:
			switch req.kind {
			case portStop:
				return nil
			case portReset:
				err := driver.Reset()
				select {
				case p.responses <- portResponse{err: err}:
				case <-ctx.Done():
					return ctx.Err()
				}
			case portQuery:
				out, err := driver.Query(req.input)
				select {
				case p.responses <- portResponse{output: out, err: err}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

// RunWithGroup starts Run under g, so Run's result (the context error
// on cancellation, nil on Stop) is reported through g.Wait alongside any
// learning-side error, per the Go-idiomatic equivalent of the original's
// joined thread lifetimes. Driver errors are not reported through g.
func (p *BlackBoxPort) RunWithGroup(ctx context.Context, g *errgroup.Group, driver PortDriver) {
	g.Go(func() error { return p.Run(ctx, driver) })
}

func (p *BlackBoxPort) roundTrip(ctx context.Context, req portRequest) (portResponse, error) {
	select {
	case p.requests <- req:
	case <-ctx.Done():
		return portResponse{}, ctx.Err()
	}
	select {
	case resp := <-p.responses:
		return resp, nil
	case <-ctx.Done():
		return portResponse{}, ctx.Err()
	}
}

// Stop sends the LEARNING_COMPLETED sentinel, asking Run to return.
func (p *BlackBoxPort) Stop(ctx context.Context) {
	select {
	case p.requests <- portRequest{kind: portStop}:
	case <-ctx.Done():
	}
}

// IsResettable, Reset, and Query below implement BlackBox against the
// background context; callers needing cancellation should use
// ResetCtx/QueryCtx directly.

func (p *BlackBoxPort) Reset() {
	p.ResetCtx(context.Background())
}

func (p *BlackBoxPort) ResetCtx(ctx context.Context) error {
	resp, err := p.roundTrip(ctx, portRequest{kind: portReset})
	if err != nil {
		return err
	}
	if resp.err == nil {
		p.resets++
	}
	return resp.err
}

func (p *BlackBoxPort) Query(i fsm.InputID) fsm.OutputID {
	out, _ := p.QueryCtx(context.Background(), i)
	return out
}

func (p *BlackBoxPort) QueryCtx(ctx context.Context, i fsm.InputID) (fsm.OutputID, error) {
	resp, err := p.roundTrip(ctx, portRequest{kind: portQuery, input: i})
	if err != nil {
		return fsm.WrongOutput, err
	}
	if resp.err == nil {
		p.symbols++
	}
	return resp.output, resp.err
}

func (p *BlackBoxPort) IsResettable() bool { return true }

func (p *BlackBoxPort) AppliedResetCount() int   { return p.resets }
func (p *BlackBoxPort) QueriedSymbolsCount() int { return p.symbols }
