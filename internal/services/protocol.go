package services

import (
	"fmt"

	"conferencescheduler/internal/domain"
)

// protocol records each step of one coordinator run and the undo actions for
// the mutations it has made so far.
type protocol struct {
	result *domain.ProtocolResult
	undo   []func()
}

func newProtocol(name, eventID string) *protocol {
	return &protocol{result: &domain.ProtocolResult{
		Protocol: name,
		EventID:  eventID,
		Steps:    []domain.Step{},
	}}
}

func (p *protocol) record(name string, err error) {
	step := domain.Step{Name: name, OK: err == nil}
	if err != nil {
		step.Error = err.Error()
	}
	p.result.Steps = append(p.result.Steps, step)
}

// check records a validation step. Nothing has been mutated when it fails.
func (p *protocol) check(name string, err error) error {
	p.record(name, err)
	return err
}

// commit records a mutating step and, when it succeeded, remembers how to undo it.
func (p *protocol) commit(name string, err error, undo func()) error {
	p.record(name, err)
	if err == nil && undo != nil {
		p.undo = append(p.undo, undo)
	}
	return err
}

// release records a best-effort cleanup step that never fails the protocol.
func (p *protocol) release(name string, released bool) {
	step := domain.Step{Name: name, OK: released}
	if !released {
		step.Error = "no entry"
	}
	p.result.Steps = append(p.result.Steps, step)
}

// rollback undoes committed steps in reverse order.
func (p *protocol) rollback() {
	if len(p.undo) == 0 {
		return
	}
	for i := len(p.undo) - 1; i >= 0; i-- {
		p.undo[i]()
	}
	p.undo = nil
	p.record("rollback", nil)
}

func (p *protocol) close(err error, aborted bool) *domain.ProtocolResult {
	switch {
	case aborted:
		p.result.Outcome = domain.OutcomeAborted
	case err != nil:
		p.result.Outcome = domain.OutcomeRejected
	default:
		p.result.Outcome = domain.OutcomeCommitted
	}
	return p.result
}

// expect turns a store's boolean answer into a sentinel-wrapped error.
func expect(ok bool, sentinel error, format string, args ...any) error {
	if ok {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, sentinel)...)
}

func validInterval(iv domain.Interval) error {
	if !iv.Valid() {
		return fmt.Errorf("interval %s must start before it ends: %w", iv, domain.ErrInvalidInput)
	}
	return nil
}
