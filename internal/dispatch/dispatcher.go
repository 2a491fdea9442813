// Package dispatch maps command intents to handlers and reports
// per-command outcomes. Handlers validate parameter shape themselves
// and only then touch the host boundary; the dispatcher knows nothing
// beyond lookup.
package dispatch

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/voidwell/scenectl/internal/host"
	"github.com/voidwell/scenectl/internal/protocol"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Result is the per-command outcome, used for logs and telemetry only.
// Nothing is ever written back to the client.
type Result struct {
	Intent  string
	Outcome string
	Reason  string
	Detail  string
}

func (r Result) OK() bool { return r.Outcome == OutcomeSuccess }

func success(detail string) Result {
	return Result{Outcome: OutcomeSuccess, Detail: detail}
}

func failure(format string, args ...any) Result {
	return Result{Outcome: OutcomeFailure, Reason: fmt.Sprintf(format, args...)}
}

// HostContext bundles the collaborator adapters handlers invoke.
type HostContext struct {
	Types   host.TypeResolver
	Factory host.EntityFactory
	World   host.WorldQuery
}

// Handler binds validation and invocation for one intent.
type Handler interface {
	Name() string
	Handle(cmd protocol.Command, hc HostContext) Result
}

// Dispatcher routes parsed commands through the registry.
type Dispatcher struct {
	reg *Registry
	hc  HostContext
	log zerolog.Logger
}

func NewDispatcher(reg *Registry, hc HostContext, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, hc: hc, log: log}
}

// Registry exposes the intent registry for listing surfaces.
func (d *Dispatcher) Registry() *Registry { return d.reg }

// Dispatch runs one command to completion synchronously. Every outcome
// is logged; failures never propagate as errors.
func (d *Dispatcher) Dispatch(cmd protocol.Command) Result {
	h, ok := d.reg.Resolve(cmd.Intent)
	if !ok {
		res := failure("unknown intent: %s", cmd.Intent)
		res.Intent = cmd.Intent
		d.log.Warn().Str("intent", cmd.Intent).Msg(res.Reason)
		return res
	}

	res := h.Handle(cmd, d.hc)
	res.Intent = cmd.Intent
	if res.OK() {
		d.log.Info().Str("intent", cmd.Intent).Str("detail", res.Detail).Msg("command dispatched")
	} else {
		d.log.Warn().Str("intent", cmd.Intent).Str("reason", res.Reason).Msg("command rejected")
	}
	return res
}
