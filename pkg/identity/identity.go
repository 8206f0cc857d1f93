// Package identity defines the caller-identity capability the engine
// gates on. A provider completes an asynchronous handshake after
// process start and delivers a stable opaque identity exactly once per
// session. "No identity yet" is a precondition, not an error.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is an opaque stable caller identifier.
type Identity string

// Provider supplies the session identity.
type Provider interface {
	// Ready returns a channel that delivers the identity at most once
	// and is then closed. Every call observes the same session
	// identity once the handshake completes.
	Ready() <-chan Identity
}

// anonymous is a provider that mints a fresh anonymous identity,
// mirroring an anonymous sign-in handshake.
type anonymous struct {
	ready chan Identity
}

// NewAnonymous starts an anonymous handshake and returns the provider.
// The identity is delivered asynchronously on Ready.
func NewAnonymous(ctx context.Context) Provider {
	p := &anonymous{ready: make(chan Identity, 1)}
	go func() {
		id := Identity(uuid.NewString())
		select {
		case <-ctx.Done():
		default:
			p.ready <- id
		}
		close(p.ready)
	}()
	return p
}

// Ready implements Provider.
func (p *anonymous) Ready() <-chan Identity {
	return p.ready
}

// static is a provider with a known identity, delivered immediately.
type static struct {
	ready chan Identity
}

// NewStatic returns a provider that immediately reports the given
// identity. Used by the CLI (which derives identity from config) and
// by tests.
func NewStatic(id Identity) Provider {
	p := &static{ready: make(chan Identity, 1)}
	p.ready <- id
	close(p.ready)
	return p
}

// Ready implements Provider.
func (p *static) Ready() <-chan Identity {
	return p.ready
}
