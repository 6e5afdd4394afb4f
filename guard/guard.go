// Package guard evaluates navigation attempts against the current session:
// is the caller authenticated, does their entity type / role fit, and do
// they own the resource a route points at. The outcome is a routing
// decision, never an error page.
package guard

import (
	"context"
	"net/url"

	"github.com/vereint/vereint-go/auth"
	"github.com/vereint/vereint-go/session"
)

// State classifies the outcome of evaluating a guarded navigation.
type State int

const (
	// Allow lets the navigation proceed.
	Allow State = iota
	// RedirectLogin sends anonymous visitors to the login page, preserving
	// the originally requested path.
	RedirectLogin
	// RedirectUnauthorized sends authenticated-but-unauthorized visitors to
	// the unauthorized page.
	RedirectUnauthorized
)

// Decision is the evaluated outcome plus the redirect target, when any.
type Decision struct {
	State      State
	RedirectTo string
}

func allow() Decision { return Decision{State: Allow} }

func redirectLogin(path string) Decision {
	target := "/login"
	if path != "" {
		target += "?redirect=" + url.QueryEscape(path)
	}
	return Decision{State: RedirectLogin, RedirectTo: target}
}

func redirectUnauthorized() Decision {
	return Decision{State: RedirectUnauthorized, RedirectTo: "/unauthorized"}
}

// Rule is a predicate over the authenticated identity. Rules run only after
// the authentication check passed.
type Rule func(ctx context.Context, id session.Identity) (bool, error)

// RequireEntity admits only the given entity kind.
func RequireEntity(kind auth.EntityType) Rule {
	return func(_ context.Context, id session.Identity) (bool, error) {
		return id.Kind == kind, nil
	}
}

// RequireRole admits identities holding any of the named roles.
func RequireRole(roles ...string) Rule {
	return func(_ context.Context, id session.Identity) (bool, error) {
		return id.HasRole(roles...), nil
	}
}

// Custom lifts an arbitrary predicate into a Rule.
func Custom(fn func(id session.Identity) bool) Rule {
	return func(_ context.Context, id session.Identity) (bool, error) {
		return fn(id), nil
	}
}

// All admits only identities passing every rule.
func All(rules ...Rule) Rule {
	return func(ctx context.Context, id session.Identity) (bool, error) {
		for _, rule := range rules {
			ok, err := rule(ctx, id)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Any admits identities passing at least one rule.
func Any(rules ...Rule) Rule {
	return func(ctx context.Context, id session.Identity) (bool, error) {
		var lastErr error
		for _, rule := range rules {
			ok, err := rule(ctx, id)
			if ok && err == nil {
				return true, nil
			}
			if err != nil {
				lastErr = err
			}
		}
		return false, lastErr
	}
}

// Sessions is the slice of the session manager the evaluator reads.
// *session.Manager satisfies it.
type Sessions interface {
	Current() (session.Identity, bool)
}

// Evaluator turns rules plus session state into routing decisions.
type Evaluator struct {
	sessions Sessions
	fetcher  ResourceFetcher
	// adminRoles bypass ownership checks entirely.
	adminRoles []string
}

// New returns an Evaluator. fetcher may be nil when no ownership rules are
// evaluated.
func New(sessions Sessions, fetcher ResourceFetcher, adminRoles ...string) *Evaluator {
	return &Evaluator{sessions: sessions, fetcher: fetcher, adminRoles: adminRoles}
}

// Evaluate runs the base authentication check followed by the given rules,
// conjunctively. path is the originally requested route, echoed into the
// login redirect.
func (e *Evaluator) Evaluate(ctx context.Context, path string, rules ...Rule) Decision {
	id, ok := e.sessions.Current()
	if !ok {
		return redirectLogin(path)
	}
	for _, rule := range rules {
		ok, err := rule(ctx, id)
		if err != nil || !ok {
			return redirectUnauthorized()
		}
	}
	return allow()
}
