package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/vereint/vereint-go/auth"
)

// ErrSessionExpired signals that the access token lapsed and the refresh
// token could not renew it. The session has been cleared; the caller should
// route the user to login.
var ErrSessionExpired = errors.New("session: expired, login required")

// ErrNotAuthenticated signals that no session is present at all.
var ErrNotAuthenticated = errors.New("session: not authenticated")

var errUnknownEntity = errors.New("session: token carries no known entity type")

const logoutTimeout = 5 * time.Second

// AuthAPI is the slice of the auth client the manager needs. *auth.Client
// satisfies it; tests substitute fakes.
type AuthAPI interface {
	LoginUser(ctx context.Context, creds auth.Credentials) (auth.LoginResult, error)
	LoginNGO(ctx context.Context, creds auth.Credentials) (auth.LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (auth.Tokens, error)
	Me(ctx context.Context, accessToken string) (json.RawMessage, error)
}

// Snapshot is the read-only view handed to subscribers on every state change.
type Snapshot struct {
	Authenticated bool
	Identity      Identity
}

// Config wires the manager's collaborators.
type Config struct {
	Auth   AuthAPI
	Store  Store
	Logger zerolog.Logger
}

// Manager owns the current session. It is the sole writer of token and
// identity state; everything else reads through Current/Tokens/AccessToken
// or subscribes to changes. Safe for concurrent use.
type Manager struct {
	authAPI AuthAPI
	store   Store
	log     zerolog.Logger

	mu       sync.RWMutex
	state    State
	identity Identity
	authed   bool

	subMu   sync.Mutex
	subs    map[int]func(Snapshot)
	nextSub int

	refresh singleflight.Group
}

// NewManager validates the configuration and returns a Manager with no
// session loaded. Call Hydrate to restore a persisted session.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Auth == nil {
		return nil, errors.New("session: auth client required")
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}
	return &Manager{
		authAPI: cfg.Auth,
		store:   store,
		log:     cfg.Logger,
		subs:    make(map[int]func(Snapshot)),
	}, nil
}

// Hydrate restores the session from the store. An absent, undecodable, or
// terminally expired session leaves the manager logged out without error;
// only store I/O failures are reported. When the access token is merely
// stale and a refresh token is present, Hydrate renews it in place.
func (m *Manager) Hydrate(ctx context.Context) error {
	state, err := m.store.Load()
	if err != nil {
		return err
	}
	if state.empty() {
		m.clear(false)
		return nil
	}
	if auth.IsExpired(state.Tokens.AccessToken) {
		if state.Tokens.RefreshToken == "" {
			m.clear(true)
			return nil
		}
		renewed, err := m.authAPI.Refresh(ctx, state.Tokens.RefreshToken)
		if err != nil {
			m.log.Debug().Err(err).Msg("session refresh during hydrate failed")
			m.clear(true)
			return nil
		}
		state.Tokens = renewed
	}
	claims := auth.Decode(state.Tokens.AccessToken)
	identity, ok := identityFromClaims(claims)
	if !ok {
		m.clear(true)
		return nil
	}
	if profile, err := m.authAPI.Me(ctx, state.Tokens.AccessToken); err == nil {
		if full, perr := parseProfile(identity.Kind, profile); perr == nil {
			identity = full
		}
	} else {
		m.log.Debug().Err(err).Msg("profile fetch during hydrate failed")
	}
	state.Entity = identity.Kind
	state.SubjectID = identity.ID()
	m.set(state, identity)
	return nil
}

// LoginUser authenticates a volunteer and installs the resulting session.
func (m *Manager) LoginUser(ctx context.Context, creds auth.Credentials) (Identity, error) {
	result, err := m.authAPI.LoginUser(ctx, creds)
	if err != nil {
		return Identity{}, err
	}
	return m.install(auth.EntityUser, result)
}

// LoginNGO authenticates an organisation and installs the resulting session.
func (m *Manager) LoginNGO(ctx context.Context, creds auth.Credentials) (Identity, error) {
	result, err := m.authAPI.LoginNGO(ctx, creds)
	if err != nil {
		return Identity{}, err
	}
	return m.install(auth.EntityNGO, result)
}

func (m *Manager) install(requested auth.EntityType, result auth.LoginResult) (Identity, error) {
	claims := auth.Decode(result.Tokens.AccessToken)
	identity, ok := identityFromClaims(claims)
	if !ok {
		// The token is the authoritative discriminator, but an opaque token
		// still came from the endpoint the caller chose.
		identity = Identity{Kind: requested}
	}
	if len(result.Profile) > 0 {
		if full, err := parseProfile(identity.Kind, result.Profile); err == nil {
			if identity.ID() != "" && full.ID() != identity.ID() {
				m.log.Warn().Str("token_id", identity.ID()).Str("profile_id", full.ID()).
					Msg("profile id disagrees with token claims")
			}
			identity = full
		}
	}
	state := State{Tokens: result.Tokens, Entity: identity.Kind, SubjectID: identity.ID()}
	m.set(state, identity)
	return identity, nil
}

// Logout clears the session. The server-side revocation is fire-and-forget:
// local state is gone before the network call resolves, and a failed
// revocation is only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	refreshToken := m.state.Tokens.RefreshToken
	m.mu.Unlock()

	m.clear(true)

	if refreshToken == "" {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, logoutTimeout)
		defer cancel()
		if err := m.authAPI.Logout(ctx, refreshToken); err != nil {
			m.log.Warn().Err(err).Msg("server-side logout failed")
		}
	}()
}

// Current returns the active identity, if any.
func (m *Manager) Current() (Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.identity, m.authed
}

// Tokens returns the active token bundle, if any.
func (m *Manager) Tokens() (auth.Tokens, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.authed {
		return auth.Tokens{}, false
	}
	return m.state.Tokens, true
}

// AccessToken returns an access token that is valid for at least the expiry
// buffer, refreshing through the stored refresh token when needed.
// Concurrent callers share a single refresh.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.RLock()
	authed := m.authed
	token := m.state.Tokens.AccessToken
	m.mu.RUnlock()
	if !authed {
		return "", ErrNotAuthenticated
	}
	if !auth.IsExpired(token) {
		return token, nil
	}
	return m.ForceRefresh(ctx)
}

// ForceRefresh renews the token bundle regardless of the current token's
// remaining lifetime. This is the 401 recovery path: one refresh, shared by
// concurrent callers; a refusal from the backend clears the session.
func (m *Manager) ForceRefresh(ctx context.Context) (string, error) {
	token, err, _ := m.refresh.Do("refresh", func() (any, error) {
		m.mu.RLock()
		authed := m.authed
		refreshToken := m.state.Tokens.RefreshToken
		m.mu.RUnlock()
		if !authed || refreshToken == "" {
			return "", ErrNotAuthenticated
		}
		renewed, err := m.authAPI.Refresh(ctx, refreshToken)
		if err != nil {
			m.log.Warn().Err(err).Msg("token refresh rejected")
			m.clear(true)
			return "", errors.Join(ErrSessionExpired, err)
		}
		m.mu.Lock()
		m.state.Tokens = renewed
		state := m.state
		m.mu.Unlock()
		m.persist(state)
		m.notify()
		return renewed.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// Subscribe registers fn for session changes and returns a cancel func.
// fn runs synchronously on the mutating goroutine; keep it cheap.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()
	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) set(state State, identity Identity) {
	m.mu.Lock()
	m.state = state
	m.identity = identity
	m.authed = true
	m.mu.Unlock()
	m.persist(state)
	m.notify()
}

func (m *Manager) clear(wipeStore bool) {
	m.mu.Lock()
	wasAuthed := m.authed
	m.state = State{}
	m.identity = Identity{}
	m.authed = false
	m.mu.Unlock()
	if wipeStore {
		if err := m.store.Clear(); err != nil {
			m.log.Warn().Err(err).Msg("clearing session store failed")
		}
	}
	if wasAuthed {
		m.notify()
	}
}

func (m *Manager) persist(state State) {
	if err := m.store.Save(state); err != nil {
		m.log.Warn().Err(err).Msg("persisting session failed")
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	snap := Snapshot{Authenticated: m.authed, Identity: m.identity}
	m.mu.RUnlock()
	m.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
