package session

import (
	"sync"
	"time"

	"clientflow/internal/platform/auth"
	"clientflow/internal/platform/models"
)

// State is the session lifecycle. Role dispatch happens once, when the
// profile loads; afterwards callers branch on State, not on ad-hoc flags.
type State int

const (
	StateUninitialized State = iota
	StateLoadingProfile
	StateAuthenticated
	StatePortal
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoadingProfile:
		return "loading-profile"
	case StateAuthenticated:
		return "authenticated"
	case StatePortal:
		return "portal"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// DefaultInitTimeout bounds how long the manager waits for an initial auth
// event before deciding nobody is signed in. Without it a stale token store
// could leave the caller stuck in uninitialized forever.
const DefaultInitTimeout = 4 * time.Second

type authEvent struct {
	accessToken  string
	refreshToken string
}

// Manager is the single source of truth for "who is signed in and what is
// their profile". It consumes auth events instead of polling a current-
// session endpoint, and fails closed: a profile that cannot be loaded reads
// as not authenticated even when a token exists.
type Manager struct {
	api         *Client
	initTimeout time.Duration

	mu             sync.Mutex
	state          State
	profile        *models.Profile
	portalClientID string
	sessionExpired bool
	online         bool
	accessToken    string
	refreshToken   string

	events chan authEvent
	stop   chan struct{}
	once   sync.Once
}

type Option func(*Manager)

// WithInitTimeout overrides the init failsafe, mainly for tests.
func WithInitTimeout(d time.Duration) Option {
	return func(m *Manager) { m.initTimeout = d }
}

func NewManager(api *Client, opts ...Option) *Manager {
	m := &Manager{
		api:         api,
		initTimeout: DefaultInitTimeout,
		state:       StateUninitialized,
		online:      true,
		events:      make(chan authEvent, 4),
		stop:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins consuming auth events. If no event arrives within the init
// timeout the state is forced to unauthenticated.
func (m *Manager) Start() {
	go m.loop()
}

// Close stops the event loop.
func (m *Manager) Close() {
	m.once.Do(func() { close(m.stop) })
}

// Restore feeds a previously stored token pair as the initial auth event.
func (m *Manager) Restore(accessToken, refreshToken string) {
	m.events <- authEvent{accessToken: accessToken, refreshToken: refreshToken}
}

func (m *Manager) loop() {
	failsafe := time.NewTimer(m.initTimeout)
	defer failsafe.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-failsafe.C:
			m.mu.Lock()
			if m.state == StateUninitialized {
				m.state = StateUnauthenticated
			}
			m.mu.Unlock()
		case ev := <-m.events:
			m.handleEvent(ev)
		}
	}
}

func (m *Manager) handleEvent(ev authEvent) {
	if ev.accessToken == "" {
		m.mu.Lock()
		m.state = StateUnauthenticated
		m.profile = nil
		m.portalClientID = ""
		m.accessToken = ""
		m.refreshToken = ""
		m.mu.Unlock()
		return
	}

	m.mu.Lock()
	m.state = StateLoadingProfile
	m.accessToken = ev.accessToken
	m.refreshToken = ev.refreshToken
	m.mu.Unlock()

	result, err := m.api.FetchProfile(ev.accessToken)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		if apiErr, ok := err.(*APIError); ok && auth.IsAuthError(apiErr, apiErr.Status) {
			// Expired or invalid session: flag it and force a sign-out.
			m.sessionExpired = true
			m.profile = nil
			m.state = StateUnauthenticated
			token := m.accessToken
			m.accessToken = ""
			m.refreshToken = ""
			go m.api.Logout(token)
			return
		}
		// Any other failure leaves profile nil; callers see unauthenticated.
		m.profile = nil
		m.state = StateUnauthenticated
		return
	}

	if result.PortalUser {
		m.profile = nil
		m.portalClientID = result.ClientID
		m.state = StatePortal
		return
	}

	m.profile = result.Profile
	m.state = StateAuthenticated
}

// SignIn authenticates and feeds the resulting tokens through the event
// loop.
func (m *Manager) SignIn(email, password string) error {
	tokens, err := m.api.Login(email, password)
	if err != nil {
		m.classify(err)
		return err
	}
	m.events <- authEvent{accessToken: tokens.AccessToken, refreshToken: tokens.RefreshToken}
	return nil
}

func (m *Manager) SignUp(email, password, fullName string) error {
	tokens, err := m.api.Signup(email, password, fullName)
	if err != nil {
		m.classify(err)
		return err
	}
	m.events <- authEvent{accessToken: tokens.AccessToken, refreshToken: tokens.RefreshToken}
	return nil
}

func (m *Manager) SignOut() error {
	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	var err error
	if token != "" {
		err = m.api.Logout(token)
	}
	m.events <- authEvent{}
	return err
}

func (m *Manager) ResetPassword(email string) error {
	err := m.api.ResetPassword(email)
	if err != nil {
		m.classify(err)
	}
	return err
}

func (m *Manager) UpdatePassword(newPassword string) error {
	m.mu.Lock()
	token := m.accessToken
	m.mu.Unlock()

	err := m.api.UpdatePassword(token, newPassword)
	if err != nil {
		m.classify(err)
	}
	return err
}

// RefreshSession exchanges the refresh token for a new pair and re-runs the
// profile load.
func (m *Manager) RefreshSession() error {
	m.mu.Lock()
	refresh := m.refreshToken
	m.mu.Unlock()

	tokens, err := m.api.Refresh(refresh)
	if err != nil {
		m.classify(err)
		return err
	}
	m.events <- authEvent{accessToken: tokens.AccessToken, refreshToken: tokens.RefreshToken}
	return nil
}

// classify marks the session expired when the error reads as an auth
// failure; all other errors are returned to the caller untouched.
func (m *Manager) classify(err error) {
	status := 0
	if apiErr, ok := err.(*APIError); ok {
		status = apiErr.Status
	}
	if auth.IsAuthError(err, status) {
		m.mu.Lock()
		m.sessionExpired = true
		m.mu.Unlock()
	}
}

// SetOnline tracks connectivity. Coming back online clears the expired flag
// speculatively; the next request re-validates for real.
func (m *Manager) SetOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if online && !m.online {
		m.sessionExpired = false
	}
	m.online = online
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) Profile() *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile
}

func (m *Manager) PortalClientID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.portalClientID
}

func (m *Manager) SessionExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionExpired
}

func (m *Manager) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}
