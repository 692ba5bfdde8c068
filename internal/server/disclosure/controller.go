// Package disclosure guards the two secrets an account owner may ask to see:
// the wallet private key, shown inside a short password-gated window, and
// the recovery phrase, which is never retained and so can never be shown
// again after registration.
package disclosure

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/lightningnetwork/lnd/clock"
)

// RevealWindow is how long a private key stays viewable after the password
// has been re-verified.
const RevealWindow = 60 * time.Second

// AckCannotRecover is the only acknowledgement accepted before a recovery
// phrase request is considered.
const AckCannotRecover = "cannot-recover"

// State of an account's private key disclosure.
type State int

const (
	Locked State = iota
	Authorizing
	Unlocked
)

func (s State) String() string {
	switch s {
	case Authorizing:
		return "authorizing"
	case Unlocked:
		return "unlocked"
	default:
		return "locked"
	}
}

// Credentials is what the controller needs from the account store.
type Credentials interface {
	VerifyPassword(ctx context.Context, accountID, password string) error
	PrivateKey(ctx context.Context, accountID string) (string, error)
}

// Disclosure is a private key handed out inside an open window.
type Disclosure struct {
	PrivateKey string
	ExpiresAt  time.Time
}

type session struct {
	// lock is a one-slot semaphore; holding it grants access to the fields
	// below.
	lock      chan struct{}
	state     State
	expiresAt time.Time
	detached  bool
}

// Controller tracks disclosure state per account. Requests for the same
// account are serialized; different accounts never wait on each other.
type Controller struct {
	creds  Credentials
	clock  clock.Clock
	window time.Duration
	logger logging.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

// NewController returns a Controller using RevealWindow. A nil clock means
// the wall clock.
func NewController(creds Credentials, clk clock.Clock, logger logging.Logger) *Controller {
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	return &Controller{
		creds:    creds,
		clock:    clk,
		window:   RevealWindow,
		logger:   logger.With("module", "disclosure"),
		sessions: make(map[string]*session),
	}
}

// acquire locks the session of accountID, creating it if needed. The caller
// must call release.
func (c *Controller) acquire(ctx context.Context, accountID string) (*session, error) {
	for {
		c.mu.Lock()
		s, ok := c.sessions[accountID]
		if !ok {
			s = &session{lock: make(chan struct{}, 1)}
			c.sessions[accountID] = s
		}
		c.mu.Unlock()

		select {
		case s.lock <- struct{}{}:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if !s.detached {
			return s, nil
		}
		// Swept while we were waiting; look it up again.
		<-s.lock
	}
}

func release(s *session) { <-s.lock }

// expire closes a window whose deadline has passed. Must hold s.lock.
func (c *Controller) expire(s *session, now time.Time) {
	if s.state == Unlocked && !now.Before(s.expiresAt) {
		s.state = Locked
		s.expiresAt = time.Time{}
	}
}

// RevealPrivateKey returns the account's private key. Inside an open window
// the key is returned with the window's original deadline. Otherwise the
// password is required and, once verified, opens a new window.
func (c *Controller) RevealPrivateKey(ctx context.Context, accountID, password string) (*Disclosure, error) {
	s, err := c.acquire(ctx, accountID)
	if err != nil {
		return nil, err
	}
	defer release(s)

	c.expire(s, c.clock.Now())

	if s.state == Unlocked {
		if password != "" {
			if err := c.creds.VerifyPassword(ctx, accountID, password); err != nil {
				c.logger.Warn(ctx, "password re-check failed inside open window", "account_id", accountID)
				return nil, err
			}
		}
		key, err := c.creds.PrivateKey(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return &Disclosure{PrivateKey: key, ExpiresAt: s.expiresAt}, nil
	}

	s.state = Authorizing
	if password == "" {
		return nil, common.ErrReauthenticationRequired
	}
	if err := c.creds.VerifyPassword(ctx, accountID, password); err != nil {
		c.logger.Warn(ctx, "private key reveal rejected", "account_id", accountID)
		return nil, err
	}

	key, err := c.creds.PrivateKey(ctx, accountID)
	if err != nil {
		s.state = Locked
		return nil, err
	}

	s.state = Unlocked
	s.expiresAt = c.clock.Now().Add(c.window)
	c.logger.Info(ctx, "private key window opened", "account_id", accountID, "expires_at", s.expiresAt)

	return &Disclosure{PrivateKey: key, ExpiresAt: s.expiresAt}, nil
}

// Hide closes any open window for the account.
func (c *Controller) Hide(ctx context.Context, accountID string) error {
	s, err := c.acquire(ctx, accountID)
	if err != nil {
		return err
	}
	defer release(s)

	if s.state == Unlocked {
		c.logger.Info(ctx, "private key window closed", "account_id", accountID)
	}
	s.state = Locked
	s.expiresAt = time.Time{}
	return nil
}

// Status reports the current state and, when unlocked, the window deadline.
func (c *Controller) Status(ctx context.Context, accountID string) (State, time.Time, error) {
	s, err := c.acquire(ctx, accountID)
	if err != nil {
		return Locked, time.Time{}, err
	}
	defer release(s)

	c.expire(s, c.clock.Now())
	return s.state, s.expiresAt, nil
}

// RevealRecoveryPhrase runs the checks a recovery phrase request must pass
// and then reports ErrMnemonicNotRetained: the phrase is shown only once, at
// registration, and is not stored.
func (c *Controller) RevealRecoveryPhrase(ctx context.Context, accountID, ack, password string) error {
	if ack != AckCannotRecover {
		return common.ErrRiskNotAcknowledged
	}
	if password == "" {
		return common.ErrReauthenticationRequired
	}
	if err := c.creds.VerifyPassword(ctx, accountID, password); err != nil {
		c.logger.Warn(ctx, "recovery phrase request rejected", "account_id", accountID)
		return err
	}
	c.logger.Info(ctx, "recovery phrase requested after registration", "account_id", accountID)
	return common.ErrMnemonicNotRetained
}

// Run drops expired and idle sessions every interval until ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.clock.TickAfter(interval):
			c.sweep()
		}
	}
}

func (c *Controller) sweep() {
	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, s := range c.sessions {
		select {
		case s.lock <- struct{}{}:
		default:
			// busy; next round
			continue
		}
		c.expire(s, now)
		if s.state == Locked {
			s.detached = true
			delete(c.sessions, id)
		}
		release(s)
	}
}

// tracked reports how many accounts currently hold a session.
func (c *Controller) tracked() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
