package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/redis/go-redis/v9"

	"github.com/retailzero/brand-gateway/internal/core/ports"
)

const (
	keyLoginState    = "login_state"
	keyReturnTo      = "login_return_to"
	keyAuthSessionID = "auth_session_id"
	keyIDToken       = "id_token"
	keyRefreshToken  = "refresh_token"
	keyExpiry        = "token_expiry"
	keyClaims        = "claims"
	keyBrand         = "brand"
)

// SessionOptions configures the session cookie and its lifetime.
type SessionOptions struct {
	Lifetime     time.Duration
	CookieName   string
	CookieSecure bool
}

// NewSessionManager builds the scs manager. Sessions live in Redis when a
// client is given and in process memory otherwise.
func NewSessionManager(opts SessionOptions, rdb *redis.Client) *scs.SessionManager {
	sm := scs.New()
	if opts.Lifetime > 0 {
		sm.Lifetime = opts.Lifetime
	}
	if opts.CookieName != "" {
		sm.Cookie.Name = opts.CookieName
	}
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = opts.CookieSecure
	sm.Cookie.SameSite = http.SameSiteLaxMode

	if rdb != nil {
		sm.Store = goredisstore.New(rdb)
	} else {
		sm.Store = memstore.New()
	}
	return sm
}

// SessionStore keeps identity state in the caller's scs session. Claims are
// stored as JSON so that the session codec never sees arbitrary types.
type SessionStore struct {
	sm *scs.SessionManager
}

func NewSessionStore(sm *scs.SessionManager) *SessionStore {
	return &SessionStore{sm: sm}
}

func (s *SessionStore) PutLoginState(ctx context.Context, state, returnTo string) {
	s.sm.Put(ctx, keyLoginState, state)
	s.sm.Put(ctx, keyReturnTo, returnTo)
}

func (s *SessionStore) PopLoginState(ctx context.Context) (string, string) {
	return s.sm.PopString(ctx, keyLoginState), s.sm.PopString(ctx, keyReturnTo)
}

func (s *SessionStore) Renew(ctx context.Context) error {
	return s.sm.RenewToken(ctx)
}

func (s *SessionStore) Save(ctx context.Context, st ports.StoredSession) error {
	claims, err := json.Marshal(st.Claims)
	if err != nil {
		return fmt.Errorf("encode claims: %w", err)
	}
	s.sm.Put(ctx, keyAuthSessionID, st.AuthSessionID)
	s.sm.Put(ctx, keyIDToken, st.IDToken)
	s.sm.Put(ctx, keyRefreshToken, st.RefreshToken)
	s.sm.Put(ctx, keyExpiry, st.Expiry)
	s.sm.Put(ctx, keyClaims, string(claims))
	return nil
}

// Load returns the stored login. Sessions without an authentication session
// id, or with unreadable claims, count as absent.
func (s *SessionStore) Load(ctx context.Context) (ports.StoredSession, bool) {
	id := s.sm.GetString(ctx, keyAuthSessionID)
	if id == "" {
		return ports.StoredSession{}, false
	}
	var claims map[string]any
	if err := json.Unmarshal([]byte(s.sm.GetString(ctx, keyClaims)), &claims); err != nil {
		return ports.StoredSession{}, false
	}
	return ports.StoredSession{
		AuthSessionID: id,
		IDToken:       s.sm.GetString(ctx, keyIDToken),
		RefreshToken:  s.sm.GetString(ctx, keyRefreshToken),
		Expiry:        s.sm.GetTime(ctx, keyExpiry),
		Claims:        claims,
	}, true
}

func (s *SessionStore) Destroy(ctx context.Context) error {
	return s.sm.Destroy(ctx)
}

func (s *SessionStore) SelectedBrand(ctx context.Context) string {
	return s.sm.GetString(ctx, keyBrand)
}

func (s *SessionStore) SelectBrand(ctx context.Context, slug string) {
	s.sm.Put(ctx, keyBrand, slug)
}
