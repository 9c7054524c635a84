package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Gunvolt24/techstore/internal/cache/memory"
	"github.com/Gunvolt24/techstore/internal/domain"
	"github.com/Gunvolt24/techstore/internal/kv"
	"github.com/Gunvolt24/techstore/internal/ports"
	"github.com/Gunvolt24/techstore/pkg/clock"
	"github.com/Gunvolt24/techstore/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials — неизвестный email или неверный пароль (не различаются).
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized — токен отсутствует, невалиден, истёк или сессия закрыта.
	ErrUnauthorized = errors.New("unauthorized")
)

const (
	DefaultTokenTTL       = 24 * time.Hour
	DefaultAdminCacheTTL  = time.Minute
	DefaultAdminCacheSize = 1024
)

// Config — параметры Gate.
type Config struct {
	Secret         string
	TokenTTL       time.Duration
	AdminCacheTTL  time.Duration
	AdminCacheSize int
}

// Session — выданная при входе сессия.
type Session struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Principal domain.Principal `json:"user"`
}

// Gate — вход/выход, проверка токена и признака администратора.
type Gate struct {
	users  ports.UserRepository
	store  ports.KVStore
	log    ports.Logger
	tokens *tokenIssuer
	ttl    time.Duration
	admins *memory.LRU[bool]
}

func NewGate(users ports.UserRepository, store ports.KVStore, clk ports.Clock, log ports.Logger, cfg Config) (*Gate, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: empty token secret")
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	if cfg.AdminCacheTTL <= 0 {
		cfg.AdminCacheTTL = DefaultAdminCacheTTL
	}
	if cfg.AdminCacheSize <= 0 {
		cfg.AdminCacheSize = DefaultAdminCacheSize
	}
	if clk == nil {
		clk = clock.NewReal()
	}
	return &Gate{
		users:  users,
		store:  store,
		log:    log,
		tokens: &tokenIssuer{secret: []byte(cfg.Secret), ttl: cfg.TokenTTL, now: clk.Now},
		ttl:    cfg.TokenTTL,
		admins: memory.NewFixedLRU[bool]("admin", cfg.AdminCacheSize, cfg.AdminCacheTTL, clk),
	}, nil
}

// SignIn — проверка пароля, выпуск токена и запись сессии в KV.
func (g *Gate) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		metrics.SignIns.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	user, err := g.users.UserByEmail(ctx, email)
	if err != nil {
		metrics.SignIns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		metrics.SignIns.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.SignIns.WithLabelValues("invalid").Inc()
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			g.log.Warnf(ctx, "sign-in: bad password hash for user %s err=%v", user.ID, err)
		}
		return nil, ErrInvalidCredentials
	}

	token, jti, expiresAt, err := g.tokens.issue(user.ID, user.Email)
	if err != nil {
		metrics.SignIns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("sign token: %w", err)
	}
	principal := domain.Principal{UserID: user.ID, Email: user.Email}
	raw, err := json.Marshal(principal)
	if err != nil {
		metrics.SignIns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	if err := g.store.Set(ctx, kv.SessionKey(jti), raw, g.ttl); err != nil {
		metrics.SignIns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("store session: %w", err)
	}

	metrics.SignIns.WithLabelValues("ok").Inc()
	g.log.Infof(ctx, "user %s signed in", user.ID)
	return &Session{Token: token, ExpiresAt: expiresAt, Principal: principal}, nil
}

// SignOut — закрыть сессию. Невалидный токен и повторный выход не ошибка.
func (g *Gate) SignOut(ctx context.Context, token string) error {
	c, err := g.tokens.parse(token)
	if err != nil {
		return nil
	}
	if err := g.store.Delete(ctx, kv.SessionKey(c.ID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Principal — пользователь по токену; сессия должна существовать в KV.
func (g *Gate) Principal(ctx context.Context, token string) (domain.Principal, error) {
	c, err := g.tokens.parse(token)
	if err != nil {
		return domain.Principal{}, ErrUnauthorized
	}
	raw, ok, err := g.store.Get(ctx, kv.SessionKey(c.ID))
	if err != nil {
		return domain.Principal{}, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return domain.Principal{}, ErrUnauthorized
	}

	var p domain.Principal
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID != c.Subject {
		g.log.Warnf(ctx, "session %s is unparsable or mismatched, rejecting", c.ID)
		return domain.Principal{}, ErrUnauthorized
	}
	return p, nil
}

// IsAdmin — вторичный запрос к хранилищу с кэшированием результата (и отрицательного тоже).
func (g *Gate) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if v, ok := g.admins.Get(userID); ok {
		return v, nil
	}
	isAdmin, err := g.users.IsAdmin(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("admin lookup: %w", err)
	}
	g.admins.Set(userID, isAdmin)
	return isAdmin, nil
}

// HashPassword — bcrypt-хеш для заведения учётных записей.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
