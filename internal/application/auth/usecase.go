package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/pkg/jwt"
)

// Config operador único, política de bloqueo y duración de la sesión.
type Config struct {
	Username     string
	PasswordHash string // bcrypt
	MaxAttempts  int
	Lockout      time.Duration
	SessionTTL   time.Duration
	RememberTTL  time.Duration
	JWTSecret    string
	JWTIssuer    string
}

// AuthUseCase login del operador con bloqueo tras intentos fallidos.
type AuthUseCase struct {
	cfg Config
	now func() time.Time

	mu          sync.Mutex
	failures    int
	lockedUntil time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(cfg Config) *AuthUseCase {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = 15 * time.Minute
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.RememberTTL <= 0 {
		cfg.RememberTTL = 7 * 24 * time.Hour
	}
	return &AuthUseCase{cfg: cfg, now: time.Now}
}

// Login verifica usuario/password y genera el JWT. Tras MaxAttempts fallos
// consecutivos el login queda bloqueado durante Lockout (ErrLoginLocked).
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	if now.Before(uc.lockedUntil) {
		return nil, domain.ErrLoginLocked
	}

	if !uc.valid(in) {
		uc.failures++
		if uc.failures >= uc.cfg.MaxAttempts {
			uc.failures = 0
			uc.lockedUntil = now.Add(uc.cfg.Lockout)
			return nil, domain.ErrLoginLocked
		}
		return nil, domain.ErrUnauthorized
	}
	uc.failures = 0

	ttl := uc.cfg.SessionTTL
	if in.RememberMe {
		ttl = uc.cfg.RememberTTL
	}
	token, expires, err := jwt.Generate(uc.cfg.JWTSecret, uc.cfg.Username, uc.cfg.JWTIssuer, now, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, ExpiresAt: expires, Username: uc.cfg.Username}, nil
}

func (uc *AuthUseCase) valid(in dto.LoginRequest) bool {
	if uc.cfg.PasswordHash == "" || strings.TrimSpace(in.Username) != uc.cfg.Username {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(uc.cfg.PasswordHash), []byte(in.Password)) == nil
}

// LockedUntil fin del bloqueo vigente (cero si no hay).
func (uc *AuthUseCase) LockedUntil() time.Time {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.now().Before(uc.lockedUntil) {
		return uc.lockedUntil
	}
	return time.Time{}
}
