package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/reforged/reforged/token"
	"github.com/reforged/reforged/users"
)

// DefaultRole is assigned to every account created through signup.
const DefaultRole = "user"

// LoginResult carries the issued tokens for a successful login.
type LoginResult struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	AccessToken   string    `json:"access_token"`
	RefreshToken  string    `json:"refresh_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// SignupResult describes a freshly created account.
type SignupResult struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenService is the token issuance/validation capability the auth
// service depends on.
type TokenService interface {
	Generate(claims token.Claims, expiration time.Duration) (string, time.Time, error)
	Validate(tokenString string, expected token.Purpose) (token.Claims, error)
}

// Service implements credential verification and account lifecycle on top
// of a user repository, a password hasher and the token service.
type Service struct {
	userRepo           users.UserRepo
	hasher             users.Hasher
	tokenService       TokenService
	dummyHash          string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	resetTokenExpiry   time.Duration
	verifyTokenExpiry  time.Duration
	nowTime            func() time.Time
}

// ServiceOption configures optional Service behaviour.
type ServiceOption func(*Service)

// WithNowTime overrides the clock, used by tests.
func WithNowTime(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = now
	}
}

// WithExpiries overrides the token lifetimes.
func WithExpiries(access, refresh, reset, verify time.Duration) ServiceOption {
	return func(s *Service) {
		s.accessTokenExpiry = access
		s.refreshTokenExpiry = refresh
		s.resetTokenExpiry = reset
		s.verifyTokenExpiry = verify
	}
}

// NewService constructs the auth service. All dependencies are required.
func NewService(userRepo users.UserRepo, hasher users.Hasher, tokenService TokenService, options ...ServiceOption) (*Service, error) {
	if userRepo == nil {
		return nil, errors.New("[NewService] nil user repository")
	}
	if hasher == nil {
		return nil, errors.New("[NewService] nil password hasher")
	}
	if tokenService == nil {
		return nil, errors.New("[NewService] nil token service")
	}

	// Hashed once so failed lookups can burn the same verification cost
	// as a real account.
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, errors.Wrap(err, "[NewService] hashing dummy password")
	}

	s := &Service{
		userRepo:           userRepo,
		hasher:             hasher,
		tokenService:       tokenService,
		dummyHash:          dummy.Hash,
		accessTokenExpiry:  time.Hour,
		refreshTokenExpiry: 7 * 24 * time.Hour,
		resetTokenExpiry:   15 * time.Minute,
		verifyTokenExpiry:  24 * time.Hour,
		nowTime:            time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s, nil
}

// Login verifies the supplied credentials and issues an access and refresh
// token pair. Unknown email and wrong password are indistinguishable to the
// caller, both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if verr := validateLogin(email, password); verr != nil {
		return LoginResult{}, verr
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			log.Err(err).Msg("user lookup failed during login")
		}
		// Verify against the dummy hash so this path costs the same as
		// a wrong password, then collapse. The caller never learns
		// whether the account exists or the lookup failed.
		_ = s.hasher.Verify(password, s.dummyHash)
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := s.hasher.Verify(password, user.Hash); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	accessClaims := token.NewClaims(user.ID, user.Email, DefaultRole, s.accessTokenExpiry, token.PurposeAccessToken)
	accessToken, expiresAt, err := s.tokenService.Generate(accessClaims, s.accessTokenExpiry)
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "[Service.Login] generating access token")
	}

	refreshClaims := token.NewClaims(user.ID, user.Email, DefaultRole, s.refreshTokenExpiry, token.PurposeRefreshToken)
	refreshToken, _, err := s.tokenService.Generate(refreshClaims, s.refreshTokenExpiry)
	if err != nil {
		return LoginResult{}, errors.Wrap(err, "[Service.Login] generating refresh token")
	}

	return LoginResult{
		ID:            user.ID,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		ExpiresAt:     expiresAt,
	}, nil
}

// CreateUser registers a new account. The email must be unused and the
// password must satisfy the signup rules.
func (s *Service) CreateUser(ctx context.Context, email, password, confirmation string) (SignupResult, error) {
	if verr := validateSignup(email, password, confirmation); verr != nil {
		return SignupResult{}, verr
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return SignupResult{}, ErrPasswordHashingFailed
	}

	user := users.New(email, hashed.Hash, hashed.Salt)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return SignupResult{}, FromRepoError(err)
	}

	return SignupResult{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}
