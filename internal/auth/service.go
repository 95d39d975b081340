package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend-trailhub/internal/db"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

var (
	ErrMissingFields      = errors.New("email, username, password required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token invalid")
)

var (
	signTokenFn       = (*Service).signToken
	hashPasswordFn    = bcrypt.GenerateFromPassword
	parseWithClaimsFn = jwt.ParseWithClaims
)

type Service struct {
	secret []byte
	db     db.Querier
}

type Claims struct {
	HikerID string `json:"hiker_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, db db.Querier) *Service {
	return &Service{
		secret: []byte(secret),
		db:     db,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (Hiker, TokenResponse, error) {
	if req.Email == "" || req.Username == "" || req.Password == "" {
		return Hiker{}, TokenResponse{}, ErrMissingFields
	}
	hash, err := hashPasswordFn([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return Hiker{}, TokenResponse{}, fmt.Errorf("hash password: %w", err)
	}

	hiker := Hiker{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO hikers (id, email, username, password_hash)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, hiker.ID, hiker.Email, hiker.Username, hiker.PasswordHash)
	if err := row.Scan(&hiker.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Hiker{}, TokenResponse{}, ErrEmailTaken
		}
		return Hiker{}, TokenResponse{}, fmt.Errorf("insert hiker: %w", err)
	}

	tokens, err := s.GenerateToken(hiker.ID)
	if err != nil {
		return Hiker{}, TokenResponse{}, err
	}
	return hiker, tokens, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (Hiker, TokenResponse, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, email, username, password_hash, created_at
		FROM hikers WHERE email = $1
	`, req.Email)

	var hiker Hiker
	if err := row.Scan(&hiker.ID, &hiker.Email, &hiker.Username, &hiker.PasswordHash, &hiker.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Hiker{}, TokenResponse{}, ErrInvalidCredentials
		}
		return Hiker{}, TokenResponse{}, fmt.Errorf("load hiker: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hiker.PasswordHash), []byte(req.Password)); err != nil {
		return Hiker{}, TokenResponse{}, ErrInvalidCredentials
	}

	tokens, err := s.GenerateToken(hiker.ID)
	if err != nil {
		return Hiker{}, TokenResponse{}, err
	}
	return hiker, tokens, nil
}

func (s *Service) GenerateToken(hikerID string) (TokenResponse, error) {
	access, err := signTokenFn(s, hikerID, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("sign token: %w", err)
	}
	return TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateAccessToken(token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}
	return claims.HikerID, nil
}

func (s *Service) signToken(hikerID string, ttl time.Duration) (string, error) {
	claims := Claims{
		HikerID: hikerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	return parseClaims(token, s.secret)
}

func parseClaims(token string, secret []byte) (*Claims, error) {
	parsed, err := parseWithClaimsFn(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.HikerID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
