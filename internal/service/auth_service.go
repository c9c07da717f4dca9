package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/venky2821/finalproject/internal/apierror"
	"github.com/venky2821/finalproject/internal/config"
	"github.com/venky2821/finalproject/internal/dto"
	"github.com/venky2821/finalproject/internal/model"
	"github.com/venky2821/finalproject/internal/repository"
	"github.com/venky2821/finalproject/internal/worker"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	passwordHistorySize = 5
	resetPurpose        = "password_reset"
	loginActivityLimit  = 50
)

// LoginMeta describes where a login came from.
type LoginMeta struct {
	IPAddress string
	UserAgent string
}

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest, meta LoginMeta) (*dto.TokenResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (*dto.MessageResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (*dto.MessageResponse, error)
	Me(ctx context.Context, actor Actor) (*dto.UserResponse, error)
	LoginActivity(ctx context.Context, actor Actor) ([]dto.LoginActivityResponse, error)
}

type authService struct {
	repo     repository.UserRepository
	cfg      *config.Config
	notifier Notifier
	cost     int
	now      func() time.Time
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config, notifier Notifier) AuthService {
	return &authService{repo: repo, cfg: cfg, notifier: notifier, cost: 12, now: time.Now}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, meta LoginMeta) (*dto.TokenResponse, error) {
	invalid := apierror.Unauthorized("Incorrect email or password")

	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, invalid
	}
	if !user.IsActive {
		return nil, apierror.BadRequest("Inactive user")
	}

	previous, err := s.repo.LastLogin(ctx, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		previous = nil
	} else if err != nil {
		return nil, err
	}
	activity := &model.LoginActivity{
		UserID:    user.ID,
		Timestamp: s.now().UTC(),
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := s.repo.RecordLogin(ctx, activity); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	if previous != nil &&
		(previous.IPAddress != meta.IPAddress || previous.UserAgent != meta.UserAgent) {
		s.sendLoginAlert(ctx, user, activity)
	}

	ttl := time.Duration(s.cfg.JWTExpirationMinutes) * time.Minute
	token, err := s.accessToken(user, ttl)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{AccessToken: token, TokenType: "bearer", ExpiresIn: int(ttl.Seconds())}, nil
}

func (s *authService) sendLoginAlert(ctx context.Context, user *model.User, a *model.LoginActivity) {
	body := fmt.Sprintf("Hi %s,\n\nWe noticed a login to your account %s\n\nTime: %s\nIP address: %s\nDevice: %s\n\n"+
		"If this was you\n\nYou can ignore this message. There's no need to take any action.\n\n"+
		"If this wasn't you\n\nPlease reset your password immediately.\n\nBest,\n\nTeam Merchandise Inventory",
		user.Username, user.Email, a.Timestamp.Format(time.RFC1123), a.IPAddress, a.UserAgent)
	err := s.notifier.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      []string{user.Email},
		Subject: "Login Alert for your Merchandise Inventory account",
		Body:    body,
	})
	if err != nil {
		log.Warn().Err(err).Str("user", user.Email).Msg("auth: login alert not queued")
	}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apierror.BadRequest("Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, apierror.BadRequest("Username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:           email,
		Username:        username,
		PasswordHash:    string(hash),
		PasswordHistory: []string{string(hash)},
		IsActive:        true,
		RoleID:          model.RoleCustomer,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) ForgotPassword(ctx context.Context, req dto.ForgotPasswordRequest) (*dto.MessageResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.BadRequest("User email does not exist")
	}
	if err != nil {
		return nil, err
	}

	token, err := s.resetToken(user)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetResetToken(ctx, user.ID, &token); err != nil {
		return nil, err
	}

	link := strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/change-password?token=" + token
	body := fmt.Sprintf("Hi %s,\n\nYou have requested to reset your password.\n\n"+
		"Use the following token to reset your password:\n\n%s\n\nOr open this link:\n%s\n\n"+
		"The token expires in %d minutes. If you did not request a reset, ignore this email.",
		user.Username, token, link, s.cfg.ResetTokenMinutes)
	if err := s.notifier.EnqueueEmail(ctx, worker.EmailJobPayload{
		To:      []string{user.Email},
		Subject: "Password Reset Request",
		Body:    body,
	}); err != nil {
		return nil, fmt.Errorf("queue reset email: %w", err)
	}
	return &dto.MessageResponse{Message: "Password reset link sent!"}, nil
}

func (s *authService) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest) (*dto.MessageResponse, error) {
	invalid := apierror.BadRequest("Invalid or expired reset token")

	email, err := s.parseResetToken(req.Token)
	if err != nil {
		return nil, invalid
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if user.ResetToken == nil || *user.ResetToken != req.Token {
		return nil, invalid
	}

	for _, old := range user.PasswordHistory {
		if bcrypt.CompareHashAndPassword([]byte(old), []byte(req.NewPassword)) == nil {
			return nil, apierror.BadRequest("Cannot reuse an old password.")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.cost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = string(hash)
	user.PasswordHistory = appendHistory(user.PasswordHistory, string(hash))
	user.ResetToken = nil
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: "Password has been successfully changed"}, nil
}

// appendHistory keeps the newest passwordHistorySize hashes, oldest first.
func appendHistory(history []string, hash string) []string {
	history = append(history, hash)
	if n := len(history); n > passwordHistorySize {
		history = history[n-passwordHistorySize:]
	}
	return history
}

func (s *authService) Me(ctx context.Context, actor Actor) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, actor.UserID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) LoginActivity(ctx context.Context, actor Actor) ([]dto.LoginActivityResponse, error) {
	logins, err := s.repo.ListLogins(ctx, actor.UserID, loginActivityLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LoginActivityResponse, len(logins))
	for i, l := range logins {
		out[i] = dto.LoginActivityResponse{
			Timestamp: l.Timestamp.UTC().Format(time.RFC3339),
			IPAddress: l.IPAddress,
			UserAgent: l.UserAgent,
		}
	}
	return out, nil
}

func (s *authService) accessToken(user *model.User, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      user.Email,
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role_id":  int(user.RoleID),
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) resetToken(user *model.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":     user.Email,
		"purpose": resetPurpose,
		"exp":     now.Add(time.Duration(s.cfg.ResetTokenMinutes) * time.Minute).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.ResetTokenSecret))
}

func (s *authService) parseResetToken(raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.ResetTokenSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if p, _ := claims["purpose"].(string); p != resetPurpose {
		return "", errors.New("not a reset token")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("reset token without subject")
	}
	return sub, nil
}

func toUserResponse(u *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Username: u.Username,
		RoleID:   int(u.RoleID),
		IsActive: u.IsActive,
	}
	if u.Role != nil {
		resp.Role = u.Role.Name
	}
	return resp
}
