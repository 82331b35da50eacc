package service

import (
	"context"
	"eduassist_backend/internal/config"
	"eduassist_backend/internal/model"
	"eduassist_backend/internal/repository"
	"eduassist_backend/internal/util"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var ErrDisplayNameRequired = errors.New("display name required")

const DisplayNameRequiredMessage = "Please enter your full name."

type AuthErrorCode string

const (
	CodeEmailInUse        AuthErrorCode = "email-already-in-use"
	CodeUserNotFound      AuthErrorCode = "user-not-found"
	CodeWrongPassword     AuthErrorCode = "wrong-password"
	CodeInvalidCredential AuthErrorCode = "invalid-credential"
	CodeWeakPassword      AuthErrorCode = "weak-password"
	CodeOther             AuthErrorCode = "other"
)

// AuthError 带分类码的认证错误，可通过重试恢复
type AuthError struct {
	Code AuthErrorCode
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth/%s: %v", e.Code, e.Err)
	}
	return "auth/" + string(e.Code)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Message 面向用户的提示
func (e *AuthError) Message() string {
	return AuthMessage(e.Code)
}

func AuthMessage(code AuthErrorCode) string {
	switch code {
	case CodeEmailInUse:
		return "This email is already registered. Please log in."
	case CodeUserNotFound, CodeWrongPassword, CodeInvalidCredential:
		return "Invalid email or password. Please try again."
	case CodeWeakPassword:
		return "Password should be at least 6 characters long."
	default:
		return "An error occurred. Please try again."
	}
}

// ClassifyAuthError 未分类的错误一律归为 other
func ClassifyAuthError(err error) *AuthError {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae
	}
	return &AuthError{Code: CodeOther, Err: err}
}

func authErr(code AuthErrorCode, err error) error {
	return &AuthError{Code: code, Err: err}
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	TouchLogin(ctx context.Context, userID uint, at time.Time) error
	Ping(ctx context.Context) error
}

// AuthEvent 身份状态变化，Identity 为 nil 表示登出
type AuthEvent struct {
	SessionID string
	UserID    uint
	Identity  *model.Identity
}

type AuthListener func(ctx context.Context, ev AuthEvent) error

// Session 登录成功后下发给客户端
type Session struct {
	Token     string          `json:"token"`
	SessionID string          `json:"sessionId"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Identity  *model.Identity `json:"identity"`
}

// AuthService 身份提供方：账号密码、第三方令牌、登出，以及身份状态订阅
type AuthService struct {
	Users UserStore
	Cfg   *config.Config

	mu        sync.RWMutex
	nextSub   int
	listeners map[int]AuthListener
	now       func() time.Time
}

func NewAuthService(users UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		Users:     users,
		Cfg:       cfg,
		listeners: make(map[int]AuthListener),
		now:       time.Now,
	}
}

// Subscribe 注册身份状态回调，返回取消函数
func (s *AuthService) Subscribe(fn AuthListener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *AuthService) publish(ctx context.Context, ev AuthEvent) error {
	s.mu.RLock()
	fns := make([]AuthListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	var errs []error
	for _, fn := range fns {
		if err := fn(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NormalizeEmail 邮箱按大小写不敏感比较
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUpWithCredentials(ctx context.Context, email, password, displayName string) (*Session, error) {
	email = NormalizeEmail(email)
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}
	if len(password) < MinPasswordLength {
		return nil, authErr(CodeWeakPassword, nil)
	}

	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, authErr(CodeEmailInUse, nil)
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, authErr(CodeOther, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, authErr(CodeOther, err)
	}

	user := &model.User{
		DisplayName: displayName,
		Email:       email,
		Password:    string(hashedPassword),
		Provider:    model.ProviderPassword,
		LastLogin:   s.now(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, authErr(CodeEmailInUse, err)
		}
		return nil, authErr(CodeOther, err)
	}

	return s.openSession(ctx, user)
}

func (s *AuthService) SignInWithCredentials(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.Users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, authErr(CodeUserNotFound, nil)
	}
	if err != nil {
		return nil, authErr(CodeOther, err)
	}

	// 仅通过第三方登录过的账号没有密码
	if user.Password == "" {
		return nil, authErr(CodeInvalidCredential, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, authErr(CodeWrongPassword, nil)
	}

	return s.openSession(ctx, user)
}

// SignInWithFederatedProvider 校验第三方 ID Token，按邮箱创建或关联账号
func (s *AuthService) SignInWithFederatedProvider(ctx context.Context, idToken string) (*Session, error) {
	if s.Cfg.Federated.Secret == "" {
		return nil, authErr(CodeOther, errors.New("federated sign-in is not configured"))
	}
	claims, err := util.ParseFederatedToken(idToken, s.Cfg.Federated.Secret, s.Cfg.Federated.Issuer)
	if err != nil {
		return nil, authErr(CodeInvalidCredential, err)
	}

	email := NormalizeEmail(claims.Email)
	user, err := s.Users.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		user = &model.User{
			DisplayName: claims.Name,
			Email:       email,
			PhotoURL:    claims.Picture,
			Provider:    model.ProviderFederated,
			Subject:     claims.Subject,
			LastLogin:   s.now(),
		}
		if err := s.Users.Create(ctx, user); err != nil {
			return nil, authErr(CodeOther, err)
		}
	case err != nil:
		return nil, authErr(CodeOther, err)
	default:
		if user.Subject != "" && user.Subject != claims.Subject {
			return nil, authErr(CodeInvalidCredential, errors.New("federated subject mismatch"))
		}
		changed := false
		if user.Subject == "" {
			user.Subject = claims.Subject
			changed = true
		}
		if user.PhotoURL == "" && claims.Picture != "" {
			user.PhotoURL = claims.Picture
			changed = true
		}
		if user.DisplayName == "" && claims.Name != "" {
			user.DisplayName = claims.Name
			changed = true
		}
		if changed {
			if err := s.Users.Update(ctx, user); err != nil {
				return nil, authErr(CodeOther, err)
			}
		}
	}

	return s.openSession(ctx, user)
}

func (s *AuthService) openSession(ctx context.Context, user *model.User) (*Session, error) {
	now := s.now()
	if err := s.Users.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, authErr(CodeOther, err)
	}

	sessionID := model.NewSessionID()
	token, err := util.GenerateJWT(user, sessionID, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, authErr(CodeOther, err)
	}

	identity := user.Identity()
	if err := s.publish(ctx, AuthEvent{SessionID: sessionID, UserID: user.ID, Identity: identity}); err != nil {
		return nil, authErr(CodeOther, err)
	}

	return &Session{
		Token:     token,
		SessionID: sessionID,
		ExpiresAt: now.Add(s.Cfg.JWT.ExpireTime),
		Identity:  identity,
	}, nil
}

func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	return s.publish(ctx, AuthEvent{SessionID: sessionID})
}

func (s *AuthService) ParseToken(token string) (*util.Claims, error) {
	return util.ParseJWT(token, s.Cfg.JWT.Secret)
}

func (s *AuthService) Identity(ctx context.Context, userID uint) (*model.Identity, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}
