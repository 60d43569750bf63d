package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
	"go-office-rental/pkg/utils"
)

type TokenIssuer interface {
	Issue(uid string) (string, error)
}

// CustomerRegistrar 注册时在支付处理方创建客户
type CustomerRegistrar interface {
	RegisterBillingCustomer(ctx context.Context, name, email string) (string, error)
}

type AuthService struct {
	store   *repo.Store
	tokens  TokenIssuer
	billing CustomerRegistrar
	log     *zap.Logger
}

func NewAuthService(store *repo.Store, tokens TokenIssuer, billing CustomerRegistrar, l *zap.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, billing: billing, log: l}
}

type SignupInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	ProfilePic  string
	Role        string
}

var errBadLogin = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Signup 计费客户创建成功后才落库；任何一步失败都不会留下用户记录
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (string, *domain.User, error) {
	email := normalizeEmail(in.Email)
	if !domain.ValidRole(in.Role) {
		return "", nil, fmt.Errorf("%w: role must be owner or renter", domain.ErrValidation)
	}
	switch _, err := s.store.Users.FindByEmail(ctx, email); {
	case err == nil:
		return "", nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrNotFound):
		return "", nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}
	name := strings.TrimSpace(in.Name)
	customerID, err := s.billing.RegisterBillingCustomer(ctx, name, email)
	if err != nil {
		return "", nil, err
	}

	u := &domain.User{
		ID:                utils.NewID(),
		Email:             email,
		Name:              name,
		PasswordHash:      hash,
		PhoneNumber:       in.PhoneNumber,
		ProfilePic:        in.ProfilePic,
		Role:              in.Role,
		BillingCustomerID: customerID,
	}
	if err := s.store.Users.Create(ctx, u); err != nil {
		// 并发注册同一邮箱：远端客户已创建，留给对账
		s.log.Warn("user not persisted after billing customer creation",
			zap.String("customer_id", customerID), zap.String("email", email), zap.Error(err))
		return "", nil, err
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	u, err := s.store.Users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, errBadLogin
	}
	if err != nil {
		return "", nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, errBadLogin
	}
	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, u, nil
}
