// Package auth 注册与登录。
package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	"go-office-rental/internal/transport/http/ez"
)

type signupIn struct {
	Name        string `json:"name"        binding:"required,max=64"`
	Email       string `json:"email"       binding:"required,email,max=191"`
	Password    string `json:"password"    binding:"required,min=6,max=72"`
	PhoneNumber string `json:"phoneNumber" binding:"required,max=32"`
	ProfilePic  string `json:"profilePic"  binding:"omitempty,url,max=512"`
	Role        string `json:"role"        binding:"required,oneof=owner renter"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenOut struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type Module struct{ svc *service.AuthService }

func New(svc *service.AuthService) *Module { return &Module{svc: svc} }

func (m *Module) Priority() int { return 10 }

func (m *Module) MountAPI(e ez.EZ) {
	g := e.Group("/auth")

	ez.RegisterAction(g, ez.Action[signupIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/signup",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *signupIn) (tokenOut, error) {
			tok, u, err := m.svc.Signup(c.Request.Context(), service.SignupInput{
				Name:        in.Name,
				Email:       in.Email,
				Password:    in.Password,
				PhoneNumber: in.PhoneNumber,
				ProfilePic:  in.ProfilePic,
				Role:        in.Role,
			})
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok, User: u}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (tokenOut, error) {
			tok, u, err := m.svc.Login(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return tokenOut{Token: tok, User: u}, nil
		},
	})
}
