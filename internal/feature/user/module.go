package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	"go-office-rental/internal/transport/http/ez"
)

// 邮箱、角色、计费客户不可由客户端修改
type updateIn struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=64"`
	PhoneNumber *string `json:"phoneNumber" binding:"omitempty,max=32"`
	ProfilePic  *string `json:"profilePic"  binding:"omitempty,url,max=512"`
	Password    *string `json:"password"    binding:"omitempty,min=6,max=72"`
}

type Module struct{ svc *service.UserService }

func New(svc *service.UserService) *Module { return &Module{svc: svc} }

func (m *Module) Priority() int { return 20 }

func (m *Module) MountAPI(e ez.EZ) {
	g := e.Group("/users")

	ez.RegisterAction(g, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return m.svc.Me(c.Request.Context(), caller.ID)
		},
	})

	ez.RegisterAction(g, ez.Action[updateIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (*domain.User, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return m.svc.UpdateMe(c.Request.Context(), caller.ID, service.UserPatch{
				Name:        in.Name,
				PhoneNumber: in.PhoneNumber,
				ProfilePic:  in.ProfilePic,
				Password:    in.Password,
			})
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			if err := m.svc.DeleteMe(c.Request.Context(), caller.ID); err != nil {
				return nil, err
			}
			return gin.H{"id": caller.ID}, nil
		},
	})
}
