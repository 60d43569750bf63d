package ez

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	resp "go-office-rental/internal/transport/http/response"
)

// OwnedCRUD 归属资源服务需要提供的能力（service.OwnedService 即满足）
type OwnedCRUD[T any, P domain.Owned[T]] interface {
	Create(ctx context.Context, callerID string, m P) (P, error)
	List(ctx context.Context, callerID string, p service.Page) ([]T, int64, error)
	Get(ctx context.Context, callerID, id string) (P, error)
	Update(ctx context.Context, callerID, id string, patch P, cols ...string) (P, error)
	Delete(ctx context.Context, callerID, id string) error
}

// CrudConfig C 为创建入参，U 为更新入参；对应转换函数为 nil 则不注册该操作
type CrudConfig[T any, P domain.Owned[T], C any, U any] struct {
	Path  string
	Roles []string // 为空 = 任意已登录用户
	Svc   OwnedCRUD[T, P]

	FromCreate func(in *C) P
	FromUpdate func(in *U) (P, []string) // patch + 要写的列
	AllowList  bool
	AllowGet   bool
	AllowDel   bool

	View func(m P) any // 输出裁剪（脱敏等），默认原样
}

type PageQuery struct {
	Page int `form:"page" binding:"omitempty,min=1"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

func (q PageQuery) ToPage() service.Page { return service.Page{Page: q.Page, Size: q.Size}.Normalize() }

// PageOut 列表输出
func PageOut[T any](items []T, total int64, p service.Page, view func(*T) any) resp.Page {
	out := make([]any, 0, len(items))
	for i := range items {
		if view != nil {
			out = append(out, view(&items[i]))
		} else {
			out = append(out, items[i])
		}
	}
	return resp.Page{List: out, Total: total, Page: p.Page, Size: p.Size}
}

// Crud 按配置挂载 POST/GET/GET:id/PUT:id/DELETE:id，全部要求登录
func Crud[T any, P domain.Owned[T], C any, U any](e EZ, cfg CrudConfig[T, P, C, U]) {
	view := func(m P) any {
		if cfg.View != nil {
			return cfg.View(m)
		}
		return m
	}
	uid := func(c *gin.Context) (string, error) {
		caller, err := Caller(c)
		if err != nil {
			return "", err
		}
		return caller.ID, nil
	}

	if cfg.FromCreate != nil {
		RegisterAction(e, Action[C, any]{
			Method: http.MethodPost, Path: cfg.Path, Binder: BindJSON, Auth: true, Roles: cfg.Roles,
			Handler: func(c *gin.Context, in *C) (any, error) {
				id, err := uid(c)
				if err != nil {
					return nil, err
				}
				m, err := cfg.Svc.Create(c.Request.Context(), id, cfg.FromCreate(in))
				if err != nil {
					return nil, err
				}
				return view(m), nil
			},
		})
	}

	if cfg.AllowList {
		RegisterAction(e, Action[PageQuery, resp.Page]{
			Method: http.MethodGet, Path: cfg.Path, Binder: BindQuery, Auth: true, Roles: cfg.Roles,
			Handler: func(c *gin.Context, in *PageQuery) (resp.Page, error) {
				id, err := uid(c)
				if err != nil {
					return resp.Page{}, err
				}
				p := in.ToPage()
				items, total, err := cfg.Svc.List(c.Request.Context(), id, p)
				if err != nil {
					return resp.Page{}, err
				}
				return PageOut(items, total, p, func(m *T) any { return view(P(m)) }), nil
			},
		})
	}

	if cfg.AllowGet {
		RegisterAction(e, Action[struct{}, any]{
			Method: http.MethodGet, Path: cfg.Path + "/:id", Binder: BindNone, Auth: true, Roles: cfg.Roles,
			Handler: func(c *gin.Context, _ *struct{}) (any, error) {
				id, err := uid(c)
				if err != nil {
					return nil, err
				}
				m, err := cfg.Svc.Get(c.Request.Context(), id, c.Param("id"))
				if err != nil {
					return nil, err
				}
				return view(m), nil
			},
		})
	}

	if cfg.FromUpdate != nil {
		RegisterAction(e, Action[U, any]{
			Method: http.MethodPut, Path: cfg.Path + "/:id", Binder: BindJSON, Auth: true, Roles: cfg.Roles,
			Handler: func(c *gin.Context, in *U) (any, error) {
				id, err := uid(c)
				if err != nil {
					return nil, err
				}
				patch, cols := cfg.FromUpdate(in)
				m, err := cfg.Svc.Update(c.Request.Context(), id, c.Param("id"), patch, cols...)
				if err != nil {
					return nil, err
				}
				return view(m), nil
			},
		})
	}

	if cfg.AllowDel {
		RegisterAction(e, Action[struct{}, gin.H]{
			Method: http.MethodDelete, Path: cfg.Path + "/:id", Binder: BindNone, Auth: true, Roles: cfg.Roles,
			Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
				id, err := uid(c)
				if err != nil {
					return nil, err
				}
				if err := cfg.Svc.Delete(c.Request.Context(), id, c.Param("id")); err != nil {
					return nil, err
				}
				return gin.H{"id": c.Param("id")}, nil
			},
		})
	}
}
