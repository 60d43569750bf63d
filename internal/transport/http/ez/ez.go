// Package ez 声明式路由动作：一处写清方法、路径、绑定方式、访问要求与处理函数。
package ez

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-office-rental/internal/domain"
	mdw "go-office-rental/internal/transport/http/middleware"
	resp "go-office-rental/internal/transport/http/response"
)

type EZ struct {
	g     *gin.RouterGroup
	guard func(roles ...string) gin.HandlerFunc
}

// New guard 为 nil 时该分组只能注册公开动作
func New(g *gin.RouterGroup, guard func(roles ...string) gin.HandlerFunc) EZ {
	return EZ{g: g, guard: guard}
}

// Group 子路径，沿用同一个 guard
func (e EZ) Group(path string) EZ { return EZ{g: e.g.Group(path), guard: e.guard} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/auth/login"、"/offices/:id"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录
	Roles   []string // 限定角色（可选，隐含 Auth）
	Handler func(c *gin.Context, in *I) (O, error)
}

// Reply 统一输出：err 按领域错误映射业务码，500 的细节只进日志
func Reply(c *gin.Context, data any, err error) {
	if err != nil {
		code, _ := resp.CodeOf(err)
		if code == resp.CodeServerError {
			_ = c.Error(err)
		}
		c.JSON(http.StatusOK, resp.Fail(err))
		return
	}
	c.JSON(http.StatusOK, resp.OK(data))
}

// Caller Guard 之后一定非空；公开路由上返回 ErrUnauthenticated
func Caller(c *gin.Context) (*domain.Caller, error) {
	if caller := mdw.CallerFrom(c); caller != nil {
		return caller, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (e EZ) handlers(auth bool, roles []string, h gin.HandlerFunc) []gin.HandlerFunc {
	if !auth && len(roles) == 0 {
		return []gin.HandlerFunc{h}
	}
	if e.guard == nil {
		panic("ez: authenticated route registered on a group without guard")
	}
	return []gin.HandlerFunc{e.guard(roles...), h}
}

func (e EZ) handle(method, path string, hs []gin.HandlerFunc) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		e.g.GET(path, hs...)
	case http.MethodPut:
		e.g.PUT(path, hs...)
	case http.MethodPatch:
		e.g.PATCH(path, hs...)
	case http.MethodDelete:
		e.g.DELETE(path, hs...)
	default: // 默认 POST
		e.g.POST(path, hs...)
	}
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.BindError(bindErr))
			return
		}
		out, err := a.Handler(c, &in)
		Reply(c, out, err)
	}
	e.handle(a.Method, a.Path, e.handlers(a.Auth, a.Roles, h))
}

// Files multipart/form-data 多文件上传
type Files struct {
	Field   string
	Path    string
	Auth    bool
	Roles   []string
	MaxN    int
	Handler func(c *gin.Context, files []*multipart.FileHeader) (any, error)
}

func POSTFILES(e EZ, f Files) {
	h := func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeValidation, "invalid multipart form: "+err.Error()))
			return
		}
		files := form.File[f.Field]
		if len(files) == 0 {
			c.JSON(http.StatusOK, resp.Error(resp.CodeValidation, "no files uploaded"))
			return
		}
		if f.MaxN > 0 && len(files) > f.MaxN {
			c.JSON(http.StatusOK, resp.Error(resp.CodeValidation, "too many files"))
			return
		}
		data, err := f.Handler(c, files)
		Reply(c, data, err)
	}
	e.handle(http.MethodPost, f.Path, e.handlers(f.Auth, f.Roles, h))
}
