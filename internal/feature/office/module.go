package office

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	"go-office-rental/internal/transport/http/ez"
	resp "go-office-rental/internal/transport/http/response"
)

// 单次上传上限
const maxImages = 10

type Module struct{ svc *service.OfficeService }

func New(svc *service.OfficeService) *Module { return &Module{svc: svc} }

func (m *Module) Priority() int { return 30 }

func (m *Module) MountAPI(e ez.EZ) {
	g := e.Group("/offices")
	owner := []string{domain.RoleOwner}

	ez.RegisterAction(g, ez.Action[createIn, *domain.Office]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Roles:  owner,
		Handler: func(c *gin.Context, in *createIn) (*domain.Office, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return m.svc.Create(c.Request.Context(), caller.ID, in.toOffice())
		},
	})

	// 公开浏览
	ez.RegisterAction(g, ez.Action[browseQuery, resp.Page]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *browseQuery) (resp.Page, error) {
			p := in.ToPage()
			items, total, err := m.svc.Browse(c.Request.Context(), in.Status, p)
			if err != nil {
				return resp.Page{}, err
			}
			return ez.PageOut(items, total, p, nil), nil
		},
	})

	ez.RegisterAction(g, ez.Action[ez.PageQuery, resp.Page]{
		Method: http.MethodGet,
		Path:   "/mine",
		Binder: ez.BindQuery,
		Roles:  owner,
		Handler: func(c *gin.Context, in *ez.PageQuery) (resp.Page, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return resp.Page{}, err
			}
			p := in.ToPage()
			items, total, err := m.svc.ListMine(c.Request.Context(), caller.ID, p)
			if err != nil {
				return resp.Page{}, err
			}
			return ez.PageOut(items, total, p, nil), nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, *domain.Office]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Office, error) {
			return m.svc.Get(c.Request.Context(), c.Param("id"))
		},
	})

	ez.RegisterAction(g, ez.Action[updateIn, *domain.Office]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Roles:  owner,
		Handler: func(c *gin.Context, in *updateIn) (*domain.Office, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			patch, cols := in.toPatch()
			return m.svc.Update(c.Request.Context(), caller.ID, c.Param("id"), patch, cols...)
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Roles:  owner,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			if err := m.svc.Delete(c.Request.Context(), caller.ID, c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})

	ez.POSTFILES(g, ez.Files{
		Field: "files",
		Path:  "/images",
		Roles: owner,
		MaxN:  maxImages,
		Handler: func(c *gin.Context, files []*multipart.FileHeader) (any, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			urls, err := m.svc.UploadImages(c.Request.Context(), caller.ID, uploads(files))
			if err != nil {
				return nil, err
			}
			return gin.H{"urls": urls}, nil
		},
	})
}

func uploads(files []*multipart.FileHeader) []service.Upload {
	out := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		out = append(out, service.Upload{
			Filename:    fh.Filename,
			Size:        fh.Size,
			ContentType: fh.Header.Get("Content-Type"),
			Open: func() (io.ReadCloser, error) {
				f, err := fh.Open()
				if err != nil {
					return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
				}
				return f, nil
			},
		})
	}
	return out
}
