package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"time"

	"go.uber.org/zap"

	"go-office-rental/internal/core/cache"
	"go-office-rental/internal/core/storage"
	"go-office-rental/internal/domain"
	"go-office-rental/internal/repo"
	"go-office-rental/pkg/utils"
)

// 只能由支付编排修改的列
var officeManagedCols = []string{"rental_status", "renter_id", "owner_id"}

type OfficeService struct {
	store    *repo.Store
	owned    *OwnedService[domain.Office, *domain.Office]
	cache    *cache.Cache // nil = 不缓存
	ttl      time.Duration
	uploader storage.Uploader // nil = 未配置对象存储
	log      *zap.Logger
}

type OfficeOption func(*OfficeService)

func WithCache(c *cache.Cache, ttl time.Duration) OfficeOption {
	return func(s *OfficeService) { s.cache, s.ttl = c, ttl }
}

func WithUploader(u storage.Uploader) OfficeOption {
	return func(s *OfficeService) { s.uploader = u }
}

func NewOfficeService(store *repo.Store, l *zap.Logger, opts ...OfficeOption) *OfficeService {
	s := &OfficeService{
		store: store,
		owned: NewOwnedService(store.Offices.OwnedRepo, "office"),
		ttl:   time.Minute,
		log:   l,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func officeKey(id string) string { return "office:" + id }

// Create 新建办公室总是 available、无租户，owner 取调用者
func (s *OfficeService) Create(ctx context.Context, callerID string, o *domain.Office) (*domain.Office, error) {
	o.RentalStatus = domain.StatusAvailable
	o.RenterID = nil
	return s.owned.Create(ctx, callerID, o)
}

// Browse 公开浏览，status 为空则不过滤
func (s *OfficeService) Browse(ctx context.Context, status string, p Page) ([]domain.Office, int64, error) {
	p = p.Normalize()
	conds := map[string]any{}
	if status != "" {
		conds["rental_status"] = status
	}
	return s.store.Offices.List(ctx, conds, p.Offset(), p.Size)
}

func (s *OfficeService) ListMine(ctx context.Context, callerID string, p Page) ([]domain.Office, int64, error) {
	return s.owned.List(ctx, callerID, p)
}

func (s *OfficeService) Get(ctx context.Context, id string) (*domain.Office, error) {
	if err := CheckID("office", id); err != nil {
		return nil, err
	}
	return cache.GetOrLoadJSON(s.cache, ctx, officeKey(id), s.ttl, func(ctx context.Context) (*domain.Office, error) {
		return s.owned.Find(ctx, id)
	})
}

func (s *OfficeService) Update(ctx context.Context, callerID, id string, patch *domain.Office, cols ...string) (*domain.Office, error) {
	cols = slices.DeleteFunc(slices.Clone(cols), func(c string) bool {
		return slices.Contains(officeManagedCols, c)
	})
	patch.UpdatedAt = time.Now()
	cols = append(cols, "updated_at")
	o, err := s.owned.Update(ctx, callerID, id, patch, cols...)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, id)
	return o, nil
}

func (s *OfficeService) Delete(ctx context.Context, callerID, id string) error {
	if err := s.owned.Delete(ctx, callerID, id); err != nil {
		return err
	}
	s.Invalidate(ctx, id)
	return nil
}

func (s *OfficeService) Invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, officeKey(id)); err != nil {
		s.log.Warn("office cache invalidate failed", zap.String("office_id", id), zap.Error(err))
	}
}

type Upload struct {
	Filename    string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// UploadImages 上传到对象存储，返回可直接写入 office.image 的 URL 列表
func (s *OfficeService) UploadImages(ctx context.Context, callerID string, files []Upload) ([]string, error) {
	if s.uploader == nil {
		return nil, storage.ErrDisabled
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if !slices.Contains(imageTypes, f.ContentType) {
			return nil, fmt.Errorf("%w: %s is not an image", domain.ErrValidation, f.Filename)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		key := path.Join("offices", callerID, utils.NewID()+path.Ext(f.Filename))
		url, err := s.uploader.Put(ctx, key, rc, f.Size, f.ContentType)
		_ = rc.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
