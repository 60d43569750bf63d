// Package notification 系统通知：只由支付编排生成，接收人可查看、标记已读、删除。
package notification

import (
	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	"go-office-rental/internal/transport/http/ez"
)

type updateIn struct {
	Status string `json:"status" binding:"required,oneof=delivered read"`
}

type Module struct {
	svc *service.OwnedService[domain.Notification, *domain.Notification]
}

func New(svc *service.OwnedService[domain.Notification, *domain.Notification]) *Module {
	return &Module{svc: svc}
}

func (m *Module) MountAPI(e ez.EZ) {
	ez.Crud(e, ez.CrudConfig[domain.Notification, *domain.Notification, struct{}, updateIn]{
		Path: "/notifications",
		Svc:  m.svc,
		FromUpdate: func(in *updateIn) (*domain.Notification, []string) {
			return &domain.Notification{Status: in.Status}, []string{"status"}
		},
		AllowList: true,
		AllowGet:  true,
		AllowDel:  true,
	})
}
