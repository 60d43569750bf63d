package feedback

import (
	"time"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	"go-office-rental/internal/transport/http/ez"
)

type createIn struct {
	Subject string `json:"subject" binding:"omitempty,max=255"`
	Message string `json:"message" binding:"required,max=4096"`
}

type updateIn struct {
	Subject *string `json:"subject" binding:"omitempty,max=255"`
	Message *string `json:"message" binding:"omitempty,min=1,max=4096"`
}

type Module struct {
	svc *service.OwnedService[domain.Feedback, *domain.Feedback]
}

func New(svc *service.OwnedService[domain.Feedback, *domain.Feedback]) *Module {
	return &Module{svc: svc}
}

func (m *Module) MountAPI(e ez.EZ) {
	ez.Crud(e, ez.CrudConfig[domain.Feedback, *domain.Feedback, createIn, updateIn]{
		Path: "/feedback",
		Svc:  m.svc,
		FromCreate: func(in *createIn) *domain.Feedback {
			return &domain.Feedback{Subject: in.Subject, Message: in.Message}
		},
		FromUpdate: func(in *updateIn) (*domain.Feedback, []string) {
			p := &domain.Feedback{UpdatedAt: time.Now()}
			cols := []string{"updated_at"}
			if in.Subject != nil {
				p.Subject, cols = *in.Subject, append(cols, "subject")
			}
			if in.Message != nil {
				p.Message, cols = *in.Message, append(cols, "message")
			}
			return p, cols
		},
		AllowList: true,
		AllowGet:  true,
		AllowDel:  true,
	})
}
