// Package credentials 用户保存的支付卡信息。
package credentials

import (
	"time"

	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	"go-office-rental/internal/transport/http/ez"
)

type createIn struct {
	CardNumber     string `json:"cardNumber"     binding:"required,credit_card"`
	CardholderName string `json:"cardholderName" binding:"required,max=128"`
	ExpiryDate     string `json:"expiryDate"     binding:"required,max=32"`
	SecurityCode   string `json:"securityCode"   binding:"required,numeric,min=3,max=4"`
}

type updateIn struct {
	CardNumber     *string `json:"cardNumber"     binding:"omitempty,credit_card"`
	CardholderName *string `json:"cardholderName" binding:"omitempty,min=1,max=128"`
	ExpiryDate     *string `json:"expiryDate"     binding:"omitempty,min=1,max=32"`
	SecurityCode   *string `json:"securityCode"   binding:"omitempty,numeric,min=3,max=4"`
}

// view 卡号只给末四位，安全码从不返回
type view struct {
	ID             string    `json:"id"`
	User           string    `json:"user"`
	CardNumber     string    `json:"cardNumber"`
	CardholderName string    `json:"cardholderName"`
	ExpiryDate     string    `json:"expiryDate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toView(c *domain.Credentials) any {
	return view{
		ID:             c.ID,
		User:           c.UserID,
		CardNumber:     c.MaskedNumber(),
		CardholderName: c.CardholderName,
		ExpiryDate:     c.ExpiryDate,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func fromCreate(in *createIn) *domain.Credentials {
	return &domain.Credentials{
		CardNumber:     in.CardNumber,
		CardholderName: in.CardholderName,
		ExpiryDate:     in.ExpiryDate,
		SecurityCode:   in.SecurityCode,
	}
}

func fromUpdate(in *updateIn) (*domain.Credentials, []string) {
	p := &domain.Credentials{UpdatedAt: time.Now()}
	cols := []string{"updated_at"}
	if in.CardNumber != nil {
		p.CardNumber, cols = *in.CardNumber, append(cols, "card_number")
	}
	if in.CardholderName != nil {
		p.CardholderName, cols = *in.CardholderName, append(cols, "cardholder_name")
	}
	if in.ExpiryDate != nil {
		p.ExpiryDate, cols = *in.ExpiryDate, append(cols, "expiry_date")
	}
	if in.SecurityCode != nil {
		p.SecurityCode, cols = *in.SecurityCode, append(cols, "security_code")
	}
	return p, cols
}

type Module struct {
	svc *service.OwnedService[domain.Credentials, *domain.Credentials]
}

func New(svc *service.OwnedService[domain.Credentials, *domain.Credentials]) *Module {
	return &Module{svc: svc}
}

func (m *Module) MountAPI(e ez.EZ) {
	ez.Crud(e, ez.CrudConfig[domain.Credentials, *domain.Credentials, createIn, updateIn]{
		Path:       "/credentials",
		Svc:        m.svc,
		FromCreate: fromCreate,
		FromUpdate: fromUpdate,
		AllowList:  true,
		AllowGet:   true,
		AllowDel:   true,
		View:       toView,
	})
}
