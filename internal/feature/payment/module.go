package payment

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-office-rental/internal/core/billing"
	"go-office-rental/internal/domain"
	"go-office-rental/internal/service"
	"go-office-rental/internal/transport/http/ez"
	resp "go-office-rental/internal/transport/http/response"
)

type chargeIn struct {
	Office string `json:"office" binding:"required"`
}

type chargeOut struct {
	ClientSecret string `json:"clientSecret"`
}

type methodIn struct {
	CardNumber string `json:"cardNumber" binding:"required,credit_card"`
	ExpMonth   int64  `json:"expMonth"   binding:"required,min=1,max=12"`
	ExpYear    int64  `json:"expYear"    binding:"required,min=2000,max=2100"`
	CVC        string `json:"cvc"        binding:"required,numeric,min=3,max=4"`
}

type confirmIn struct {
	ClientSecret    string `json:"clientSecret"    binding:"required"`
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
}

type Module struct{ svc *service.PaymentService }

func New(svc *service.PaymentService) *Module { return &Module{svc: svc} }

func (m *Module) Priority() int { return 40 }

func (m *Module) MountAPI(e ez.EZ) {
	g := e.Group("/payments")
	renter := []string{domain.RoleRenter}

	ez.RegisterAction(g, ez.Action[chargeIn, chargeOut]{
		Method: http.MethodPost,
		Path:   "/charge",
		Binder: ez.BindJSON,
		Roles:  renter,
		Handler: func(c *gin.Context, in *chargeIn) (chargeOut, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return chargeOut{}, err
			}
			ch, err := m.svc.InitiateRentalPayment(c.Request.Context(), caller, in.Office)
			if err != nil {
				return chargeOut{}, err
			}
			return chargeOut{ClientSecret: ch.ClientSecret}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[methodIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/create",
		Binder: ez.BindJSON,
		Roles:  renter,
		Handler: func(c *gin.Context, in *methodIn) (gin.H, error) {
			id, err := m.svc.CreatePaymentMethod(c.Request.Context(), billing.Card{
				Number:   in.CardNumber,
				ExpMonth: in.ExpMonth,
				ExpYear:  in.ExpYear,
				CVC:      in.CVC,
			})
			if err != nil {
				return nil, err
			}
			return gin.H{"paymentMethod": id}, nil
		},
	})

	// 处理方返回的意向原样透传
	ez.RegisterAction(g, ez.Action[confirmIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/confirm",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *confirmIn) (gin.H, error) {
			intent, err := m.svc.ConfirmPayment(c.Request.Context(), in.ClientSecret, in.PaymentMethodID)
			if err != nil {
				return nil, err
			}
			if len(intent.Raw) > 0 {
				return gin.H{"paymentIntent": json.RawMessage(intent.Raw)}, nil
			}
			return gin.H{"paymentIntent": intent}, nil
		},
	})

	ez.RegisterAction(g, ez.Action[ez.PageQuery, resp.Page]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, in *ez.PageQuery) (resp.Page, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return resp.Page{}, err
			}
			p := in.ToPage()
			items, total, err := m.svc.List(c.Request.Context(), caller.ID, p)
			if err != nil {
				return resp.Page{}, err
			}
			return ez.PageOut(items, total, p, nil), nil
		},
	})

	ez.RegisterAction(g, ez.Action[struct{}, *domain.Payment]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Payment, error) {
			caller, err := ez.Caller(c)
			if err != nil {
				return nil, err
			}
			return m.svc.Get(c.Request.Context(), caller.ID, c.Param("id"))
		},
	})
}
