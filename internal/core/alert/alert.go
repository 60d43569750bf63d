// Package alert 记录需要人工对账的支付异常：zap ERROR + 可选 Sentry 上报。
package alert

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Reporter interface {
	Reconcile(ctx context.Context, msg string, fields ...zap.Field)
}

type Alerter struct {
	log    *zap.Logger
	sentry bool
}

// New dsn 为空时只写日志
func New(l *zap.Logger, dsn, env string) (*Alerter, func(), error) {
	a := &Alerter{log: l.Named("reconcile")}
	if dsn == "" {
		return a, func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Environment: env}); err != nil {
		return nil, nil, err
	}
	a.sentry = true
	return a, func() { sentry.Flush(2 * time.Second) }, nil
}

func (a *Alerter) Reconcile(ctx context.Context, msg string, fields ...zap.Field) {
	a.log.Error(msg, append(fields, zap.Bool("reconcile", true))...)
	if !a.sentry {
		return
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("reconcile", "true")
		scope.SetLevel(sentry.LevelError)
		scope.SetContext("payment", Extras(fields))
		hub.CaptureMessage(msg)
	})
}

// Extras 把 zap 字段摊平成 map，供 Sentry 上下文使用
func Extras(fields []zap.Field) map[string]any {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	return enc.Fields
}
