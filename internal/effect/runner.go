package effect

import (
	"context"

	"go.uber.org/zap"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/logger"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/pkg/metrics"
)

// Runner はコミット後の副作用をベストエフォートでディスパッチする
// 配信失敗はログとメトリクスに記録するのみで、呼び出し元には伝播しない
type Runner struct {
	notifications NotificationSink
	emails        EmailSink
	audits        AuditSink
	metrics       *metrics.Metrics
}

// NewRunner は新しいRunnerを作成する。各シンクとメトリクスはnil可
func NewRunner(n NotificationSink, e EmailSink, a AuditSink, m *metrics.Metrics) *Runner {
	return &Runner{notifications: n, emails: e, audits: a, metrics: m}
}

// Dispatch はバッファ内の副作用を順にディスパッチする
func (r *Runner) Dispatch(ctx context.Context, buf *Buffer) {
	if r == nil || buf == nil || buf.Empty() {
		return
	}

	for _, a := range buf.Audits {
		if r.audits == nil {
			continue
		}
		if err := r.audits.Record(ctx, a); err != nil {
			// 監査の失敗は主処理を妨げないが、運用者向けにエラーとして残す
			logger.Error("監査ログの記録に失敗",
				zap.String("action", a.Action),
				zap.String("entity_type", a.EntityType),
				zap.Int64("entity_id", a.EntityID),
				zap.Error(err),
			)
			r.count("audit", "failed")
			continue
		}
		r.count("audit", "success")
	}

	for _, n := range buf.Notifications {
		if r.notifications == nil {
			continue
		}
		if err := r.notifications.Notify(ctx, n); err != nil {
			logger.Warn("通知の送信に失敗", zap.String("title", n.Title), zap.Error(err))
			r.count("notification", "failed")
			continue
		}
		r.count("notification", "success")
	}

	for _, e := range buf.Emails {
		if r.emails == nil {
			continue
		}
		if err := r.emails.Send(ctx, e); err != nil {
			logger.Warn("確認メールを送信できませんでした",
				zap.String("recipient", e.Recipient),
				zap.String("subject", e.Subject),
				zap.Error(err),
			)
			r.count("email", "failed")
			continue
		}
		r.count("email", "success")
	}
}

func (r *Runner) count(kind, status string) {
	if r.metrics != nil {
		r.metrics.EffectDispatchesTotal.WithLabelValues(kind, status).Inc()
	}
}
