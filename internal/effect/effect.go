package effect

import "context"

// Severity は通知の重要度を表す
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notification はスタッフ向け通知の副作用
type Notification struct {
	Title    string
	Message  string
	Severity Severity
}

// Email は顧客向けメール送信の副作用
type Email struct {
	Recipient string
	Subject   string
	Body      string
}

// Audit は監査ログ記録の副作用
type Audit struct {
	Action      string
	Description string
	EntityType  string
	EntityID    int64
}

// NotificationSink は通知の送信先
// 失敗しても呼び出し元に伝播しない（fire-and-forget）
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}

// EmailSink はメールの送信先
// ベストエフォートで、失敗はログに残すのみ
type EmailSink interface {
	Send(ctx context.Context, e Email) error
}

// AuditSink は監査ログの記録先
// 失敗しても主処理は妨げないが、運用者が気づけるようエラーとして記録する
type AuditSink interface {
	Record(ctx context.Context, a Audit) error
}

// Buffer はライフサイクル操作中に発生した副作用を蓄積する
// トランザクションのコミット後にRunnerがまとめてディスパッチすることで、
// 配信の信頼性と中核処理の正しさを分離する
type Buffer struct {
	Notifications []Notification
	Emails        []Email
	Audits        []Audit
}

// Notify は通知副作用を追加する
func (b *Buffer) Notify(title, message string, severity Severity) {
	b.Notifications = append(b.Notifications, Notification{Title: title, Message: message, Severity: severity})
}

// SendEmail はメール副作用を追加する
func (b *Buffer) SendEmail(recipient, subject, body string) {
	if recipient == "" {
		return
	}
	b.Emails = append(b.Emails, Email{Recipient: recipient, Subject: subject, Body: body})
}

// RecordAudit は監査副作用を追加する
func (b *Buffer) RecordAudit(action, description, entityType string, entityID int64) {
	b.Audits = append(b.Audits, Audit{Action: action, Description: description, EntityType: entityType, EntityID: entityID})
}

// Empty は副作用が1つもないことを返す
func (b *Buffer) Empty() bool {
	return len(b.Notifications) == 0 && len(b.Emails) == 0 && len(b.Audits) == 0
}
