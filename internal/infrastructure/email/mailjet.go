package email

import (
	"context"
	"fmt"

	mailjet "github.com/mailjet/mailjet-apiv3-go"

	"github.com/JeanPieerT/Hotel-Herramientas/internal/config"
	"github.com/JeanPieerT/Hotel-Herramientas/internal/effect"
)

// MailjetSender はMailjet API経由で顧客向けメールを送信する
type MailjetSender struct {
	client     *mailjet.Client
	senderMail string
	senderName string
}

// NewMailjetSender は新しいMailjetSenderを作成する
// APIキー未設定の場合は呼び出し側でnilシンクとして扱う
func NewMailjetSender(cfg *config.MailConfig) *MailjetSender {
	return &MailjetSender{
		client:     mailjet.NewMailjetClient(cfg.APIKeyPublic, cfg.APIKeyPrivate),
		senderMail: cfg.SenderEmail,
		senderName: cfg.SenderName,
	}
}

// Send はメールを送信する
func (s *MailjetSender) Send(ctx context.Context, e effect.Email) error {
	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{
			{
				From: &mailjet.RecipientV31{
					Email: s.senderMail,
					Name:  s.senderName,
				},
				To: &mailjet.RecipientsV31{
					{Email: e.Recipient},
				},
				Subject:  e.Subject,
				TextPart: e.Body,
			},
		},
	}
	if _, err := s.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("メール送信に失敗: %w", err)
	}
	return nil
}

var _ effect.EmailSink = (*MailjetSender)(nil)
