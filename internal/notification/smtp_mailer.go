package notification

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

// net/smtpで送るMailer実装
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

// DI
func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth: auth,
		from: cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendOTP(to string, code string) error {
	body := fmt.Sprintf("Your verification code is %s.\r\nIt expires in 10 minutes.\r\n", code)
	return m.send(to, "Verify your email", body)
}

func (m *SMTPMailer) SendOrderPlacedAdmin(to string, order model.Order, items []model.OrderItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "New order %s (total %s %s).\r\n\r\n", order.OrderNumber, order.TotalAmount.StringFixed(2), order.Currency)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s x%d @ %s\r\n", it.TitleSnapshot, it.Quantity, it.UnitPrice.StringFixed(2))
	}
	b.WriteString("\r\nPlease verify the manual payment in the admin panel.\r\n")

	return m.send(to, fmt.Sprintf("New order %s", order.OrderNumber), b.String())
}

func (m *SMTPMailer) SendPaymentConfirmed(to string, order model.Order, books []PurchasedBook) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Your payment for order %s has been confirmed.\r\n", order.OrderNumber)
	b.WriteString("Your books are now available in your library.\r\n\r\n")
	for _, bk := range books {
		fmt.Fprintf(&b, "- %s (%s)", bk.Title, bk.FileFormat)
		if bk.PDFPassword != "" {
			fmt.Fprintf(&b, " / PDF password: %s", bk.PDFPassword)
		}
		b.WriteString("\r\n")
	}

	return m.send(to, fmt.Sprintf("Order %s confirmed", order.OrderNumber), b.String())
}

func (m *SMTPMailer) send(to string, subject string, body string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, body,
	)
	return smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg))
}
