package notification

import (
	"log"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

// 送信失敗してもリクエストを失敗させないラッパー。
// goroutineで送ってエラーはログに残すだけ。
type AsyncMailer struct {
	inner Mailer
}

func NewAsyncMailer(inner Mailer) *AsyncMailer {
	return &AsyncMailer{inner: inner}
}

func (m *AsyncMailer) SendOTP(to string, code string) error {
	go func() {
		if err := m.inner.SendOTP(to, code); err != nil {
			log.Printf("mail: send otp to %s failed: %v", to, err)
		}
	}()
	return nil
}

func (m *AsyncMailer) SendOrderPlacedAdmin(to string, order model.Order, items []model.OrderItem) error {
	go func() {
		if err := m.inner.SendOrderPlacedAdmin(to, order, items); err != nil {
			log.Printf("mail: order placed notice for %s failed: %v", order.OrderNumber, err)
		}
	}()
	return nil
}

func (m *AsyncMailer) SendPaymentConfirmed(to string, order model.Order, books []PurchasedBook) error {
	go func() {
		if err := m.inner.SendPaymentConfirmed(to, order, books); err != nil {
			log.Printf("mail: payment confirmation for %s failed: %v", order.OrderNumber, err)
		}
	}()
	return nil
}
