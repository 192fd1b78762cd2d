package notification

import (
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

// 決済確認メールに載せる1冊分の情報
type PurchasedBook struct {
	Title       string
	FileFormat  string
	PDFPassword string
}

// メール送信の約束。実装はSMTP。
// 送信失敗で業務処理を止めたくない場面ではAsyncMailerで包む。
type Mailer interface {
	//メール認証用のワンタイムコード
	SendOTP(to string, code string) error

	//新規注文を管理者へ通知（手動決済の確認を促す）
	SendOrderPlacedAdmin(to string, order model.Order, items []model.OrderItem) error

	//決済確認済みを購入者へ通知。保護PDFのパスワードを載せる。
	SendPaymentConfirmed(to string, order model.Order, books []PurchasedBook) error
}
