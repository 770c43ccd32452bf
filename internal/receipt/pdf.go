package receipt

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// レイアウト定数（mm、A4縦）
const (
	marginLeft  = 14.0
	marginRight = 14.0
	topMargin   = 20.0
	bottomLimit = 269.0 // これを超えたら改ページ
	rowStep     = 6.5
	weightColX  = 110.0
	priceColX   = 155.0
	footerNoteY = 283.0
	dateColX    = 110.0
)

type Item struct {
	ProductName string
	WeightGrams int64
	Price       decimal.Decimal
}

// 領収書1枚分の入力。注文確定後の値をそのまま渡す。
type Data struct {
	OrderID       int64
	CreatedAt     time.Time
	CustomerName  string
	CustomerEmail string
	PaymentMethod string
	Paid          bool
	Items         []Item
	Total         decimal.Decimal
	QRCodePath    string
}

type Renderer struct {
	StoreName      string
	CurrencySymbol string
}

func NewRenderer(storeName string, currencySymbol string) *Renderer {
	return &Renderer{StoreName: storeName, CurrencySymbol: currencySymbol}
}

// Render はPDFのバイト列を返す。
func (r *Renderer) Render(d Data) ([]byte, error) {
	pdf := r.build(d)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) build(d Data) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()

	// ヘッダ
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(marginLeft, topMargin, fmt.Sprintf("%s - Receipt", r.StoreName))
	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(marginLeft, topMargin+7, fmt.Sprintf("Order ID: %d", d.OrderID))
	pdf.Text(dateColX, topMargin+7, fmt.Sprintf("Date: %s", d.CreatedAt.Format("2006-01-02 15:04")))

	// 顧客情報
	pdf.Text(marginLeft, topMargin+17, fmt.Sprintf("Customer: %s", d.CustomerName))
	pdf.Text(marginLeft, topMargin+22, fmt.Sprintf("Email: %s", emailOrNA(d.CustomerEmail)))
	pdf.Text(marginLeft, topMargin+29, fmt.Sprintf("Payment Method: %s    Paid: %s", d.PaymentMethod, yesNo(d.Paid)))

	// 明細テーブルのヘッダ
	headerY := topMargin + 38
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Text(marginLeft, headerY, "Product")
	pdf.Text(weightColX, headerY, "Weight (g)")
	pdf.Text(priceColX, headerY, fmt.Sprintf("Price (%s)", strings.TrimSpace(r.CurrencySymbol)))
	pdf.Line(marginLeft, headerY+2, pageW-marginRight, headerY+2)

	// 明細行。カーソルが下限を越えたら改ページして上端から続ける。
	pdf.SetFont("Helvetica", "", 10)
	y := headerY + 7
	for _, item := range d.Items {
		if y > bottomLimit {
			pdf.AddPage()
			y = topMargin
		}
		pdf.Text(marginLeft, y, item.ProductName)
		pdf.Text(weightColX, y, fmt.Sprintf("%d", item.WeightGrams))
		pdf.Text(priceColX, y, item.Price.StringFixed(2))
		y += rowStep
	}

	// 合計は最後の明細の直後（ページはまたがせない）
	if y > bottomLimit {
		pdf.AddPage()
		y = topMargin
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(weightColX, y+3, "Total:")
	pdf.Text(priceColX, y+3, d.Total.StringFixed(2))

	// QRがある注文だけ保存先の注記を出す
	if d.QRCodePath != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.Text(marginLeft, footerNoteY, fmt.Sprintf("QR stored at: %s", d.QRCodePath))
	}

	return pdf
}

func emailOrNA(email string) string {
	if email == "" {
		return "N/A"
	}
	return email
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
