package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"restobill/internal/domain/billing"
	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/shopspring/decimal"
)

// BillUsecase は会計伝票（テキスト）を作る。読むだけで何も変えない。
type BillUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewBillUsecase(tx repo.TransactionManager, clock Clock) *BillUsecase {
	return &BillUsecase{tx: tx, clock: clock}
}

const receiptWidth = 40

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"center": center,
	"row":    row,
	"rule":   func() string { return strings.Repeat("-", receiptWidth) },
}).Parse(`{{center .Store.Name}}
{{center .Store.Address}}
{{center (printf "Tel: %s" .Store.Phone)}}
{{rule}}
{{row (printf "Date: %s" .Date) (printf "Time: %s" .Time)}}
{{row (printf "Bill #: %s" .BillNo) (printf "Table: %s" .Table)}}
{{- if .Customer}}
Customer: {{.Customer}}
{{- end}}
{{rule}}
{{range .Lines -}}
{{.Name}}
{{row (printf "  %d x %s" .Quantity .Price) .Amount}}
{{- if .Note}}
  Note: {{.Note}}
{{- end}}
{{end -}}
{{rule}}
{{row "Subtotal:" .Subtotal}}
{{row (printf "GST (%s%%):" .GSTRate) .Tax}}
{{row (printf "Service Charge (%s%%):" .ServiceRate) .Service}}
{{- if .Discount}}
{{row "Discount:" .Discount}}
{{- end}}
{{rule}}
{{row "Total:" .Total}}
{{rule}}
{{center "Thank you for dining with us!"}}
{{center "Please visit again."}}
`))

type receiptLine struct {
	Name     string
	Quantity int
	Price    string
	Amount   string
	Note     string
}

type receiptData struct {
	Store       model.StoreSettings
	Date        string
	Time        string
	BillNo      string
	Table       string
	Customer    string
	Lines       []receiptLine
	Subtotal    string
	GSTRate     string
	ServiceRate string
	Tax         string
	Service     string
	Discount    string
	Total       string
}

// Render はアクティブか完了済みの注文の伝票を返す。取消済みは出さない。
func (u *BillUsecase) Render(ctx context.Context, orderID string) (string, error) {
	var (
		order    model.Order
		settings model.StoreSettings
		table    model.Table
	)
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		if order, err = r.Orders().FindByID(ctx, orderID); err != nil {
			return err
		}
		if settings, err = r.Settings().Get(ctx); err != nil {
			return err
		}
		table, err = r.Tables().FindByID(ctx, order.TableID)
		if err != nil {
			// テーブル名が無くても伝票は出す
			table = model.Table{ID: order.TableID, Name: order.TableID}
		}
		return nil
	})
	if err != nil {
		return "", toHTTPError(err)
	}
	if order.Status == model.OrderStatusCancelled {
		return "", toHTTPError(fmt.Errorf("%w: order %s is cancelled", model.ErrInvalidTransition, order.ID))
	}

	printedAt := u.clock.Now()
	if order.CompletedAt != nil {
		printedAt = *order.CompletedAt
	}
	return renderReceipt(order, settings, table, printedAt)
}

func renderReceipt(o model.Order, s model.StoreSettings, t model.Table, at time.Time) (string, error) {
	money := func(d decimal.Decimal) string { return s.Currency + billing.Format(d) }

	data := receiptData{
		Store:       s,
		Date:        at.Format("02/01/2006"),
		Time:        at.Format("15:04"),
		BillNo:      billNumber(o.ID),
		Table:       t.Name,
		Customer:    o.CustomerName,
		Subtotal:    money(o.Subtotal),
		GSTRate:     s.GSTRate.String(),
		ServiceRate: s.ServiceChargeRate.String(),
		Tax:         money(o.TaxAmount),
		Service:     money(o.ServiceChargeAmount),
		Total:       money(o.Total),
	}
	if o.DiscountAmount.IsPositive() {
		data.Discount = "-" + money(o.DiscountAmount)
	}
	for _, it := range o.Items {
		data.Lines = append(data.Lines, receiptLine{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    money(it.UnitPrice),
			Amount:   money(it.LineTotal()),
			Note:     it.Note,
		})
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// 伝票番号は注文IDの先頭8文字（大文字）
func billNumber(orderID string) string {
	id := orderID
	if len(id) > 8 {
		id = id[:8]
	}
	return strings.ToUpper(id)
}

func center(s string) string {
	n := len([]rune(s))
	if n >= receiptWidth {
		return s
	}
	return strings.Repeat(" ", (receiptWidth-n)/2) + s
}

// 左右に振り分けた1行
func row(left, right string) string {
	gap := receiptWidth - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
