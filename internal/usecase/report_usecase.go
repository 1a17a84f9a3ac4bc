package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"restobill/internal/domain/billing"
	"restobill/internal/domain/model"
	repo "restobill/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// 売上分析の外部サービス（失敗してよい）
type InsightGenerator interface {
	Generate(ctx context.Context, prompt string) (model.Insight, error)
}

type ReportUsecase struct {
	tx      repo.TransactionManager
	insight InsightGenerator
	clock   Clock
	timeout time.Duration
	loc     *time.Location
}

// insight が nil なら分析は常に固定文を返す。loc が nil ならローカル時間。
func NewReportUsecase(tx repo.TransactionManager, insight InsightGenerator, clock Clock, timeout time.Duration, loc *time.Location) *ReportUsecase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUsecase{tx: tx, insight: insight, clock: clock, timeout: timeout, loc: loc}
}

type ItemSales struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type HourlySales struct {
	Hour  int             `json:"hour"`
	Sales decimal.Decimal `json:"sales"`
}

type DailyReport struct {
	Date         string          `json:"date"`
	TotalSales   decimal.Decimal `json:"total_sales"`
	OrderCount   int             `json:"order_count"`
	AverageValue decimal.Decimal `json:"average_value"`
	Items        []ItemSales     `json:"items"`
	SalesByHour  []HourlySales   `json:"sales_by_hour"`
}

// Daily はその日に完了した注文を集計する。date が空なら今日。
func (u *ReportUsecase) Daily(ctx context.Context, date string) (DailyReport, error) {
	day := u.clock.Now().In(u.loc)
	if date != "" {
		d, err := time.ParseInLocation("2006-01-02", date, u.loc)
		if err != nil {
			return DailyReport{}, NewHTTPError(http.StatusBadRequest, "invalid date")
		}
		day = d
	}
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, u.loc)
	to := from.AddDate(0, 0, 1)

	var orders []model.Order
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		orders, err = r.Orders().List(ctx, repo.OrderListFilter{
			Status:        model.OrderStatusCompleted,
			CompletedFrom: &from,
			CompletedTo:   &to,
		})
		return err
	})
	if err != nil {
		return DailyReport{}, toHTTPError(err)
	}

	return buildDailyReport(from.Format("2006-01-02"), orders, u.loc), nil
}

func buildDailyReport(date string, orders []model.Order, loc *time.Location) DailyReport {
	rep := DailyReport{
		Date:         date,
		TotalSales:   decimal.Zero,
		AverageValue: decimal.Zero,
		OrderCount:   len(orders),
		Items:        []ItemSales{},
		SalesByHour:  make([]HourlySales, 24),
	}
	for h := range rep.SalesByHour {
		rep.SalesByHour[h] = HourlySales{Hour: h, Sales: decimal.Zero}
	}

	byName := map[string]*ItemSales{}
	for _, o := range orders {
		rep.TotalSales = rep.TotalSales.Add(o.Total)
		if o.CompletedAt != nil {
			h := o.CompletedAt.In(loc).Hour()
			rep.SalesByHour[h].Sales = rep.SalesByHour[h].Sales.Add(o.Total)
		}
		for _, it := range o.Items {
			s, ok := byName[it.Name]
			if !ok {
				s = &ItemSales{Name: it.Name, Revenue: decimal.Zero}
				byName[it.Name] = s
			}
			s.Quantity += it.Quantity
			s.Revenue = s.Revenue.Add(it.LineTotal())
		}
	}
	if rep.OrderCount > 0 {
		rep.AverageValue = rep.TotalSales.DivRound(decimal.NewFromInt(int64(rep.OrderCount)), 2)
	}

	for _, s := range byName {
		rep.Items = append(rep.Items, *s)
	}
	sortItemSales(rep.Items)
	return rep
}

// 数量の多い順（同数は名前順）
func sortItemSales(items []ItemSales) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity > items[j].Quantity
		}
		return items[i].Name < items[j].Name
	})
}

// Insight は完了済みの注文全体から分析文を作る。
// 外部呼び出しはロックの外でタイムアウト付き。失敗したら固定文を返し、エラーにはしない。
func (u *ReportUsecase) Insight(ctx context.Context) (model.Insight, error) {
	if u.insight == nil {
		return model.FallbackInsight(), nil
	}

	var orders []model.Order
	err := u.tx.View(ctx, func(ctx context.Context, r repo.TxRepos) error {
		var err error
		orders, err = r.Orders().List(ctx, repo.OrderListFilter{Status: model.OrderStatusCompleted})
		return err
	})
	if err != nil {
		return model.Insight{}, toHTTPError(err)
	}

	prompt := buildInsightPrompt(orders, u.loc)

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	out, err := u.insight.Generate(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Int("orders", len(orders)).Msg("insight generation failed, returning fallback")
		return model.FallbackInsight(), nil
	}
	return out, nil
}

func buildInsightPrompt(orders []model.Order, loc *time.Location) string {
	revenue := decimal.Zero
	counts := map[string]int{}
	hours := make([]string, 0, len(orders))
	for _, o := range orders {
		revenue = revenue.Add(o.Total)
		for _, it := range o.Items {
			counts[it.Name] += it.Quantity
		}
		if o.CompletedAt != nil {
			hours = append(hours, fmt.Sprintf("%d:00", o.CompletedAt.In(loc).Hour()))
		}
	}

	items := make([]ItemSales, 0, len(counts))
	for name, q := range counts {
		items = append(items, ItemSales{Name: name, Quantity: q})
	}
	sortItemSales(items)
	if len(items) > 5 {
		items = items[:5]
	}
	top := make([]string, 0, len(items))
	for _, it := range items {
		top = append(top, fmt.Sprintf("%s (%d)", it.Name, it.Quantity))
	}

	var b strings.Builder
	b.WriteString("As a restaurant manager AI, analyze the following sales summary and provide 3 key insights or actionable suggestions.\n\n")
	b.WriteString("Data:\n")
	fmt.Fprintf(&b, "- Total Revenue: %s\n", billing.Format(revenue))
	fmt.Fprintf(&b, "- Total Orders: %d\n", len(orders))
	fmt.Fprintf(&b, "- Top Selling Items: %s\n", strings.Join(top, ", "))
	fmt.Fprintf(&b, "- Order Times: %s\n\n", strings.Join(hours, ", "))
	b.WriteString(`Format the output as a JSON object with a "summary" string and an array of "insights" (strings).`)
	return b.String()
}
