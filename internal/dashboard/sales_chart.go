package dashboard

import (
	"fmt"
	"time"

	"dagitim-backend/internal/database"
	"dagitim-backend/internal/unit"

	"github.com/gofiber/fiber/v2"
)

type ChartPoint struct {
	Bucket          string  `json:"bucket"` // "2025-12-09", "2025-W50" veya "2025-12"
	TotalAmount     float64 `json:"total_amount"`
	CollectedAmount float64 `json:"collected_amount"`
	OutstandingAmount float64 `json:"outstanding_amount"`
	SaleCount       int64   `json:"sale_count"`
}

type ChartResponse struct {
	Period string       `json:"period"`
	Points []ChartPoint `json:"points"`
}

// GET /api/dashboard/sales-chart?period=daily|weekly|monthly&sales_rep_id=3
// Satış cirosu ve tahsilat toplamlarını zaman kovalarına böler.
// daily: son 30 gün, weekly: son 12 hafta, monthly: son 12 ay.
func SalesChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "daily")

		var trunc, labelFormat string
		var since time.Time
		now := time.Now()
		switch period {
		case "daily":
			trunc = "day"
			labelFormat = "YYYY-MM-DD"
			since = now.AddDate(0, 0, -30)
		case "weekly":
			trunc = "week"
			labelFormat = `IYYY-"W"IW`
			since = now.AddDate(0, 0, -12*7)
		case "monthly":
			trunc = "month"
			labelFormat = "YYYY-MM"
			since = now.AddDate(0, -12, 0)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "period 'daily', 'weekly' veya 'monthly' olmalı")
		}

		query := fmt.Sprintf(`
			SELECT to_char(date_trunc('%s', date), '%s') AS bucket,
			       SUM(total_amount)     AS total_amount,
			       SUM(collected_amount) AS collected_amount,
			       COUNT(*)              AS sale_count
			FROM sales
			WHERE date >= ?`, trunc, labelFormat)

		args := []interface{}{since}
		if repStr := c.Query("sales_rep_id"); repStr != "" {
			var rid uint
			if _, err := fmt.Sscan(repStr, &rid); err == nil && rid > 0 {
				query += " AND sales_rep_id = ?"
				args = append(args, rid)
			}
		}
		query += " GROUP BY 1 ORDER BY 1"

		type row struct {
			Bucket          string
			TotalAmount     float64
			CollectedAmount float64
			SaleCount       int64
		}
		var rows []row
		if err := database.DB.Raw(query, args...).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Grafik verisi hesaplanamadı")
		}

		points := make([]ChartPoint, 0, len(rows))
		for _, r := range rows {
			points = append(points, ChartPoint{
				Bucket:            r.Bucket,
				TotalAmount:       unit.Round2(r.TotalAmount),
				CollectedAmount:   unit.Round2(r.CollectedAmount),
				OutstandingAmount: unit.Round2(r.TotalAmount - r.CollectedAmount),
				SaleCount:         r.SaleCount,
			})
		}

		return c.JSON(ChartResponse{Period: period, Points: points})
	}
}
