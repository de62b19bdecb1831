package inventory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/logger"
	"dagitim-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// Şablon sütun başlıkları; import tarafı da aynı sırayı bekler.
var bulkTemplateHeaders = []string{
	"Ürün Adı",
	"Kategori",
	"Birim Tipi",
	"Koli Ağırlığı (kg)",
	"Adet Gramajı (gr)",
	"Başlangıç Miktarı",
	"Peşin Fiyat",
	"Vadeli Fiyat",
	"Bayi Peşin Fiyat",
	"Bayi Vadeli Fiyat",
	"Otel Fiyatı (KDV Hariç)",
	"Otel Fiyatı (KDV Dahil)",
	"Çiftlik Mağaza Fiyatı",
	"Açıklama",
}

// Virgülsüz ama binlik noktalı hücre: 1-3 haneli baş, üçer haneli gruplar ("1.250")
var thousandsOnlyPattern = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// parseCellFloat - Excel hücresinden sayı okur. Türkçe ondalık virgülü ve
// binlik ayracı temizlenir. Boş hücre nil döner.
func parseCellFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	// "1.250,75" -> "1250.75"; virgül yoksa "1.250" binlik ayraçtır, "12.5" ondalıktır
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if thousandsOnlyPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("sayı okunamadı: %q", s)
	}
	return &v, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// rowFromCells - Excel satırını BulkRow'a çevirir. Sayı okunamayan hücreler
// satır hatası olarak toplanır, satır yine de doğrulamaya girer.
func rowFromCells(cells []string) (BulkRow, []string) {
	var parseErrs []string

	num := func(idx int, label string) *float64 {
		v, err := parseCellFloat(cell(cells, idx))
		if err != nil {
			parseErrs = append(parseErrs, label+": "+err.Error())
			return nil
		}
		return v
	}

	row := BulkRow{
		Name:              cell(cells, 0),
		Category:          cell(cells, 1),
		UnitType:          cell(cells, 2),
		WeightPerPack:     num(3, "koli ağırlığı"),
		GramsPerUnit:      num(4, "adet gramajı"),
		InitialQuantity:   num(5, "başlangıç miktarı"),
		PriceCash:         num(6, "peşin fiyat"),
		PriceCredit:       num(7, "vadeli fiyat"),
		PriceDealerCash:   num(8, "bayi peşin fiyat"),
		PriceDealerCredit: num(9, "bayi vadeli fiyat"),
		PriceHotelNonVAT:  num(10, "otel fiyatı (KDV hariç)"),
		PriceHotelVAT:     num(11, "otel fiyatı (KDV dahil)"),
		PriceFarmShop:     num(12, "çiftlik mağaza fiyatı"),
		Description:       cell(cells, 13),
	}
	return row, parseErrs
}

func looksLikeHeader(cells []string) bool {
	first := strings.ToLower(cell(cells, 0))
	return strings.Contains(first, "ürün") || strings.Contains(first, "urun") ||
		strings.Contains(first, "name") || first == "ad" || first == "adı"
}

type BulkImportResponse struct {
	TotalRows    int             `json:"total_rows"`
	CreatedCount int             `json:"created_count"`
	SkippedCount int             `json:"skipped_count"`
	Results      []BulkRowResult `json:"results"`
}

// POST /api/admin/products/bulk-import (multipart, alan adı: file)
// Hatalı satırlar atlanır, geçerli satırlar kaydedilir; sonuç satır satır döner.
func BulkImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenmedi ('file' alanı gerekli)")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya açılamadı")
		}
		defer file.Close()

		xlsx, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz Excel dosyası")
		}
		defer xlsx.Close()

		sheets := xlsx.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyasında sayfa yok")
		}
		allRows, err := xlsx.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel sayfası okunamadı")
		}
		if len(allRows) > 0 && looksLikeHeader(allRows[0]) {
			allRows = allRows[1:]
		}

		rows := make([]BulkRow, 0, len(allRows))
		parseErrsByRow := make(map[int][]string)
		for i, cells := range allRows {
			row, perrs := rowFromCells(cells)
			rows = append(rows, row)
			if len(perrs) > 0 {
				parseErrsByRow[i] = perrs
			}
		}

		results, err := ValidateRows(rows)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		// Hücre okuma hataları doğrulama hatalarıyla birleşir
		for i := range results {
			if perrs, ok := parseErrsByRow[results[i].RowIndex]; ok {
				results[i].Errors = append(perrs, results[i].Errors...)
				results[i].Eligible = false
			}
		}

		created := 0
		for i := range results {
			if !results[i].Eligible {
				continue
			}
			row := rows[results[i].RowIndex]

			var existing models.Product
			if err := database.DB.Where("name = ?", results[i].Name).First(&existing).Error; err == nil {
				results[i].Errors = append(results[i].Errors, "bu ürün adı zaten kayıtlı")
				results[i].Eligible = false
				continue
			}

			p, err := buildProduct(row)
			if err != nil {
				results[i].Errors = append(results[i].Errors, err.Error())
				results[i].Eligible = false
				continue
			}
			if err := database.DB.Create(p).Error; err != nil {
				logger.Log().Errorw("toplu ürün kaydı başarısız", "name", p.Name, "error", err)
				results[i].Errors = append(results[i].Errors, "kayıt başarısız")
				results[i].Eligible = false
				continue
			}
			created++

			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Toplu içe aktarım: %s", p.Name),
				After:       p,
			})
		}

		return c.JSON(BulkImportResponse{
			TotalRows:    len(results),
			CreatedCount: created,
			SkippedCount: len(results) - created,
			Results:      results,
		})
	}
}

// GET /api/admin/products/bulk-template
// Her birim tipinden bir örnek satır içeren boş şablon indirir.
func BulkTemplateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := excelize.NewFile()
		defer f.Close()

		sheet := f.GetSheetName(0)
		for i, h := range bulkTemplateHeaders {
			cellRef, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cellRef, h)
		}

		samples := [][]interface{}{
			{"Beyaz Peynir", "Süt Ürünleri", "kg", "", "", 50, 100, 110, 85, 95, 90, 99, 105, ""},
			{"Kaşar Koli", "Süt Ürünleri", "koli", 8.5, "", 10, 800, 880, 680, 760, 720, 790, 840, "8.5 kg'lık koli"},
			{"Tereyağı 250gr", "Süt Ürünleri", "gram", "", 250, 100, 45, 50, 38, 42, 40, 44, 47, "Adet bazlı"},
		}
		for r, sample := range samples {
			for col, v := range sample {
				cellRef, _ := excelize.CoordinatesToCellName(col+1, r+2)
				f.SetCellValue(sheet, cellRef, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şablon oluşturulamadı")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="urun-sablonu.xlsx"`)
		return c.Send(buf.Bytes())
	}
}
