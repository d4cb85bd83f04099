package export

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

const (
	sheetOverview = "نظرة عامة"
	sheetBookings = "الحجوزات"
	sheetParts    = "المخزون"
	sheetLeads    = "طلبات العروض"
)

var statusLabels = map[string]string{
	models.StatusPending:   "قيد الانتظار",
	models.StatusConfirmed: "مؤكد",
	models.StatusCompleted: "مكتمل",
	models.StatusMissed:    "لم يحضر",
	models.StatusCancelled: "ملغي",
}

// Exporter builds the four-sheet admin workbook.
type Exporter struct {
	clk    clock.Clock
	logger *zerolog.Logger
}

func NewExporter(clk clock.Clock, logger *zerolog.Logger) *Exporter {
	return &Exporter{clk: clk, logger: logger}
}

// Filename returns the download name for an export taken now.
func (e *Exporter) Filename() string {
	return fmt.Sprintf("hazem-opel-export_%s.xlsx", e.clk.Now().Format("2006-01-02"))
}

// Write builds the workbook and streams it to w.
func (e *Exporter) Write(w io.Writer, bookings []models.Booking, leads []models.Lead, parts []models.Part) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeOverview(f, bookings, leads, parts); err != nil {
		return fmt.Errorf("overview sheet: %w", err)
	}
	if err := e.writeBookings(f, bookings); err != nil {
		return fmt.Errorf("bookings sheet: %w", err)
	}
	if err := e.writeParts(f, parts); err != nil {
		return fmt.Errorf("parts sheet: %w", err)
	}
	if err := e.writeLeads(f, leads); err != nil {
		return fmt.Errorf("leads sheet: %w", err)
	}

	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(sheetOverview); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}

	e.logger.Info().Int("bookings", len(bookings)).Int("leads", len(leads)).Int("parts", len(parts)).Msg("Excel export written")
	return nil
}

func (e *Exporter) newSheet(f *excelize.File, name string) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	rtl := true
	return f.SetSheetView(name, -1, &excelize.ViewOptions{RightToLeft: &rtl})
}

func (e *Exporter) writeHeaders(f *excelize.File, sheet string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, header)
		_ = f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (e *Exporter) writeOverview(f *excelize.File, bookings []models.Booking, leads []models.Lead, parts []models.Part) error {
	if err := e.newSheet(f, sheetOverview); err != nil {
		return err
	}

	byStatus := make(map[string]int)
	customers := make(map[string]struct{})
	for _, b := range bookings {
		byStatus[b.Status]++
		if b.Phone != "" {
			customers[b.Phone] = struct{}{}
		}
	}
	for _, l := range leads {
		if l.Phone != "" {
			customers[l.Phone] = struct{}{}
		}
	}

	rows := [][2]interface{}{
		{"تاريخ التصدير", e.clk.Now().Format("2006-01-02 15:04")},
		{"إجمالي الحجوزات", len(bookings)},
		{"قيد الانتظار", byStatus[models.StatusPending]},
		{"مؤكد", byStatus[models.StatusConfirmed]},
		{"مكتمل", byStatus[models.StatusCompleted]},
		{"لم يحضر", byStatus[models.StatusMissed]},
		{"ملغي", byStatus[models.StatusCancelled]},
		{"إجمالي العملاء", len(customers)},
		{"طلبات العروض", len(leads)},
		{"قطع الغيار", len(parts)},
	}

	labelStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, row := range rows {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		_ = f.SetCellValue(sheetOverview, labelCell, row[0])
		_ = f.SetCellValue(sheetOverview, valueCell, row[1])
		_ = f.SetCellStyle(sheetOverview, labelCell, labelCell, labelStyle)
	}

	_ = f.SetColWidth(sheetOverview, "A", "A", 25)
	_ = f.SetColWidth(sheetOverview, "B", "B", 20)
	return nil
}

func (e *Exporter) writeBookings(f *excelize.File, bookings []models.Booking) error {
	if err := e.newSheet(f, sheetBookings); err != nil {
		return err
	}

	e.writeHeaders(f, sheetBookings, []string{
		"الرقم المرجعي", "الاسم", "الهاتف", "السيارة", "الخدمات", "الموعد", "ملاحظات", "التاريخ", "الحالة", "تاريخ الإنشاء",
	})

	for i, b := range bookings {
		row := i + 2
		status := statusLabels[b.Status]
		if status == "" {
			status = b.Status
		}
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("A%d", row), b.Ref())
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("B%d", row), b.Name)
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("C%d", row), b.Phone)
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("D%d", row), b.CarModel)
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("E%d", row), b.Services)
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("F%d", row), b.TimeSlot)
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("G%d", row), b.Note)
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("H%d", row), b.Date.Format("2006-01-02"))
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("I%d", row), status)
		_ = f.SetCellValue(sheetBookings, fmt.Sprintf("J%d", row), b.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheetBookings, "A", "A", 12)
	_ = f.SetColWidth(sheetBookings, "B", "B", 20)
	_ = f.SetColWidth(sheetBookings, "C", "C", 15)
	_ = f.SetColWidth(sheetBookings, "D", "D", 18)
	_ = f.SetColWidth(sheetBookings, "E", "E", 30)
	_ = f.SetColWidth(sheetBookings, "F", "F", 12)
	_ = f.SetColWidth(sheetBookings, "G", "G", 25)
	_ = f.SetColWidth(sheetBookings, "H", "H", 12)
	_ = f.SetColWidth(sheetBookings, "I", "I", 14)
	_ = f.SetColWidth(sheetBookings, "J", "J", 18)
	return nil
}

func (e *Exporter) writeParts(f *excelize.File, parts []models.Part) error {
	if err := e.newSheet(f, sheetParts); err != nil {
		return err
	}

	e.writeHeaders(f, sheetParts, []string{
		"القطعة", "الموديلات", "السنة", "الحالة", "الأعراض", "تاريخ الإضافة",
	})

	partStatus := map[string]string{
		models.PartAvailable:   "متوفر",
		models.PartUnavailable: "غير متوفر",
		models.PartInquiry:     "حسب الطلب",
	}

	for i, p := range parts {
		row := i + 2
		status := partStatus[p.Status]
		if status == "" {
			status = p.Status
		}
		_ = f.SetCellValue(sheetParts, fmt.Sprintf("A%d", row), p.Name)
		_ = f.SetCellValue(sheetParts, fmt.Sprintf("B%d", row), joinList(p.Models))
		_ = f.SetCellValue(sheetParts, fmt.Sprintf("C%d", row), p.Year)
		_ = f.SetCellValue(sheetParts, fmt.Sprintf("D%d", row), status)
		_ = f.SetCellValue(sheetParts, fmt.Sprintf("E%d", row), joinList(p.Symptoms))
		_ = f.SetCellValue(sheetParts, fmt.Sprintf("F%d", row), p.CreatedAt.Format("2006-01-02"))
	}

	_ = f.SetColWidth(sheetParts, "A", "A", 25)
	_ = f.SetColWidth(sheetParts, "B", "B", 25)
	_ = f.SetColWidth(sheetParts, "C", "C", 12)
	_ = f.SetColWidth(sheetParts, "D", "D", 14)
	_ = f.SetColWidth(sheetParts, "E", "E", 30)
	_ = f.SetColWidth(sheetParts, "F", "F", 14)
	return nil
}

func (e *Exporter) writeLeads(f *excelize.File, leads []models.Lead) error {
	if err := e.newSheet(f, sheetLeads); err != nil {
		return err
	}

	e.writeHeaders(f, sheetLeads, []string{
		"الاسم", "الهاتف", "العرض", "الحالة", "تاريخ الطلب",
	})

	for i, l := range leads {
		row := i + 2
		_ = f.SetCellValue(sheetLeads, fmt.Sprintf("A%d", row), l.Name)
		_ = f.SetCellValue(sheetLeads, fmt.Sprintf("B%d", row), l.Phone)
		_ = f.SetCellValue(sheetLeads, fmt.Sprintf("C%d", row), l.OfferTitle)
		_ = f.SetCellValue(sheetLeads, fmt.Sprintf("D%d", row), l.Status)
		_ = f.SetCellValue(sheetLeads, fmt.Sprintf("E%d", row), l.CreatedAt.Format("2006-01-02 15:04"))
	}

	_ = f.SetColWidth(sheetLeads, "A", "A", 20)
	_ = f.SetColWidth(sheetLeads, "B", "B", 15)
	_ = f.SetColWidth(sheetLeads, "C", "C", 25)
	_ = f.SetColWidth(sheetLeads, "D", "D", 12)
	_ = f.SetColWidth(sheetLeads, "E", "E", 18)
	return nil
}

func joinList(items []string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += "، "
		}
		out += item
	}
	return out
}
