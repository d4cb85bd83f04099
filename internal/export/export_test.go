package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/clock"
	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

func newTestExporter() *Exporter {
	logger := zerolog.Nop()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return NewExporter(clock.Fixed{T: now}, &logger)
}

func TestFilename(t *testing.T) {
	e := newTestExporter()
	assert.Equal(t, "hazem-opel-export_2026-03-10.xlsx", e.Filename())
}

func TestWrite_FourSheetWorkbook(t *testing.T) {
	e := newTestExporter()

	bookings := []models.Booking{
		{
			ID:        "11111111-aaaa-bbbb-cccc-dddddddddddd",
			Name:      "أحمد محمد",
			Phone:     "01012345678",
			CarModel:  "أوبل أسترا",
			Services:  "غسيل",
			TimeSlot:  "9:00 - 11:00 ص",
			Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			Status:    models.StatusConfirmed,
			CreatedAt: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:     "22222222-aaaa-bbbb-cccc-dddddddddddd",
			Name:   "منى علي",
			Phone:  "01087654321",
			Status: models.StatusPending,
			Date:   time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		},
	}
	leads := []models.Lead{
		{ID: "l1", Name: "سارة", Phone: "01055556666", OfferTitle: "عرض الصيف", Status: models.LeadStatusNew},
	}
	parts := []models.Part{
		{ID: 1, Name: "حساس الكرنك", Models: []string{"أسترا", "فيكترا"}, Status: models.PartAvailable},
	}

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, bookings, leads, parts))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{sheetOverview, sheetBookings, sheetParts, sheetLeads}, f.GetSheetList())

	// Overview counts.
	total, err := f.GetCellValue(sheetOverview, "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", total)

	// First booking row: the short reference and localized status.
	ref, err := f.GetCellValue(sheetBookings, "A2")
	require.NoError(t, err)
	assert.Equal(t, "11111111", ref)

	status, err := f.GetCellValue(sheetBookings, "I2")
	require.NoError(t, err)
	assert.Equal(t, "مؤكد", status)

	// Parts models are joined with the Arabic comma.
	partModels, err := f.GetCellValue(sheetParts, "B2")
	require.NoError(t, err)
	assert.Equal(t, "أسترا، فيكترا", partModels)

	offer, err := f.GetCellValue(sheetLeads, "C2")
	require.NoError(t, err)
	assert.Equal(t, "عرض الصيف", offer)
}

func TestWrite_EmptyData(t *testing.T) {
	e := newTestExporter()

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, nil, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Len(t, f.GetSheetList(), 4)
}
