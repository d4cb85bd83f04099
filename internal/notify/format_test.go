package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

func TestArabicDate(t *testing.T) {
	// 2025-09-14 is a Sunday.
	d := time.Date(2025, 9, 14, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "الأحد، 14 سبتمبر 2025", ArabicDate(d))
}

func TestFormatBookingCreated(t *testing.T) {
	booking := &models.Booking{
		Name:     "أحمد محمد",
		Phone:    "01012345678",
		CarModel: "أوبل أسترا 2019",
		Services: "غسيل, تغيير زيت",
		TimeSlot: "9:00 - 11:00 ص",
		Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	text := FormatBookingCreated(booking, time.UTC)
	assert.Contains(t, text, "🚗 <b>حجز جديد!</b>")
	assert.Contains(t, text, "أحمد محمد")
	assert.Contains(t, text, "01012345678")
	assert.Contains(t, text, "أوبل أسترا 2019")
	assert.Contains(t, text, "9:00 - 11:00 ص")
	assert.Contains(t, text, "الثلاثاء، 10 مارس 2026")
	assert.Contains(t, text, adminURL)
}

func TestFormatBookingCreated_NoSlot(t *testing.T) {
	booking := &models.Booking{
		Name:     "منى",
		Phone:    "0108",
		CarModel: "كورسا",
		Services: "فحص",
		Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	text := FormatBookingCreated(booking, time.UTC)
	assert.Contains(t, text, "غير محدد")
}

func TestFormatLeadCreated(t *testing.T) {
	lead := &models.Lead{Name: "سارة", Phone: "01055556666", OfferTitle: "عرض الصيف"}

	text := FormatLeadCreated(lead)
	assert.Contains(t, text, "🎁 <b>طلب عرض جديد!</b>")
	assert.Contains(t, text, "سارة")
	assert.Contains(t, text, "عرض الصيف")
}

func TestFormatLeadCreated_NoName(t *testing.T) {
	text := FormatLeadCreated(&models.Lead{Phone: "0105", OfferTitle: "عرض"})
	assert.Contains(t, text, "بدون اسم")
}
