package notify

import (
	"fmt"
	"time"

	"github.com/hamzaelsherif121/Automotive-Service-Management-Platform/internal/models"
)

const adminURL = "https://hazemopel.com/admin"

// TestMessage is sent by the admin's manual connectivity check.
const TestMessage = "🔔 <b>اختبار إشعارات تليجرام!</b>\n\nإذا وصلتك هذه الرسالة، فهذا يعني أن الربط يعمل بشكل صحيح."

var arabicWeekdays = map[time.Weekday]string{
	time.Saturday:  "السبت",
	time.Sunday:    "الأحد",
	time.Monday:    "الاثنين",
	time.Tuesday:   "الثلاثاء",
	time.Wednesday: "الأربعاء",
	time.Thursday:  "الخميس",
	time.Friday:    "الجمعة",
}

var arabicMonths = map[time.Month]string{
	time.January:   "يناير",
	time.February:  "فبراير",
	time.March:     "مارس",
	time.April:     "أبريل",
	time.May:       "مايو",
	time.June:      "يونيو",
	time.July:      "يوليو",
	time.August:    "أغسطس",
	time.September: "سبتمبر",
	time.October:   "أكتوبر",
	time.November:  "نوفمبر",
	time.December:  "ديسمبر",
}

// ArabicDate renders "الأحد، 14 سبتمبر 2025" for the booking day.
func ArabicDate(t time.Time) string {
	return fmt.Sprintf("%s، %d %s %d", arabicWeekdays[t.Weekday()], t.Day(), arabicMonths[t.Month()], t.Year())
}

// FormatBookingCreated is the push for every new public booking.
func FormatBookingCreated(b *models.Booking, loc *time.Location) string {
	slot := b.TimeSlot
	if slot == "" {
		slot = "غير محدد"
	}

	return fmt.Sprintf(`🚗 <b>حجز جديد!</b>

👤 <b>الاسم:</b> %s
📱 <b>الموبايل:</b> %s
🚙 <b>السيارة:</b> %s
🔧 <b>الخدمة:</b> %s
📅 <b>التاريخ:</b> %s
⏰ <b>الوقت:</b> %s

🔗 <a href="%s">فتح لوحة التحكم</a>`,
		b.Name, b.Phone, b.CarModel, b.Services, ArabicDate(b.Date.In(loc)), slot, adminURL)
}

// FormatLeadCreated is the push for a promotional-offer lead.
func FormatLeadCreated(l *models.Lead) string {
	name := l.Name
	if name == "" {
		name = "بدون اسم"
	}

	return fmt.Sprintf(`🎁 <b>طلب عرض جديد!</b>

👤 <b>الاسم:</b> %s
📱 <b>الموبايل:</b> %s
🚙 <b>الموديل المختار:</b> %s

🔗 <a href="%s">فتح لوحة التحكم</a>`,
		name, l.Phone, l.OfferTitle, adminURL)
}
