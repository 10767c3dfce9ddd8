package seed

import (
	"context"
	"fmt"

	"smart-reminder/internal/model"
	"smart-reminder/internal/store"
	"smart-reminder/pkg/logger"

	"go.uber.org/zap"
)

// DefaultEvents is the 2026 seasonal marketing catalogue
func DefaultEvents() []model.MarketingEvent {
	return []model.MarketingEvent{
		model.NewEvent("jan-1", model.Localized{Ar: "رأس السنة الميلادية", En: "New Year"}, "2026-01-01", model.EventGlobal,
			model.Localized{Ar: "بداية العام الجديد، موسم قوي للتصفيات وبداية أهداف جديدة.", En: "Start of the year, great for clearances and new beginnings."}, model.PriorityHigh),
		model.NewEvent("jan-2", model.Localized{Ar: "يوم الشاي العالمي", En: "World Tea Day"}, "2026-01-12", model.EventGlobal,
			model.Localized{Ar: "مناسبة لطيفة لقطاع الكافيهات والأغذية.", En: "Nice event for cafes and F&B."}, model.PriorityLow),
		model.NewEvent("feb-1", model.Localized{Ar: "بداية حملات فبراير", En: "February Campaigns Start"}, "2026-02-01", model.EventCommercial,
			model.Localized{Ar: "بداية التخطيط التسويقي لشهر فبراير المليء بالمناسبات.", En: "Start of marketing planning for a busy February."}, model.PriorityLow),
		model.NewEvent("feb-2", model.Localized{Ar: "يوم البيتزا العالمي", En: "World Pizza Day"}, "2026-02-09", model.EventGlobal,
			model.Localized{Ar: "فرصة رائعة للمطاعم لتقديم خصومات خاصة.", En: "Great opportunity for restaurants to offer special discounts."}, model.PriorityLow),
		model.NewEvent("feb-3", model.Localized{Ar: "تجهيزات ما قبل رمضان", En: "Pre-Ramadan Prep"}, "2026-02-12", model.EventCommercial,
			model.Localized{Ar: "بدء التسوق للمستلزمات الرمضانية والتمور.", En: "Starting shopping for Ramadan supplies and dates."}, model.PriorityMedium),
		model.NewEvent("feb-4", model.Localized{Ar: "يوم الحب العالمي", En: "Valentine's Day"}, "2026-02-14", model.EventGlobal,
			model.Localized{Ar: "موسم ضخم للهدايا، العطور، والزهور.", En: "Huge season for gifts, perfumes, and flowers."}, model.PriorityMedium),
		model.NewEvent("ramadan", model.Localized{Ar: "موسم رمضان المبارك", En: "Ramadan Season"}, "2026-02-18", model.EventReligious,
			model.Localized{Ar: "أكبر موسم استهلاكي وتفاعلي في السنة، يتطلب حملات مكثفة وعروض رمضانية.", En: "The biggest consumer and engagement season of the year."}, model.PriorityHigh),
		model.NewEvent("founding-day", model.Localized{Ar: "يوم التأسيس السعودي", En: "Saudi Founding Day"}, "2026-02-22", model.EventNational,
			model.Localized{Ar: "ذكرى تأسيس الدولة السعودية الأولى - ذروة تسويقية كبرى تبرز الهوية الوطنية.", En: "Founding of the first Saudi state - Major marketing peak highlighting national identity."}, model.PriorityHigh),
		model.NewEvent("eid-al-fitr", model.Localized{Ar: "عيد الفطر المبارك", En: "Eid Al-Fitr"}, "2026-03-20", model.EventReligious,
			model.Localized{Ar: "موسم الاحتفالات، الملابس الجديدة، والحلويات والهدايا.", En: "Season for celebrations, new clothes, sweets and gifts."}, model.PriorityHigh),
		model.NewEvent("mothers-day", model.Localized{Ar: "يوم الأم العالمي", En: "Mother's Day"}, "2026-03-21", model.EventGlobal,
			model.Localized{Ar: "موسم الهدايا والتقدير، مثالي لقطاعات العطور، الذهب، والزهور.", En: "Season of gifts and appreciation, ideal for perfumes, gold, and flowers."}, model.PriorityHigh),
		model.NewEvent("apr-1", model.Localized{Ar: "بداية موسم الربيع", En: "Spring Season Start"}, "2026-04-01", model.EventCommercial,
			model.Localized{Ar: "موسم الموضة والرحلات الخارجية.", En: "Fashion and outdoor trips season."}, model.PriorityMedium),
		model.NewEvent("apr-2", model.Localized{Ar: "يوم الصحة العالمي", En: "World Health Day"}, "2026-04-07", model.EventGlobal,
			model.Localized{Ar: "مناسبة مثالية للنوادي الصحية والمكملات الغذائية.", En: "Perfect for gyms and health supplements."}, model.PriorityLow),
		model.NewEvent("may-1", model.Localized{Ar: "يوم العمال العالمي", En: "Labor Day"}, "2026-05-01", model.EventGlobal,
			model.Localized{Ar: "يوم إجازة وتركيز على العروض السريعة.", En: "Holiday focusing on flash sales."}, model.PriorityMedium),
		model.NewEvent("eid-al-adha", model.Localized{Ar: "يوم الأضحى المبارك", En: "Eid Al-Adha Day"}, "2026-05-27", model.EventReligious,
			model.Localized{Ar: "موسم السفر، الضيافة، والولائم الكبرى.", En: "Travel, hospitality, and major banquets season."}, model.PriorityHigh),
		model.NewEvent("jun-2", model.Localized{Ar: "يوم الأب العالمي", En: "Father's Day"}, "2026-06-16", model.EventGlobal,
			model.Localized{Ar: "هدايا الرجالي والساعات والالكترونيات.", En: "Men's gifts, watches, and electronics."}, model.PriorityLow),
		model.NewEvent("jun-1", model.Localized{Ar: "بداية الصيف الفعلي", En: "Official Summer Start"}, "2026-06-21", model.EventCommercial,
			model.Localized{Ar: "انطلاق حملات الصيف والملابس الخفيفة.", En: "Summer campaigns launch."}, model.PriorityHigh),
		model.NewEvent("jul-1", model.Localized{Ar: "يوم الشوكولاتة العالمي", En: "World Chocolate Day"}, "2026-07-07", model.EventGlobal,
			model.Localized{Ar: "يوم مثالي لقطاع الحلويات.", En: "Ideal for the confectionery sector."}, model.PriorityLow),
		model.NewEvent("jul-2", model.Localized{Ar: "تخفيضات الصيف الكبرى", En: "Big Summer Sales"}, "2026-07-15", model.EventCommercial,
			model.Localized{Ar: "ذروة التصفيات الصيفية قبل العودة للمدارس.", En: "Peak summer clearance."}, model.PriorityHigh),
		model.NewEvent("aug-2", model.Localized{Ar: "يوم التصوير العالمي", En: "World Photography Day"}, "2026-08-19", model.EventGlobal,
			model.Localized{Ar: "تفاعل مع صناع المحتوى والمصورين.", En: "Engage with content creators and photographers."}, model.PriorityLow),
		model.NewEvent("aug-1", model.Localized{Ar: "العودة للمدارس", En: "Back to School"}, "2026-08-20", model.EventCommercial,
			model.Localized{Ar: "أقوى موسم لقطاع القرطاسية، الالكترونيات، والملابس.", En: "Strongest season for stationery, electronics, and clothing."}, model.PriorityHigh),
		model.NewEvent("national-day", model.Localized{Ar: "اليوم الوطني السعودي", En: "Saudi National Day"}, "2026-09-23", model.EventNational,
			model.Localized{Ar: "يوم الاحتفاء بالوطن، عروض \"96\" الشهيرة والفعاليات في كل مكان.", En: "Celebrating the nation with famous \"96\" offers."}, model.PriorityHigh),
		model.NewEvent("sep-1", model.Localized{Ar: "يوم القهوة العالمي", En: "World Coffee Day"}, "2026-09-29", model.EventGlobal,
			model.Localized{Ar: "أقوى يوم تفاعلي لقطاع الكافيهات في المنطقة.", En: "Highest engagement day for the cafes sector in the region."}, model.PriorityMedium),
		model.NewEvent("oct-1", model.Localized{Ar: "أكتوبر الوردي", En: "Pink October"}, "2026-10-01", model.EventGlobal,
			model.Localized{Ar: "حملات التوعية بسرطان الثدي، تدعم المسؤولية الاجتماعية للمتاجر.", En: "Breast cancer awareness campaigns."}, model.PriorityMedium),
		model.NewEvent("oct-2", model.Localized{Ar: "يوم الابتسامة العالمي", En: "World Smile Day"}, "2026-10-02", model.EventGlobal,
			model.Localized{Ar: "حملات تفاعلية لنشر الإيجابية.", En: "Interactive positive vibes campaigns."}, model.PriorityLow),
		model.NewEvent("singles-day", model.Localized{Ar: "يوم العزاب", En: "Singles Day"}, "2026-11-11", model.EventCommercial,
			model.Localized{Ar: "موسم مبيعات عالمي ضخم، يسبق الجمعة البيضاء.", En: "Massive global sales event before White Friday."}, model.PriorityMedium),
		model.NewEvent("white-friday", model.Localized{Ar: "يوم الجمعة البيضاء", En: "White Friday"}, "2026-11-27", model.EventCommercial,
			model.Localized{Ar: "أقوى موسم مبيعات إلكترونية وتصفيات سنوية.", En: "The strongest annual e-commerce sales and clearance season."}, model.PriorityHigh),
		model.NewEvent("dec-1", model.Localized{Ar: "يوم اللغة العربية", En: "Arabic Language Day"}, "2026-12-18", model.EventNational,
			model.Localized{Ar: "يوم الفخر بالهوية واللغة.", En: "Day of pride in identity and language."}, model.PriorityLow),
		model.NewEvent("dec-2", model.Localized{Ar: "تخفيضات نهاية العام", En: "Year End Sales"}, "2026-12-25", model.EventCommercial,
			model.Localized{Ar: "آخر فرصة لتصفية المخزون قبل جرد العام الجديد.", En: "Final chance for inventory clearance."}, model.PriorityHigh),
	}
}

// EnsureEvents inserts the default catalogue when the events collection is empty.
// It returns the events now stored.
func EnsureEvents(ctx context.Context, st store.Store) ([]model.MarketingEvent, error) {
	existing, err := st.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	defaults := DefaultEvents()
	for _, e := range defaults {
		if err := st.SaveEvent(ctx, e); err != nil {
			return nil, fmt.Errorf("seed event %s: %w", e.ID, err)
		}
	}
	logger.FromContext(ctx).Info("Seeded default events", zap.Int("count", len(defaults)))
	return st.ListEvents(ctx)
}
