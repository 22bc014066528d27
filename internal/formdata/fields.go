package formdata

// Field names used by the external form builder. The top level envelope uses
// English names; everything below "All" is keyed by the Arabic field labels.
const (
	KeyForm          = "Form"
	KeyFormID        = "Id"
	KeyEntry         = "Entry"
	KeyEntryNumber   = "Number"
	KeyDateSubmitted = "DateSubmitted"
	KeyInternalLink  = "InternalLink"
	KeyAll           = "All"

	KeyUploads = "تحميل"
	KeyFile    = "File"
)

// Submission level fields under "All".
const (
	KeySubmitterName     = "اسم_المبلغ"
	KeyLocation          = "الموقع"
	KeyStatus            = "الحالة"
	KeyHost              = "المستضيف"
	KeyHostedFamilies    = "العائلات_المستضافة"
	KeyMartyrs           = "الشهداء"
	KeyShelters          = "مراكز_الإيواء"
	KeyShelteredFamilies = "العائلات_في_المركز"
)

// Primary respondent fields.
const (
	KeyFullName         = "الاسم_الكامل"
	KeyHousehold        = "أفراد_الأسرة"
	KeyAddress          = "العنوان"
	KeyPhone            = "رقم_الهاتف"
	KeyFamilyBookNumber = "رقم_دفتر_العائلة"
)

// Displaced family fields.
const (
	KeyIndividualCount   = "عدد_الأفراد"
	KeyContact           = "رقم_التواصل"
	KeySpouseName        = "اسم_الزوج_أو_الزوجة"
	KeyChildren          = "الأطفال_وأعمارهم"
	KeyNotes             = "ملاحظات"
	KeyReturnFeasibility = "إمكانية_العودة"

	KeyNeedsDescription   = "الاحتياجات_المطلوبة"
	KeyAssistanceType     = "نوع_المساعدة"
	KeyProvider           = "الجهة_المقدمة"
	KeyDateReceived       = "تاريخ_الاستلام"
	KeyPreviousAssistance = "مساعدات_سابقة"
	KeyDocumentation      = "صور_التوثيق"
)

// NeedsKeys lists the spellings the needs section arrives under. Families
// nested in a shelter use the hamza form; neither is treated as canonical.
var NeedsKeys = []string{"الاحتياجات", "الإحتياجات"}

// Martyr fields.
const (
	KeyAge             = "العمر"
	KeyMartyrdomPlace  = "مكان_الاستشهاد"
	KeyRelativeContact = "رقم_تواصل_الأقارب"
	KeyMartyrPhoto     = "صورة_الشهيد"
)

// Shelter fields.
const (
	KeyShelterPlace = "مكان_الإيواء"
)
