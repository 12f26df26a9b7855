package application

import "fmt"

// Product copy, carried over verbatim from the running campaign.

// Menu labels are matched exactly against inbound message text.
const (
	LabelReferralLink = "👥 Shaxsiy havolam"
	LabelMyPoints     = "⭐ Mening ballarim"
	LabelKnowledge    = "📚 Qo’llanma"

	LabelSubscribe    = "➕KANALGA OBUNA BO’LISH"
	LabelCheckDone    = "Bajarildi ✅"
	LabelShareContact = "📲 Raqamni ulashish"
)

const welcomeText = `🎉 Zangiota Residence aksiyasida ishtirok etayotganingizdan mamnunmiz!

Do'stlaringizni kanalga taklif qilib, katta va qimmatbaho sovg'alarni yutib olishingiz mumkin!

Keling, qisqacha tushuntiramiz 👇

⸻

👉 Eng ko'p odam taklif qilgan ishtirokchi
🎁 Bizdagi yirik sovg'alardan xohlagan birini o'zi tanlab oladi:
 • Telefon
 • Duxovka
 • Xolodilnik
 • Televizor
 • Kir yuvish mashinasi

⸻

👉 Barcha faol ishtirokchilar orasidan
🎁 Tasodifiy tarzda sovg'alar o'ynaladi — hech kim e'tiborsiz qolmaydi.
Taklif qilganlarning har biri sovg'a olish imkoniga ega.

⸻

📅 G'oliblar 21-noyabrdan boshlab, hammaning ko'zi oldida, onlayn tarzda aniqlanadi.`

const subscriptionPromptText = "⬇️ Aksiyada ishtirok etish uchun avval kanalimizga obuna bo'ling.\n\n" +
	"Quyidagi tugmani bosing va obuna bo'lgandan keyin " +
	"\"✅ Obunani Tekshirish\" tugmasini bosing."

const notSubscribedAlertText = "❌ Siz hali kanalga obuna bo'lmadingiz. Iltimos, avval obuna bo'ling va qayta urinib ko'ring."

const subscriptionConfirmedToast = "✅ Obuna tasdiqlandi!"

const subscribedEditText = "✅ Ajoyib! Siz obuna bo'lgansiz.\n\n" +
	"Endi aloqa ma'lumotlaringizni ulashing:"

const contactPromptText = `Sizga bog'lana olishim uchun pastdagi "📲 Raqamni ulashish" tugmasini bosib telefon raqamingizni yuboring`

const contactRejectedText = "❌ Iltimos, o'zingizning aloqa ma'lumotlaringizni ulashing."

const mainMenuText = "Asosiy menyu:"

const backToMenuText = "Main Menu:"

const adminDeniedText = "⛔ Bu buyruq faqat administratorlar uchun."

const statsPreparingText = "📊 Statistika tayyorlanmoqda..."

const usersPreparingText = "👥 Foydalanuvchilar ro'yxati tayyorlanmoqda..."

const adminHelpText = "🔧 <b>ADMIN BUYRUQLARI</b>\n\n" +
	"/stats - Bot statistikasini ko'rish\n" +
	"/users - Referalli foydalanuvchilar ro'yxati\n" +
	"/admin - Admin buyruqlar ro'yxati\n"

func onboardedText(link string) string {
	return fmt.Sprintf(`❓ Qanday qilib tanishlarni qo'shish va ball yig'ish mumkin?

👥 Sizga berilgan shaxsiy havola orqali kanalga kirgan har bir tanishingiz = +1 ball.

Qanchalik ko'p odam taklif qilsangiz — sovg'a yutish imkoningiz shunchalik oshadi! 🎁

🔗 Do'stlarni taklif qilish uchun:
👉 "Shaxsiy havolam" tugmasini bosing va tanishlaringizga yuboring.

📑 Nechta odam qo'shilganini ko'rish uchun:
👉 "Mening ballarim" tugmasini bosib tekshiring.

Faol bo'ling — sovg'alar sizni kutyapti! 🎉

🔗 Sizning havolangiz:

<code>%s</code>`, link)
}

func pointsText(points, referralCount int, link string) string {
	return fmt.Sprintf(`📊 Mening ballarim: %d

👥 Qo‘shilgan tanishlar soni: %d

🔥 Yana biroz harakat qiling!

Linkni yaqinlaringizga yuboring, guruhlarga ulashing — har bir qo‘shilgan odam sizni g‘oliblikka bir qadam yaqinlashtiradi! 🎁🚀

Shaxsiy havolangiz:

<code>%s</code>`, points, referralCount, link)
}

func referralLinkText(link string) string {
	return fmt.Sprintf(`Zangiota Residence yopiq taqdimot kanaliga qo'shiling va Telfon, Muzlatgich, Televizor, Duxovka, Kir yuvish mashinasi kabi yirik sovg'alarni yutib oling! 🎁

Konkursda ishtirok etish juda oson — pastdagi havola orqali kanalga o'ting 👇👇👇

Shaxsiy havolangiz:

<code>%s</code>`, link)
}

func readyText(link string, referralCount, points int) string {
	return fmt.Sprintf("✅ A'lo! Hamma narsa tayyor.\n\n"+
		"🔗 Sizning referal havolangiz:\n<code>%s</code>\n\n"+
		"📊 Statistikangiz:\n"+
		"👥 Taklif qilganlar: %d\n"+
		"⭐ Ballar: %d\n\n"+
		"Menyudan foydalaning:", link, referralCount, points)
}
