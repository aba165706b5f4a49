package i18n

import "adsbot/pkg/domain"

var regions = map[domain.Language][]string{
	domain.LangUz: {
		"Toshkent shahri", "Toshkent viloyati", "Qashqadaryo", "Samarqand",
		"Andijon", "Buxoro", "Jizzax", "Namangan", "Navoiy",
		"Sirdaryo", "Surxondaryo", "Qoraqalpog'iston",
	},
	domain.LangRu: {
		"г. Ташкент", "Ташкентская область", "Кашкадарьинская область", "Самаркандская область",
		"Андижанская область", "Бухарская область", "Джизакская область", "Наманганская область", "Навоийская область",
		"Сырдарьинская область", "Сурхандарьинская область", "Республика Каракалпакстан",
	},
}

// Admin-facing keys only exist in Uzbek and resolve through the fallback.
var table = map[domain.Language]map[string]string{
	domain.LangUz: {
		"welcome":      "Assalamu alaykum! Ustudy botidan foydalanish uchun tilni tanlang:",
		"select_role":  "Siz kimsiz?",
		"graduate":     "🎓 Ustudy bitiruvchisi",
		"employer":     "👔 Ish beruvchi",
		"student":      "📚 Ustudy o'quvchisi",
		"welcome_as":   "%s sifatida xush kelibsiz!",
		"main_menu_of": "%s asosiy menyu",

		"create_ad":          "E'lon yaratish",
		"my_ads":             "Mening e'lonlarim",
		"contact_admin":      "👨‍💼 Admin bilan bog'lanish",
		"contact_admin_text": "Admin bilan bog'lanish uchun quyidagi tugmani bosing:",
		"contact_admin_btn":  "✉️ Adminga yozish",
		"browse_by_category": "Kategoriyalar bo'yicha ko'rish",
		"press_start":        "Iltimos /start ni bosing",
		"choose_from_menu":   "Iltimos, menyudan tanlang.",

		"enter_name":         "Ism va familiyangizni kiriting:",
		"enter_age_gr":       "Yoshingizni kiriting:",
		"enter_technologies": "Bilgan texnologiyalarni kiriting:\n(Texnologiya nomlarini vergul bilan ajrating. Masalan: Python, Django, PostgreSQL)",
		"enter_contact":      "Bog'lanish uchun telefon raqamingizni kiriting:\n(Masalan: +998 90 123 45 67)",
		"enter_region":       "Hududni tanlang:",
		"enter_price":        "Qancha maoshga ishlamoqchisiz? (masalan: 500-1000$)",
		"enter_profession":   "Qaysi yo'nalishda mutaxassislashasiz?",
		"enter_contact_time": "Qachon murojaat qilish mumkin?",
		"enter_goal":         "Maqsadingizni kiriting:",
		"enter_resume":       "Resume faylini yuklang:",

		"enter_age_emp":      "Talab qilinadigan yoshni kiriting: (18-65)",
		"enter_company":      "Kompaniya nomini kiriting:",
		"enter_job_category": "Ish kategoriyasini tanlang:",
		"enter_gender":       "Kimlar uchun ish? (erkak, ayol, farqi yo'q)",
		"enter_experience":   "Qancha tajriba talab qilinadi? (masalan: 1 yil, 6 oy):",
		"enter_work_days":    "Ish kunlarini kiriting: (masalan: 5/2, 6/1)",
		"enter_work_hours":   "Ish vaqtini kiriting: (masalan: 09:00-18:00)",
		"enter_location":     "Ish joyining manzilini kiriting:",
		"enter_salary":       "Maosh miqdorini kiriting: (masalan: 500-1000$)",
		"enter_requirements": "Qo'shimcha talablar (ixtiyoriy):\n(O'tkazib yuborish uchun - yuboring)",
		"requirements_none":  "Yo'q",

		"confirm_ad":  "Ma'lumotlaringizni tekshiring:",
		"confirm_btn": "✅ Tasdiqlash",
		"edit_btn":    "✏️ Tahrirlash",
		"cancel_btn":  "❌ Bekor qilish",
		"delete_btn":  "🗑 O'chirish",

		"ad_created":        "✅ E'lon muvaffaqiyatli yaratildi va admin tasdiqlashiga yuborildi!",
		"ad_cancelled":      "❌ E'lon bekor qilindi!",
		"ad_approved":       "🎉 Tabriklaymiz! Sizning e'loningiz tasdiqlandi va kanalda nashr qilindi!",
		"ad_rejected":       "😔 Afsuski, sizning e'loningiz rad etildi. Iltimos, ma'lumotlarni to'g'rilab qaytadan urinib ko'ring.",
		"ad_cancelled_id":   "❌ E'lon #%d bekor qilindi!",
		"ad_deleted_id":     "✅ E'lon #%d muvaffaqiyatli o'chirildi!",
		"ad_delete_confirm": "🗑 E'lonni o'chirish\n\n⚠️ Bu e'lon sizning ro'yxatingizdan o'chib ketadi.\n\nRostdan ham o'chirmoqchimisiz?",
		"yes_delete":        "✅ Ha, o'chirish",
		"no":                "❌ Yo'q",

		"select_edit_field": "Qaysi ma'lumotni o'zgartirishni istaysiz?",
		"edit_name":         "👤 Ism-familiya",
		"edit_age":          "🎂 Yosh",
		"edit_technologies": "💻 Texnologiyalar",
		"edit_contact":      "📞 Telefon raqam",
		"edit_region":       "🌍 Hudud",
		"edit_price":        "💰 Maosh",
		"edit_profession":   "💼 Mutaxassislik",
		"edit_contact_time": "⏰ Murojaat vaqti",
		"edit_goal":         "🎯 Maqsad",
		"edit_resume":       "📄 Resume",
		"edit_company":      "🏢 Kompaniya",
		"edit_category":     "📂 Kategoriya",
		"edit_gender":       "👥 Jins",
		"edit_experience":   "📈 Tajriba",
		"edit_work_days":    "📅 Ish kunlari",
		"edit_work_hours":   "🕐 Ish vaqti",
		"edit_location":     "📍 Manzil",
		"edit_salary":       "💵 Maosh",
		"edit_requirements": "📝 Talablar",
		"enter_new_value":   "Yangi qiymatni kiriting:",
		"field_updated":     "Ma'lumot muvaffaqiyatli yangilandi! ✅",

		"no_ads":              "Sizda hozircha birorta ham e'lon yo'q.",
		"ads_list":            "Sizning barcha e'lonlaringiz:",
		"select_category":     "📂 Kategoriyani tanlang",
		"no_categories":       "Kategoriyalar hali qo'shilmagan.",
		"no_ads_in_category":  "Bu kategoriya uchun e'lon topilmadi: %s",
		"category_results":    "📂 Tanlangan kategoriya: %s\nQuyidagi e'lonlar topildi:",
		"ad_status_draft":     "📝 Qoralama",
		"ad_status_pending":   "⏳ Ko'rib chiqilmoqda",
		"ad_status_approved":  "✅ Tasdiqlangan",
		"ad_status_rejected":  "❌ Rad etilgan",
		"ad_status_cancelled": "🚫 Bekor qilingan",
		"ad_status_deleted":   "🗑 O'chirilgan",
		"ad_detail_status":    "📊 <b>Status:</b> %s",
		"ad_detail_created":   "📅 <b>Yaratildi:</b> %s",
		"ad_detail_resume":    "📄 <b>Resume:</b> Yuklangan ✅",
		"max_ads_limit":       "Siz maksimal %d ta e'lon yarata olasiz!",

		"share_contact": "📱 Raqamni yuborish",
		"back":          "🔙 Orqaga",
		"main_menu":     "🏠 Bosh sahifa",

		"student_send":            "Taklif/Shikoyat yuborish",
		"enter_student_name":      "Ismingizni kiriting:",
		"enter_student_direction": "Qaysi yo'nalishda o'qiysiz?",
		"enter_student_group":     "O'qiyotgan guruhingizning raqamini kiriting:\n(Misol: U12)",
		"enter_student_type":      "Taklifmi yoki shikoyatmi? (taklif/shikoyat)",
		"enter_student_message":   "Matnni yozib yuboring:",
		"student_review":          "Ma'lumotlaringizni tekshiring:",
		"student_type_suggest":    "Taklif",
		"student_type_complaint":  "Shikoyat",
		"student_message_sent":    "✅ Taklif/shikoyatingiz muvaffaqiyatli yuborildi va admin ko'rib chiqishiga yuborildi!",
		"student_message_failed":  "Xabarni yuborishda xatolik yuz berdi. Iltimos, keyinroq qayta urinib ko'ring.",
		"student_reply":           "📚 Sizning murojaatingizga javob:\n\n%s\n\n💬 Mas'ul xodim javobi",
		"label_name":              "Ism-familiya",
		"label_direction":         "Yo'nalish",
		"label_group":             "Guruh raqami",
		"label_type":              "Tur",
		"label_message":           "Matn",

		"err_phone":         "❌ Telefon raqam noto'g'ri. Masalan: +998 90 123 45 67",
		"err_age_not_digit": "❌ Yosh faqat raqamlardan iborat bo'lishi kerak!",
		"err_age_range":     "❌ Yosh %d dan %d gacha bo'lishi kerak!",
		"err_too_short":     "❌ Kamida %d ta belgi kiriting!",
		"err_too_long":      "❌ Ko'pi bilan %d ta belgi kiriting!",
		"err_salary":        "❌ Maosh faqat raqamlardan iborat bo'lishi kerak! (masalan: 500$)",
		"err_gender":        "❌ Iltimos, variantlardan birini kiriting: erkak, ayol, farqi yo'q",
		"err_student_type":  "❌ Iltimos, taklif yoki shikoyat deb yozing.",
		"err_file_required": "❌ Iltimos, resume faylini hujjat sifatida yuboring.",
		"err_file_size":     "❌ Fayl hajmi %d MB dan oshmasligi kerak!",
		"err_file_format":   "❌ Ruxsat etilgan formatlar: %s",
		"err_file_invalid":  "❌ Faylni o'qib bo'lmadi. Iltimos, boshqa fayl yuboring.",
		"err_category":      "Kategoriya topilmadi!",
		"error_retry":       "⚠️ Xatolik yuz berdi. Iltimos, qaytadan urinib ko'ring.",
		"not_found":         "E'lon topilmadi!",
		"already_processed": "Bu e'lon allaqachon ko'rib chiqilgan!",
		"forbidden":         "Sizda ruxsat yo'q!",
		"too_many_requests": "⏳ Juda ko'p so'rov. Birozdan so'ng qayta urinib ko'ring.",

		"ad_header_graduate": "🎓 <b>Ustudy Bitiruvchisi</b>",
		"ad_header_employer": "👔 <b>Ish E'loni</b>",
		"not_entered":        "Kiritilmagan",
		"field_name":         "👤 <b>Ism:</b>",
		"field_age":          "🎂 <b>Yosh:</b>",
		"field_technologies": "💻 <b>Texnologiyalar:</b>",
		"field_contact":      "📞 <b>Aloqa:</b>",
		"field_region":       "🌍 <b>Hudud:</b>",
		"field_price":        "💰 <b>Narx:</b>",
		"field_profession":   "💼 <b>Kasb:</b>",
		"field_contact_time": "⏰ <b>Murojaat vaqti:</b>",
		"field_goal":         "🎯 <b>Maqsad:</b>",
		"field_company":      "🏢 <b>Ishxona:</b>",
		"field_category":     "📂 <b>Kategoriya:</b>",
		"field_gender":       "👥 <b>Jins:</b>",
		"field_experience":   "📈 <b>Tajriba:</b>",
		"field_work_days":    "📅 <b>Ish kunlari:</b>",
		"field_work_hours":   "🕐 <b>Ish vaqti:</b>",
		"field_location":     "📍 <b>Manzil:</b>",
		"field_salary":       "💵 <b>Maosh:</b>",
		"field_requirements": "📝 <b>Talablar:</b>",

		"admin_panel":                   "🔧 Admin Panel",
		"admin_stats_btn":               "📊 Statistika",
		"admin_pending_btn":             "⏳ Kutilayotgan e'lonlar",
		"admin_categories_btn":          "📂 Kategoriyalar",
		"admin_exit_btn":                "🚪 Chiqish",
		"admin_home_btn":                "🏠 Admin panel",
		"admin_pending_list_btn":        "📋 Kutilayotganlar ro'yxati",
		"approve_btn":                   "✅ Tasdiqlash",
		"reject_btn":                    "❌ Rad etish",
		"republish_btn":                 "🔁 Qayta yuborish",
		"admin_new_graduate":            "📝 Yangi bitiruvchi e'loni #%d",
		"admin_new_employer":            "📝 Yangi vakansiya e'loni #%d",
		"admin_approved":                "✅ E'lon #%d tasdiqlandi va kanalga yuborildi!",
		"admin_rejected":                "❌ E'lon #%d rad etildi!",
		"admin_publish_failed":          "⚠️ E'lon #%d tasdiqlandi, lekin kanalga yuborishda xatolik: %s",
		"admin_republish_queued":        "⏳ E'lon #%d qayta yuborish navbatiga qo'yildi.",
		"admin_not_pending":             "Bu e'lon kutilayotgan holatda emas!",
		"admin_not_approved":            "Bu e'lon tasdiqlanmagan!",
		"admin_no_pending":              "⏳ Kutilayotgan e'lonlar yo'q!",
		"admin_pending_title":           "⏳ <b>Kutilayotgan e'lonlar (%d):</b>\n\nE'lonni ko'rish uchun tanlang:",
		"admin_stats":                   "📊 <b>To'liq Statistika</b>\n\n👥 <b>Foydalanuvchilar:</b>\n   • Jami: %d\n   • Bitiruvchilar: %d (%.1f%%)\n   • Ish beruvchilar: %d (%.1f%%)\n   • O'quvchilar: %d\n\n📝 <b>E'lonlar:</b>\n   • Jami: %d\n   • ✅ Tasdiqlangan: %d (%.1f%%)\n   • ⏳ Kutilayotgan: %d (%.1f%%)\n   • ❌ Rad etilgan: %d\n   • 🚫 Bekor qilingan: %d",
		"admin_categories_title":        "📂 Kategoriyalar boshqaruvi",
		"admin_categories_list":         "📂 Kategoriyalar ro'yxati:",
		"admin_categories_total":        "📊 Jami: %d ta kategoriya",
		"admin_list_categories_btn":     "📂 Kategoriyalar ro'yxati",
		"admin_add_category_btn":        "➕ Kategoriya qo'shish",
		"admin_new_category_btn":        "➕ Yangi qo'shish",
		"admin_enter_category":          "➕ Yangi kategoriya nomini kiriting:",
		"admin_category_added":          "✅ Kategoriya '%s' muvaffaqiyatli qo'shildi!",
		"admin_category_actions":        "📂 Kategoriya: %s\n\nNima qilishni xohlaysiz?",
		"admin_category_current":        "✏️ Hozirgi nom: %s\n\nYangi nomni kiriting:",
		"admin_category_renamed":        "✅ Kategoriya nomi '%s' ga o'zgartirildi!",
		"admin_category_delete_confirm": "🗑 Kategoriyani o'chirish\n\n📂 %s\n\n⚠️ Bu amalni qaytarib bo'lmaydi!\nRostdan ham o'chirishni xohlaysizmi?",
		"admin_category_deleted":        "✅ Kategoriya o'chirildi!",
		"admin_back_to_categories":      "📂 Kategoriyalarga qaytish",
		"admin_category_not_found":      "Kategoriya topilmadi!",
		"admin_category_duplicate":      "❌ Bunday nomli kategoriya allaqachon mavjud!",
		"admin_category_length":         "❌ Kategoriya nomi %d dan %d gacha belgidan iborat bo'lishi kerak!",
		"admin_error":                   "❌ Xatolik yuz berdi!",
		"admin_student_message":         "📚 Ustudy o'quvchi xabari\n\n👤 Username: %s\n🆔 User ID: %d\n👤 Ism: %s\n💼 Yo'nalish: %s\n📚 Guruh: %s\n🏷 Tur: %s\n📝 Matn: %s",
		"admin_student_not_found":       "⚠️ Bu xabar database'da topilmadi. Lekin javob guruhda qoldirildi.",
		"admin_reply_sent":              "✅ Javob o'quvchiga yuborildi!",
		"admin_reply_failed":            "❌ Javob yuborishda xatolik yuz berdi!",
	},
	domain.LangRu: {
		"welcome":      "Добро пожаловать! Выберите язык для работы с ботом Ustudy:",
		"select_role":  "Выберите вашу роль:",
		"graduate":     "🎓 Выпускник Ustudy",
		"employer":     "👔 Работодатель",
		"student":      "📚 Ученик Ustudy",
		"welcome_as":   "Добро пожаловать, %s!",
		"main_menu_of": "%s: главное меню",

		"create_ad":          "Создать объявление",
		"my_ads":             "Мои объявления",
		"contact_admin":      "👨‍💼 Связаться с администратором",
		"contact_admin_text": "Нажмите кнопку ниже, чтобы написать администратору:",
		"contact_admin_btn":  "✉️ Написать администратору",
		"browse_by_category": "Просмотр по категориям",
		"press_start":        "Пожалуйста, нажмите /start",
		"choose_from_menu":   "Пожалуйста, выберите пункт меню.",

		"enter_name":         "Введите ваши имя и фамилию:",
		"enter_age_gr":       "Укажите ваш возраст:",
		"enter_technologies": "Перечислите технологии, которыми владеете:\n(Разделите названия запятыми. Например: Python, Django, PostgreSQL)",
		"enter_contact":      "Введите номер телефона для связи:\n(Например: +998 90 123 45 67)",
		"enter_region":       "Выберите регион:",
		"enter_price":        "На какую зарплату рассчитываете? (например: 500-1000$)",
		"enter_profession":   "В какой области специализируетесь?",
		"enter_contact_time": "В какое время с вами можно связаться?",
		"enter_goal":         "Опишите вашу цель:",
		"enter_resume":       "Загрузите файл резюме:",

		"enter_company":      "Введите название компании:",
		"enter_age_emp":      "Укажите требуемый возраст: (18-65)",
		"enter_job_category": "Выберите категорию вакансии:",
		"enter_gender":       "Для кого предназначена работа? (мужчина, женщина, не важно)",
		"enter_experience":   "Какой опыт работы требуется? (например: 1 год, 6 месяцев):",
		"enter_work_days":    "Укажите рабочие дни: (например: 5/2, 6/1)",
		"enter_work_hours":   "Укажите рабочее время: (например: 09:00-18:00)",
		"enter_location":     "Введите адрес места работы:",
		"enter_salary":       "Укажите размер зарплаты: (например: 500-1000$)",
		"enter_requirements": "Дополнительные требования (необязательно):\n(Отправьте -, чтобы пропустить)",
		"requirements_none":  "Нет",

		"confirm_ad":  "Проверьте правильность ваших данных:",
		"confirm_btn": "✅ Подтвердить",
		"edit_btn":    "✏️ Редактировать",
		"cancel_btn":  "❌ Отменить",
		"delete_btn":  "🗑 Удалить",

		"ad_created":        "✅ Объявление успешно создано и отправлено на модерацию!",
		"ad_cancelled":      "❌ Объявление отменено!",
		"ad_approved":       "🎉 Поздравляем! Ваше объявление одобрено и опубликовано в канале!",
		"ad_rejected":       "😔 К сожалению, ваше объявление было отклонено. Пожалуйста, исправьте данные и попробуйте снова.",
		"ad_cancelled_id":   "❌ Объявление #%d отменено!",
		"ad_deleted_id":     "✅ Объявление #%d успешно удалено!",
		"ad_delete_confirm": "🗑 Удаление объявления\n\n⚠️ Объявление исчезнет из вашего списка.\n\nВы действительно хотите удалить?",
		"yes_delete":        "✅ Да, удалить",
		"no":                "❌ Нет",

		"select_edit_field": "Какую информацию хотите изменить?",
		"edit_name":         "👤 Имя и фамилия",
		"edit_age":          "🎂 Возраст",
		"edit_technologies": "💻 Технологии",
		"edit_contact":      "📞 Номер телефона",
		"edit_region":       "🌍 Регион",
		"edit_price":        "💰 Зарплата",
		"edit_profession":   "💼 Специализация",
		"edit_contact_time": "⏰ Время для связи",
		"edit_goal":         "🎯 Цель",
		"edit_resume":       "📄 Resume",
		"edit_company":      "🏢 Компания",
		"edit_category":     "📂 Категория",
		"edit_gender":       "👥 Пол",
		"edit_experience":   "📈 Опыт работы",
		"edit_work_days":    "📅 Рабочие дни",
		"edit_work_hours":   "🕐 Рабочее время",
		"edit_location":     "📍 Адрес",
		"edit_salary":       "💵 Зарплата",
		"edit_requirements": "📝 Требования",
		"enter_new_value":   "Введите новое значение:",
		"field_updated":     "Информация успешно обновлена! ✅",

		"no_ads":              "У вас пока нет ни одного объявления.",
		"ads_list":            "Все ваши объявления:",
		"select_category":     "📂 Выберите категорию",
		"no_categories":       "Категории ещё не добавлены.",
		"no_ads_in_category":  "Объявления не найдены для: %s",
		"category_results":    "📂 Выбрана категория: %s\nНайденные объявления:",
		"ad_status_draft":     "📝 Черновик",
		"ad_status_pending":   "⏳ На рассмотрении",
		"ad_status_approved":  "✅ Одобрено",
		"ad_status_rejected":  "❌ Отклонено",
		"ad_status_cancelled": "🚫 Отменено",
		"ad_status_deleted":   "🗑 Удалено",
		"ad_detail_status":    "📊 <b>Статус:</b> %s",
		"ad_detail_created":   "📅 <b>Создано:</b> %s",
		"ad_detail_resume":    "📄 <b>Резюме:</b> Загружено ✅",
		"max_ads_limit":       "Вы можете создать максимум %d объявлений!",

		"share_contact": "📱 Отправить номер",
		"back":          "🔙 Назад",
		"main_menu":     "🏠 Главная страница",

		"student_send":            "Отправить Предложение/Жалобу",
		"enter_student_name":      "Введите ваше имя:",
		"enter_student_direction": "Ваше направление обучения:",
		"enter_student_group":     "Введите номер вашей группы:\n(Например: U12)",
		"enter_student_type":      "Предложение или жалоба? (предложение/жалоба)",
		"enter_student_message":   "Напишите текст сообщения:",
		"student_review":          "Проверьте ваши данные:",
		"student_type_suggest":    "Предложение",
		"student_type_complaint":  "Жалоба",
		"student_message_sent":    "✅ Ваше предложение/жалоба успешно отправлено и отправлено на рассмотрение администратору!",
		"student_message_failed":  "Не удалось отправить сообщение. Пожалуйста, попробуйте позже.",
		"student_reply":           "📚 Ответ на ваше обращение:\n\n%s\n\n💬 Ответ ответственного сотрудника",
		"label_name":              "Имя и фамилия",
		"label_direction":         "Направление",
		"label_group":             "Номер группы",
		"label_type":              "Тип",
		"label_message":           "Текст",

		"err_phone":         "❌ Неверный номер телефона. Например: +998 90 123 45 67",
		"err_age_not_digit": "❌ Возраст должен состоять только из цифр!",
		"err_age_range":     "❌ Возраст должен быть от %d до %d!",
		"err_too_short":     "❌ Введите не менее %d символов!",
		"err_too_long":      "❌ Введите не более %d символов!",
		"err_salary":        "❌ Зарплата должна состоять только из цифр! (например: 500$)",
		"err_gender":        "❌ Пожалуйста, введите один из вариантов: мужчина, женщина, не важно",
		"err_student_type":  "❌ Пожалуйста, напишите: предложение или жалоба.",
		"err_file_required": "❌ Пожалуйста, отправьте резюме документом.",
		"err_file_size":     "❌ Размер файла не должен превышать %d МБ!",
		"err_file_format":   "❌ Допустимые форматы: %s",
		"err_file_invalid":  "❌ Не удалось прочитать файл. Пожалуйста, отправьте другой файл.",
		"err_category":      "Категория не найдена!",
		"error_retry":       "⚠️ Произошла ошибка. Пожалуйста, попробуйте ещё раз.",
		"not_found":         "Объявление не найдено!",
		"already_processed": "Это объявление уже обработано!",
		"forbidden":         "У вас нет доступа!",
		"too_many_requests": "⏳ Слишком много запросов. Попробуйте немного позже.",

		"ad_header_graduate": "🎓 <b>Выпускник Ustudy</b>",
		"ad_header_employer": "👔 <b>Вакансия</b>",
		"not_entered":        "Не указано",
		"field_name":         "👤 <b>Имя:</b>",
		"field_age":          "🎂 <b>Возраст:</b>",
		"field_technologies": "💻 <b>Технологии:</b>",
		"field_contact":      "📞 <b>Контакт:</b>",
		"field_region":       "🌍 <b>Регион:</b>",
		"field_price":        "💰 <b>Зарплата:</b>",
		"field_profession":   "💼 <b>Профессия:</b>",
		"field_contact_time": "⏰ <b>Время для связи:</b>",
		"field_goal":         "🎯 <b>Цель:</b>",
		"field_company":      "🏢 <b>Компания:</b>",
		"field_category":     "📂 <b>Категория:</b>",
		"field_gender":       "👥 <b>Пол:</b>",
		"field_experience":   "📈 <b>Опыт:</b>",
		"field_work_days":    "📅 <b>Рабочие дни:</b>",
		"field_work_hours":   "🕐 <b>Рабочее время:</b>",
		"field_location":     "📍 <b>Адрес:</b>",
		"field_salary":       "💵 <b>Зарплата:</b>",
		"field_requirements": "📝 <b>Требования:</b>",
	},
}
