package intent

// Multilingual trigger-phrase tables, one per intent tag. Centralized here
// so feature code never grows its own drifting keyword copies.

var resetTriggers = []string{
	"reset", "start over", "forget everything",
	"nollaa", "aloita alusta", "unohda kaikki",
	"сброс", "сбросить", "начать заново", "забудь все", "забудь всё",
	"alusta",
}

var smallTalkTriggers = []string{
	"hello", "hi", "hey", "good morning", "good evening", "how are you", "thank you", "thanks", "bye",
	"moi", "hei", "terve", "moro", "huomenta", "kiitos", "mitä kuuluu", "heippa",
	"привет", "здравствуйте", "добрый день", "доброе утро", "спасибо", "как дела", "пока",
	"tere", "aitäh",
}

var scheduleKeywords = []string{
	"schedule", "shift", "shifts", "rota", "roster", "calendar", "timetable",
	"vuoro", "vuorot", "työvuoro", "työvuorot", "vuorolista", "kalenteri", "aikataulu",
	"смена", "смены", "график", "расписание",
	"graafik", "vahetus",
}

// schedulePairs are two-word co-occurrence combinations that signal a
// schedule question even without a direct keyword.
var schedulePairs = [][2]string{
	{"today", "work"},
	{"tomorrow", "work"},
	{"when", "work"},
	{"tänään", "töihin"},
	{"huomenna", "töihin"},
	{"milloin", "töissä"},
	{"завтра", "работ"},
	{"сегодня", "работ"},
	{"когда", "работ"},
}

var salaryTriggers = []string{
	"salary", "wage", "pay", "earn", "paycheck", "how much will i get", "income",
	"palkka", "tuntipalkka", "kuukausipalkka", "paljonko saan", "tienaan", "ansaitsen",
	"зарплата", "ставка", "сколько я получу", "сколько заработаю", "оклад", "заработок",
	"palk",
}
