package handlers

// Форматы аргументов команд
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	// Флаг повторения opening'а каждую неделю
	WeeklyFlag = "weekly"
)

const helpText = "📚 Справка по командам:\n\n" +
	"/opening 2020-08-04 09:30 12:30 - Открыть время (кратно 30 минутам)\n" +
	"/opening 2020-08-04 09:30 12:30 weekly - Открыть время каждую неделю\n" +
	"/appointment 2020-08-11 10:30 11:30 - Записаться на свободные слоты (в пределах одного дня)\n" +
	"/availability 2020-08-10 - Свободные слоты на 7 дней\n" +
	"/help - Показать эту справку"
