package command

// User facing reply texts.
const (
	replyStart = "📝 Бот для управления задачами\n" +
		"Используй команду /add чтобы создать задачу\n" +
		"Или /help чтобы просмотреть список всех команд\n"

	replyHelp = "Доступные команды:\n" +
		"/add - Добавить задачу\n" +
		"/edit - Изменить задачу\n" +
		"/delete - Удалить задачу\n" +
		"/list - Список задач\n" +
		"/enable - Включить уведомления\n" +
		"/disable - Выключить уведомления\n"

	replyTaskAdded   = "✅ Задача успешно добавлена"
	replyTaskUpdated = "✅ Задача обновлена"
	replyTaskDeleted = "✅ Задача удалена"
	replyNoTasks     = "Нет активных задач"
	replyEnabled     = "🔔 Уведомления включены"
	replyDisabled    = "🔕 Уведомления отключены"

	replyEnableFailed  = "❌ Произошла ошибка при включении уведомлений"
	replyDisableFailed = "❌ Произошла ошибка при отключении уведомлений"
	replyInternal      = "⚠️ Произошла ошибка. Попробуйте позже."

	// Failures the user cannot fix. Details go to the log only.
	replyUnknownError = "❌ Неизвестная ошибка. Попробуйте позже."
	replyDeleteFailed = "❌ Ошибка удаления. Попробуйте позже."
	replyListFailed   = "❌ Ошибка при получении списка задач. Попробуйте позже."

	usageAdd    = "/add Заголовок; Описание; Приоритет(низкий, средний, высокий); Срок(ГГГГ-ММ-ДД ЧЧ:ММ)"
	usageEdit   = "/edit id Задачи; Поле; Новое значение"
	usageDelete = "Использование: /delete <id>"

	listHeader    = "Ваши задачи:\n"
	listSeparator = "────────────"
)

// Validation messages embedded in "❌ Ошибка: ..." replies.
const (
	msgAddFormat      = "Неверный формат. Используйте: " + usageAdd
	msgEditFormat     = "Неверный формат. Используйте: " + usageEdit
	msgInvalidField   = "Неверное поле. Допустимые значения: title, description, priority, status, duedate"
	msgPriority       = "Приоритет должен быть: низкий, средний или высокий"
	msgStatus         = "Статус должен быть: в работе, завершена или просрочена"
	msgDueDate        = "Неверный формат даты. Используйте ГГГГ-ММ-ДД ЧЧ:ММ"
	msgEmptyTitle     = "Заголовок не может быть пустым"
	msgTitleTooLong   = "Заголовок слишком длинный (не более 255 символов)"
	msgUserNotFound   = "Пользователь не найден"
	msgNotOwnedEdit   = "Задача не найдена или у вас нет прав на её редактирование"
	msgNotOwnedDelete = "Задача не найдена или у вас нет прав на её удаление"
)
