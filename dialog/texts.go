package dialog

// User-facing texts. The audience is Russian-speaking, matching the
// community the bot serves.

const greetingText = `Привет, Беларус\ка Испании!

Если ты готов\а помочь в передаче мелких вещей или документов во время своей поездки домой, или же ищешь кого-то, кто может помочь тебе - этот бот готов быть твоим инструментом.

Ты можешь сохранить приблизительные даты своей поездки и информацию о том, что ты готов\а взять с собой. Или же поискать, есть ли кто-то, кто готов взять с собой вещи\документы и едет в интересующий тебя период.

Список хотелок и\или жалоб можно прислать мне в телеграм: https://t.me/Fideloin

ВАЖНО! Чтобы другие пользователи могли вам написать, для бота должна быть разрешена пересылка ваших сообщений. Подробности, а также информацию о приватности, исходном коде бота и хранимых данных вы можете найти использовав команду /about`

const aboutText = `Бот был написан чтобы занять руки и для помощи беларусам Малаги и окрестностей. Пока что целевая аудитория - беларусы в Испании, но если будет потребность, завезу ещё и поддержку других стран.

Исходный код бота можно найти по ссылке - https://github.com/Fideloin/carrier-bot . Автор приветствует комментарии\предложения и PR'ы.

ВАЖНО! Ни бот, ни ищущий не имеют доступа к вашему телефону/имени/контактам/личным данным. Ваш контакт будет выдан в формате ссылки "<a href="tg://user?id=123456789">Username</a>".
В этом формате человеку можно написать, но никакой информации об аккаунте, кроме общедоступной, получить не получится.

ВАЖНО! Чтобы ссылка выше работала, человек оставивший контакт должен разрешить пересылку своих сообщений. По дефолту эта опция включена, но если вы её меняли и забыли, то проверить можно в настройках Телеграм: "Настройки/Конфиденциальность/Пересылка сообщений". Там можно разрешить всем, своим контактам или никому. Удостоверьтесь, что у вас разрешена пересылка всем, либо добавьте контакт бота в список исключений. Доступа ни к каким сообщениям бот не имеет, функция нужна лишь для того, чтобы ссылка на ваше имя была кликабельной для человека, который нашёл вашу сохранённую поездку.

При удалении всех поездок, удаляется также и вся хранимая информация

Кратко об инфраструктуре - бот работает на AWS Lambda, база данных - AWS DynamoDB. Физический регион ресурсов - N.Virginia, US. Хранимая информация в базе - телеграм user_id, никнейм, информация о планируемой поездке (даты и примечание). Логи работы бота удаляются автоматически по прошествии 3-х дней.`

const aboutFollowupText = "Нажмите /start чтобы начать работу с ботом"

const helpText = `Используйте /start чтобы начать работу с ботом

Используйте /help чтобы увидеть это сообщение

Используйте /about чтобы увидеть информацию об исходном боте, конфиденциальности и сохраняемых данных`

const saveTripBelarusDateText = `Пожалуйста введите предполагаемую дату вашей поездки в Беларусь

Используйте формат DD-MM-YYYY (например: 17-03-2024)

Если поездка только из Беларуси, всё равно отправьте "-", чтобы ваша поездка сохранилась в базе`

const saveTripSpainDateText = `И предполагаемую дату вашей поездки в Испанию

Используйте формат DD-MM-YYYY (например: 20-04-2024)

Если поездка только в Беларусь, всё равно отправьте "-", чтобы ваша поездка сохранилась в базе`

const saveTripNoteText = `Какие-нибудь заметки по поводу того, с чем к вам можно обратиться? Что вы можете взять с собой?

Например: "Еду налегке, поэтому готов помочь с передачей любых мелких вещей"; "Много вещей и напряжённый график. Могу взять только какие-нибудь документы"

Если писать нечего, пожалуйста, всё равно отправьте "-", чтобы ваша поездка сохранилась в базе`

const saveSuccessText = `Поездка сохранена

Вы можете посмотреть свои предстоящие поездки нажав кнопку снизу`

const incorrectDateText = "Невалидный формат даты. Пожалуйста, вводите дату в формате DD-MM-YYYY (например, 28-05-2024)"

const searchIntroText = `Давайте поищем, кто может отвезти ваши вещи.

Хотите передать вещи в Беларусь или в Испанию?`

const searchBelarusMonthText = "Введите интересующий вас месяц для передачи в Беларусь в формате MM-YYYY (например, 03-2024)"

const searchSpainMonthText = "Введите интересующий вас месяц для передачи в Испанию в формате MM-YYYY (например, 03-2024)"

const incorrectMonthText = "Невалидный формат даты. Пожалуйста, вводите дату в формате MM-YYYY (например, 03-2024)"

const emptySearchText = "К сожалению, в этом месяце никто не едет."

const noTripsText = "У вас нет предстоящих поездок"

const myTripsHeaderText = "Вот ваши предстоящие поездки:\n\n"

const storeUnavailableText = "Хранилище сейчас недоступно. Пожалуйста, попробуйте ещё раз через минуту."

const genericErrorText = `Невозможно обработать сообщение.

К сожалению, я не ChatGPT, и не понимаю, что именно вы имеете в виду. Пожалуйста следуйте инструкциям бота, чтобы достичь интересующего результата.

Если не получается решить проблему - пожалуйста напишите мне в ТГ, или откройте issue в github.

Нажмите /start чтобы начать заново`

const unknownActionAlertText = "Something went wrong"
