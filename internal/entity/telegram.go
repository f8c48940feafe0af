package entity

const (
	privateChatTitle = "Личный чат"
	unknownUser      = "Неизвестный пользователь"
)

type TelegramBot struct {
	ID        int64
	Username  string
	FirstName string
}

// TelegramChat is a chat the bot has received a message from.
type TelegramChat struct {
	ID       int64
	Type     string
	Title    string
	UserName string
}

// NewTelegramChat fills the title and sender name the way operators see them in the setup page.
func NewTelegramChat(id int64, chatType, title, userName string) TelegramChat {
	if title == "" {
		title = privateChatTitle
	}

	if userName == "" {
		userName = unknownUser
	}

	return TelegramChat{ID: id, Type: chatType, Title: title, UserName: userName}
}

// TelegramSetup is what an operator needs to finish connecting the notification bot.
// ChatConfigured is set when TELEGRAM_CHAT_ID is present; only then a test message is sent.
type TelegramSetup struct {
	Bot             TelegramBot
	Chats           []TelegramChat
	ChatConfigured  bool
	TestMessageSent bool
	TestMessageErr  string
	UpdatesErr      string
}
