package cons

const (
	ConfigFile         = "config.json"
	DataFile           = "data/data.json"
	LogDir             = "logs"
	MaxDiscordAttempts = 50

	/* Buttons */
	ButtonPrefix    = "assignRole_"
	SelectAllID     = ButtonPrefix + "getAll"
	DeselectAllID   = ButtonPrefix + "outAll"
	ButtonsPerPage  = 5
	PurgeLimit      = 100
	TokenPattern    = `^[a-zA-Z]{1,20}$`
	MaxTitleLen     = 256
	MaxDescLen      = 4096
	RegisterThreads = 4

	/* Embed colors */
	ColorNotice = 0xF67720
	ColorGreen  = 0x00FF00
	ColorRed    = 0xFF0000

	NoticeFooter = "This message may be re-sent at any time."
)
