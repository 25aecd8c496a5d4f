package glob

import (
	"os"
	"sync/atomic"
	"time"
)

var (
	Uptime time.Time

	LogDesc *os.File
	LogName string

	ServerRunning      atomic.Bool
	ConfigPath         string
	DoRegisterCommands bool
	DoClearCommands    bool
)
