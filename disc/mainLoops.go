package disc

import (
	"RoleBoard/cwlog"
	"RoleBoard/glob"
	"os"
	"time"
)

func MainLoop() {

	/* Reconnect log descriptor */
	go func() {

		for glob.ServerRunning.Load() {
			time.Sleep(time.Second * 5)

			if _, err := os.Stat(glob.LogName); err != nil {
				if glob.LogDesc != nil {
					glob.LogDesc.Close()
					glob.LogDesc = nil
				}
				cwlog.StartLog()
				cwlog.DoLog("Log file was deleted, recreated.")
			}
		}
	}()
}
