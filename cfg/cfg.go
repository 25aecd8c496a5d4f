package cfg

import (
	"RoleBoard/cons"
	"RoleBoard/cwlog"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

var Config ServerConfig

type ServerConfig struct {
	Token    string
	App      string
	Owner    string
	Guilds   []string
	DataFile string
}

// Allowed reports whether the guild is on the allow-list.
func (c *ServerConfig) Allowed(guildID string) bool {
	if guildID == "" {
		return false
	}
	for _, g := range c.Guilds {
		if g == guildID {
			return true
		}
	}
	return false
}

func (c *ServerConfig) DataPath() string {
	if c.DataFile == "" {
		return cons.DataFile
	}
	return c.DataFile
}

func WriteCfg(path string) bool {
	tempPath := path + ".tmp"
	finalPath := path

	outbuf := new(bytes.Buffer)
	enc := json.NewEncoder(outbuf)
	enc.SetIndent("", "\t")

	if err := enc.Encode(Config); err != nil {
		cwlog.DoLog("WriteCfg: enc.Encode failure")
		return false
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			cwlog.DoLog("WriteCfg: MkdirAll failure")
			return false
		}
	}

	err := os.WriteFile(tempPath, outbuf.Bytes(), 0644)
	if err != nil {
		cwlog.DoLog("WriteCfg: WriteFile failure")
		return false
	}

	err = os.Rename(tempPath, finalPath)
	if err != nil {
		cwlog.DoLog("WriteCfg: Couldn't rename cfg file.")
		return false
	}

	return true
}

func ReadCfg(path string) bool {

	_, err := os.Stat(path)
	notfound := os.IsNotExist(err)

	if notfound {
		cwlog.DoLog("ReadCfg: os.Stat failed, empty config generated.")
		Config = ServerConfig{DataFile: cons.DataFile}
		return true
	}

	file, err := os.ReadFile(path)
	if err != nil {
		cwlog.DoLog("ReadCfg: ReadFile failure")
		return false
	}

	newcfg := ServerConfig{}
	err = json.Unmarshal(file, &newcfg)
	if err != nil {
		cwlog.DoLog("ReadCfg: Unmarshal failure")
		cwlog.DoLog(err.Error())
		return false
	}

	Config = newcfg
	return true
}
