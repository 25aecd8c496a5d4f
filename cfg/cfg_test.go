package cfg

import (
	"os"
	"path/filepath"
	"testing"

	"RoleBoard/cons"
)

func TestReadWriteCfg(t *testing.T) {
	t.Run("missing file yields empty config", func(t *testing.T) {
		Config = ServerConfig{Token: "stale"}
		if !ReadCfg(filepath.Join(t.TempDir(), "none.json")) {
			t.Fatalf("expected success")
		}
		if Config.Token != "" || Config.DataPath() != cons.DataFile {
			t.Fatalf("unexpected config %+v", Config)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "conf", "config.json")
		Config = ServerConfig{Token: "tok", App: "1", Owner: "2", Guilds: []string{"10", "11"}, DataFile: "x.json"}
		if !WriteCfg(path) {
			t.Fatalf("write failed")
		}
		if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
			t.Fatalf("temp file left behind")
		}
		Config = ServerConfig{}
		if !ReadCfg(path) {
			t.Fatalf("read failed")
		}
		if Config.Owner != "2" || len(Config.Guilds) != 2 || Config.DataPath() != "x.json" {
			t.Fatalf("unexpected config %+v", Config)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte("{"), 0644); err != nil {
			t.Fatal(err)
		}
		if ReadCfg(path) {
			t.Fatalf("expected failure")
		}
	})
}

func TestAllowed(t *testing.T) {
	c := ServerConfig{Guilds: []string{"10"}}
	if !c.Allowed("10") {
		t.Fatalf("expected allowed")
	}
	if c.Allowed("11") || c.Allowed("") {
		t.Fatalf("expected denied")
	}
}
