package config

import (
	"fmt"
	"os"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（3001）

	StoreDriver string // memory / file / postgres
	DataDir     string // fileドライバの保存先

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORSで使う）
}

// Loadは環境変数。開発用のデフォルトを持つ。
func Load() (Config, error) {
	cfg := Config{
		Port:        getenv("PORT", "3001"),
		StoreDriver: getenv("STORE_DRIVER", StoreDriverMemory),
		DataDir:     getenv("DATA_DIR", "./data"),
		GoEnv:       getenv("GO_ENV", "dev"),
		FEURL:       getenv("FE_URL", "http://localhost:3000"),
	}

	switch cfg.StoreDriver {
	case StoreDriverMemory, StoreDriverFile, StoreDriverPostgres:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be memory, file or postgres: %q", cfg.StoreDriver)
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
