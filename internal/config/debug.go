package config

import "os"

func IsDebug() bool {
	return os.Getenv("UNATTEND_DEBUG") == "1"
}
