package config

import (
	"bytes"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// SEEDOTP_SEED_STORE_FILE_PATH overrides seed_store.file.path.
const EnvPrefix = "SEEDOTP"

// ErrConfigTypeRequired is returned by NewViperFromBytes for a blank type.
var ErrConfigTypeRequired = errors.New("config: type is required")

// defaults apply when neither the file nor the environment sets a key.
var defaults = map[string]any{
	"app.server.http.address":     ":8080",
	"instrument.service_name":     "seedotp",
	"instrument.log_level":        "info",
	"twofa.totp.period":           30,
	"twofa.totp.skew":             0,
	"twofa.private_key.path":      "/srv/app/student_private.pem",
	"twofa.private_key.oaep_hash": "sha256",
	"twofa.seed.plaintext":        "raw",
	"seed_store.driver":           "file",
	"seed_store.file.path":        "/data/seed.txt",
	"messaging.driver":            "noop",
}

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v *viper.Viper
}

// NewViper reads the file at pathFile, its type taken from the extension, and
// reloads it whenever it changes on disk.
func NewViper(pathFile string) (*Viper, error) {
	v := newViper()
	v.SetConfigFile(pathFile)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config reloaded", "path", e.Name, "op", e.Op.String())
	})
	v.WatchConfig()

	return &Viper{v: v}, nil
}

// NewViperFromBytes reads configuration of the given type ("yaml", "json", ...) from data.
func NewViperFromBytes(configType string, data []byte) (*Viper, error) {
	if strings.TrimSpace(configType) == "" {
		return nil, ErrConfigTypeRequired
	}

	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	return &Viper{v: v}, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func (vc *Viper) GetInt(key string) int         { return vc.v.GetInt(key) }
func (vc *Viper) GetInt32(key string) int32     { return vc.v.GetInt32(key) }
func (vc *Viper) GetUint(key string) uint       { return vc.v.GetUint(key) }
func (vc *Viper) GetBool(key string) bool       { return vc.v.GetBool(key) }
func (vc *Viper) GetFloat64(key string) float64 { return vc.v.GetFloat64(key) }
func (vc *Viper) GetString(key string) string   { return vc.v.GetString(key) }

func (vc *Viper) GetSecond(key string) time.Duration {
	return time.Duration(vc.v.GetInt64(key)) * time.Second
}

func (vc *Viper) GetBinary(key string) []byte {
	raw := strings.TrimSpace(vc.v.GetString(key))
	if raw == "" {
		return nil
	}

	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding} {
		if data, err := enc.DecodeString(raw); err == nil {
			return data
		}
	}
	return nil
}

func (vc *Viper) GetArray(key string) []string {
	return lo.Compact(lo.Map(strings.Split(vc.v.GetString(key), ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}

// Close is a no-op; the file watcher lives for the process.
func (vc *Viper) Close() error {
	return nil
}
