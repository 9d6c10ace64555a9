package config

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/kasuboski/snatcher/config/mocks"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	t.Run("fail to read in config", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		cu := mocks.NewMockConfigUnmarshaler(ctrl)

		wantErr := errors.New("expected testing error")
		cu.EXPECT().ConfigFileUsed().Times(1).Return("fake-config.yaml")
		cu.EXPECT().ReadInConfig().Times(1).Return(wantErr)
		c, err := New(cu)
		if err == nil {
			t.Errorf("TestNew() err = %v, want %v", err, wantErr)
		}

		wantConfig := Config{}
		if !reflect.DeepEqual(c, wantConfig) {
			t.Errorf("TestNew() config = %v, want %v", c, wantConfig)
		}
	})

	t.Run("success with file", func(t *testing.T) {
		cu := viper.New()
		cu.SetConfigFile("./testing/config.yaml")
		c, err := New(cu)
		if err != nil {
			t.Errorf("TestNew() err = %v, want %v", err, nil)
		}

		wantConfig := Config{
			Storage: Storage{FilePath: "/data/snatcher.sqlite"},
			Library: Library{
				Enabled:     true,
				IncomingDir: "/downloads/complete",
				MovieDir:    "/media/movies",
				FileAction:  "link",
			},
			Manager: Manager{
				NextOnFailed:   true,
				CheckSnatched:  time.Minute,
				MissingTimeout: 7 * 24 * time.Hour,
			},
			Downloaders: []Downloader{
				{
					Name:           "sab",
					Implementation: "sabnzbd",
					Scheme:         "http",
					Host:           "sabnzbd",
					Port:           8080,
					APIKey:         "my-sab-key",
					Category:       "movies",
					Enabled:        true,
					DeleteFailed:   true,
				},
				{
					Implementation: "transmission",
					Host:           "transmission",
					Port:           9091,
					MountPrefix:    "/downloads",
					Enabled:        true,
					RemoveComplete: true,
				},
			},
			Notify: Notify{NATS: NATS{URL: "nats://nats:4222"}},
		}

		if !reflect.DeepEqual(c, wantConfig) {
			t.Errorf("TestNew() config = %+v, want %+v", c, wantConfig)
		}
	})

	t.Run("success without file", func(t *testing.T) {
		cu := viper.New()
		cu.SetConfigFile("")
		cu.SetDefault("storage.filePath", "snatcher.sqlite")
		cu.SetDefault("library.fileAction", "move")
		c, err := New(cu)
		if err != nil {
			t.Errorf("TestNew() err = %v, want %v", err, nil)
		}

		wantConfig := Config{
			Storage: Storage{FilePath: "snatcher.sqlite"},
			Library: Library{FileAction: "move"},
		}

		if !reflect.DeepEqual(c, wantConfig) {
			t.Errorf("TestNew() config = %+v, want %+v", c, wantConfig)
		}
	})
}

func validConfig() Config {
	return Config{
		Storage: Storage{FilePath: "snatcher.sqlite"},
		Server:  Server{Port: 8080},
		Library: Library{FileAction: "move"},
		Manager: Manager{
			CheckSnatched:  time.Minute,
			CleanDone:      4 * time.Hour,
			CleanDoneAge:   7 * 24 * time.Hour,
			MissingTimeout: 7 * 24 * time.Hour,
		},
		Downloaders: []Downloader{{Implementation: "sabnzbd", Host: "sabnzbd"}},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{name: "valid", modify: func(c *Config) {}},
		{name: "unknown file action", modify: func(c *Config) { c.Library.FileAction = "symlink" }, wantErr: true},
		{name: "enabled library needs directories", modify: func(c *Config) { c.Library.Enabled = true }, wantErr: true},
		{name: "enabled library with directories", modify: func(c *Config) {
			c.Library = Library{Enabled: true, IncomingDir: "/in", MovieDir: "/movies", FileAction: "copy"}
		}},
		{name: "unknown downloader", modify: func(c *Config) { c.Downloaders[0].Implementation = "deluge" }, wantErr: true},
		{name: "downloader without host", modify: func(c *Config) { c.Downloaders[0].Host = "" }, wantErr: true},
		{name: "negative interval", modify: func(c *Config) { c.Manager.CheckSnatched = -time.Second }, wantErr: true},
		{name: "zero missing timeout", modify: func(c *Config) { c.Manager.MissingTimeout = 0 }, wantErr: true},
		{name: "bad nats url", modify: func(c *Config) { c.Notify.NATS.URL = "not a url" }, wantErr: true},
		{name: "no storage path", modify: func(c *Config) { c.Storage.FilePath = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(&c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
