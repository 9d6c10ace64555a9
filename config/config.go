package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Storage     Storage      `json:"storage" yaml:"storage" mapstructure:"storage"`
	Server      Server       `json:"server" yaml:"server" mapstructure:"server"`
	Library     Library      `json:"library" yaml:"library" mapstructure:"library"`
	Manager     Manager      `json:"manager" yaml:"manager" mapstructure:"manager"`
	Downloaders []Downloader `json:"downloaders" yaml:"downloaders" mapstructure:"downloaders" validate:"dive"`
	Notify      Notify       `json:"notify" yaml:"notify" mapstructure:"notify"`
}

// Storage configuration is assumed to be for sqlite database only currently
type Storage struct {
	FilePath string `json:"filePath" yaml:"filePath" mapstructure:"filePath" validate:"required"`
}

type Server struct {
	Port int `json:"port" yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
}

// Library is where finished downloads are picked up and where organized movies go
type Library struct {
	Enabled     bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	IncomingDir string `json:"incoming" yaml:"incoming" mapstructure:"incoming" validate:"required_if=Enabled true"`
	MovieDir    string `json:"movie" yaml:"movie" mapstructure:"movie" validate:"required_if=Enabled true"`
	FileAction  string `json:"fileAction" yaml:"fileAction" mapstructure:"fileAction" validate:"oneof=move link copy"`
}

// Manager houses configuration related to the release manager and its jobs
type Manager struct {
	NextOnFailed   bool          `json:"nextOnFailed" yaml:"nextOnFailed" mapstructure:"nextOnFailed"`
	CheckSnatched  time.Duration `json:"checkSnatched" yaml:"checkSnatched" mapstructure:"checkSnatched" validate:"gte=0"`
	CleanDone      time.Duration `json:"cleanDone" yaml:"cleanDone" mapstructure:"cleanDone" validate:"gte=0"`
	CleanDoneAge   time.Duration `json:"cleanDoneAge" yaml:"cleanDoneAge" mapstructure:"cleanDoneAge" validate:"gt=0"`
	MissingTimeout time.Duration `json:"missingTimeout" yaml:"missingTimeout" mapstructure:"missingTimeout" validate:"gt=0"`
	LockFile       string        `json:"lockFile" yaml:"lockFile" mapstructure:"lockFile"`
}

// Downloader configures one download client and how the release manager may use it
type Downloader struct {
	Name           string `json:"name" yaml:"name" mapstructure:"name"`
	Implementation string `json:"implementation" yaml:"implementation" mapstructure:"implementation" validate:"oneof=sabnzbd transmission"`
	Scheme         string `json:"scheme" yaml:"scheme" mapstructure:"scheme" validate:"omitempty,oneof=http https"`
	Host           string `json:"host" yaml:"host" mapstructure:"host" validate:"required"`
	Port           int    `json:"port" yaml:"port" mapstructure:"port" validate:"gte=0,lte=65535"`
	APIKey         string `json:"apiKey" yaml:"apiKey" mapstructure:"apiKey"`
	Category       string `json:"category" yaml:"category" mapstructure:"category"`
	DownloadDir    string `json:"downloadDir" yaml:"downloadDir" mapstructure:"downloadDir"`
	MountPrefix    string `json:"mountPrefix" yaml:"mountPrefix" mapstructure:"mountPrefix"`
	Enabled        bool   `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Manual         bool   `json:"manual" yaml:"manual" mapstructure:"manual"`
	DeleteFailed   bool   `json:"deleteFailed" yaml:"deleteFailed" mapstructure:"deleteFailed"`
	RemoveComplete bool   `json:"removeComplete" yaml:"removeComplete" mapstructure:"removeComplete"`
	DeleteFiles    bool   `json:"deleteFiles" yaml:"deleteFiles" mapstructure:"deleteFiles"`
}

type Notify struct {
	NATS NATS `json:"nats" yaml:"nats" mapstructure:"nats"`
}

// NATS publishes release events when URL is set
type NATS struct {
	URL  string `json:"url" yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Name string `json:"name" yaml:"name" mapstructure:"name"`
}

type ConfigUnmarshaler interface {
	ReadInConfig() error
	Unmarshal(any, ...viper.DecoderConfigOption) error
	ConfigFileUsed() string
}

// New reads a new configuration
func New(cu ConfigUnmarshaler) (Config, error) {
	var c Config

	if cu.ConfigFileUsed() != "" {
		err := cu.ReadInConfig()
		if err != nil {
			return c, err
		}
	}

	err := cu.Unmarshal(&c)
	return c, err
}

// Validate checks the values New cannot, like known file actions and downloader implementations
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}
