package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		TokenSignKey       string   `json:"token_sign_key"`
		TokenIssuer        string   `json:"token_issuer"`
		ShortLivedTokenTTL Duration `json:"short_lived_token_ttl"`
		LongLivedTokenTTL  Duration `json:"long_lived_token_ttl"`
		FieldCipherKey     string   `json:"field_cipher_key"`
		OperatorAPIKey     string   `json:"operator_api_key"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			BlobDir string `json:"blob_dir"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Render struct {
		MaxFontSize float64 `json:"max_font_size"`
		MinFontSize float64 `json:"min_font_size"`
		FontPath    string  `json:"font_path"`
	} `json:"render,omitempty"`

	Notify struct {
		WebhookURL string   `json:"webhook_url"`
		Timeout    Duration `json:"timeout"`
	} `json:"notify,omitempty"`

	Workers struct {
		AssemblyConcurrency int `json:"assembly_concurrency"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			TokenSignKey:       jsonCfg.App.TokenSignKey,
			TokenIssuer:        jsonCfg.App.TokenIssuer,
			ShortLivedTokenTTL: time.Duration(jsonCfg.App.ShortLivedTokenTTL),
			LongLivedTokenTTL:  time.Duration(jsonCfg.App.LongLivedTokenTTL),
			FieldCipherKey:     jsonCfg.App.FieldCipherKey,
			OperatorAPIKey:     jsonCfg.App.OperatorAPIKey,
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Files: Files{
				BlobDir: jsonCfg.Storage.Files.BlobDir,
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Render: Render{
			MaxFontSize: jsonCfg.Render.MaxFontSize,
			MinFontSize: jsonCfg.Render.MinFontSize,
			FontPath:    jsonCfg.Render.FontPath,
		},
		Notify: Notify{
			WebhookURL: jsonCfg.Notify.WebhookURL,
			Timeout:    time.Duration(jsonCfg.Notify.Timeout),
		},
		Workers: Workers{
			AssemblyConcurrency: jsonCfg.Workers.AssemblyConcurrency,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
