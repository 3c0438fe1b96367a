// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// defaultConfig returns the built-in defaults merged in with the lowest
// priority. Secrets (keys, DSN) intentionally have no default.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:        "signcore",
			ShortLivedTokenTTL: 15 * time.Minute,
			LongLivedTokenTTL:  30 * 24 * time.Hour,
		},
		Storage: Storage{
			Files: Files{
				BlobDir: "./blobs",
			},
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Render: Render{
			MaxFontSize: 14,
			MinFontSize: 6,
		},
		Notify: Notify{
			Timeout: 5 * time.Second,
		},
		Workers: Workers{
			AssemblyConcurrency: 4,
		},
	}
}
