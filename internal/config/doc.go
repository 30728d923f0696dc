// Storefront Recommender - Content-Based Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-recommender

/*
Package config loads and validates recommender configuration.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. Only the variables listed in
envMappings are read; anything else in the environment is ignored.

# Usage

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(cfg.Recommend.BackendURL)

# Config File

CONFIG_PATH points at a YAML file. Without it, config.yaml, config.yml and
/etc/storefront-recommender/config.yaml are tried in order:

	server:
	  port: 8001
	recommend:
	  backend_url: http://catalog:8000
	  training_days: 90
	schedule:
	  cron: "0 2 * * *"
	  timezone: Europe/Berlin
	cache:
	  backend: redis
	  redis:
	    addr: redis:6379

# Validation

Load fails fast when a value is out of range: ports, the upstream base URL,
the training window (1..3650 days), the retrain cron expression and time zone,
and the cache backend selection (memory, redis, badger).
*/
package config
