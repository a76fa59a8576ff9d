// Package config provides configuration types and loading for gdorking.
package config
