package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DBUsername string `yaml:"db_username"`
	DBPassword string `yaml:"db_password"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBName     string `yaml:"db_name"`
	DisableTLS bool   `yaml:"disable_tls"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`

	S3Endpoint  string `yaml:"s3_endpoint"`
	S3Region    string `yaml:"s3_region"`
	S3AccessKey string `yaml:"s3_access_key"`
	S3SecretKey string `yaml:"s3_secret_key"`
	S3Bucket    string `yaml:"s3_bucket"`

	BaseUrl string `yaml:"base_url"`
}

func NewConfig() (*Config, error) {
	var c Config

	yamlFile, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if c.DBUsername == "" || c.DBPassword == "" || c.DBHost == "" || c.DBName == "" {
		return nil, errors.New("missing required database configuration")
	}

	return &c, nil
}
