// Package swfclient builds aws-sdk-go SWF clients aimed at a loom endpoint.
package swfclient

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/swf"
)

// Default credentials accepted by the emulator. Signatures are not checked.
const (
	DefaultAccessKey = "the_key"
	DefaultSecretKey = "the_secret"
	DefaultRegion    = "us-east-1"
)

// Config selects the endpoint and region of a client.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// New returns an SWF client for cfg.
func New(cfg Config) (*swf.SWF, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("swf client: endpoint is required")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.AccessKey == "" {
		cfg.AccessKey = DefaultAccessKey
	}
	if cfg.SecretKey == "" {
		cfg.SecretKey = DefaultSecretKey
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Endpoint:    aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		DisableSSL:  aws.Bool(strings.HasPrefix(cfg.Endpoint, "http://")),
		MaxRetries:  aws.Int(0),
	})
	if err != nil {
		return nil, fmt.Errorf("swf client: %w", err)
	}
	return swf.New(sess), nil
}
