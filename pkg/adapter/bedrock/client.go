// Package bedrock implements the adapter transport on top of the AWS Bedrock runtime.
package bedrock

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/pkg/adapter"
)

const contentTypeJSON = "application/json"

// RuntimeAPI is the subset of the Bedrock runtime client used by the transport.
type RuntimeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client sends adapter payloads to Bedrock InvokeModel.
type Client struct {
	api RuntimeAPI
}

// New creates a transport from an existing runtime client.
func New(api RuntimeAPI) *Client {
	return &Client{api: api}
}

// LoadConfig loads the default AWS configuration (environment, shared files, instance role)
// for region.
func LoadConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, errors.Wrap(err, "unable to load AWS configuration")
	}

	return cfg, nil
}

// NewFromConfig creates a transport and a model catalog sharing cfg.
func NewFromConfig(cfg aws.Config) (*Client, *Catalog) {
	return New(bedrockruntime.NewFromConfig(cfg)), NewCatalog(bedrock.NewFromConfig(cfg))
}

// Invoke implements adapter.Transport.
func (c *Client) Invoke(ctx context.Context, modelID string, payload []byte) ([]byte, error) {
	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		ContentType: aws.String(contentTypeJSON),
		Accept:      aws.String(contentTypeJSON),
		Body:        payload,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error calling Bedrock")
	}
	if out == nil {
		return nil, errors.New("empty Bedrock output")
	}

	return out.Body, nil
}

var _ adapter.Transport = (*Client)(nil)
