package bedrock

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
	"github.com/pkg/errors"

	"github.com/askiada/go-model-chain/pkg/adapter"
)

// ControlAPI is the subset of the Bedrock control plane client used by the catalog.
type ControlAPI interface {
	ListFoundationModels(ctx context.Context, params *bedrock.ListFoundationModelsInput, optFns ...func(*bedrock.Options)) (*bedrock.ListFoundationModelsOutput, error)
}

// ModelSummary describes a foundation model available in the configured region.
type ModelSummary struct {
	ID       string
	Name     string
	Provider string
	// Profile is ProfileUnknown when the adapter cannot talk to the model.
	Profile adapter.Profile
}

// Catalog lists the foundation models of a region.
type Catalog struct {
	api ControlAPI
}

func NewCatalog(api ControlAPI) *Catalog {
	return &Catalog{api: api}
}

// Models returns every foundation model sorted by id, with its resolved adapter profile.
func (c *Catalog) Models(ctx context.Context) ([]ModelSummary, error) {
	out, err := c.api.ListFoundationModels(ctx, &bedrock.ListFoundationModelsInput{})
	if err != nil {
		return nil, errors.Wrap(err, "unable to list foundation models")
	}

	models := make([]ModelSummary, 0, len(out.ModelSummaries))
	for _, sum := range out.ModelSummaries {
		id := aws.ToString(sum.ModelId)
		profile, _ := adapter.ResolveProfile(id)
		models = append(models, ModelSummary{
			ID:       id,
			Name:     aws.ToString(sum.ModelName),
			Provider: aws.ToString(sum.ProviderName),
			Profile:  profile,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID < models[j].ID
	})

	return models, nil
}
