package embedding

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"

	"technician-marketplace/domain"
)

const providerName = "openai"

// OpenAIEmbeddingClient implements the domain.EmbeddingClient interface using the OpenAI API.
type OpenAIEmbeddingClient struct {
	client *openai.Client
	model  openai.EmbeddingModel // e.g., text-embedding-3-small
}

// NewOpenAIEmbeddingClient creates a new OpenAIEmbeddingClient. The
// credential is checked here, once, so a missing key surfaces when the
// process starts rather than on the first profile write.
func NewOpenAIEmbeddingClient(apiKey string, model openai.EmbeddingModel) (*OpenAIEmbeddingClient, error) {
	if apiKey == "" {
		return nil, &domain.ConfigurationError{Setting: "OPENAI_API_KEY"}
	}
	client := openai.NewClient(apiKey)
	return &OpenAIEmbeddingClient{client: client, model: model}, nil
}

// Embed generates an embedding for the given text using the configured model.
func (c *OpenAIEmbeddingClient) Embed(ctx context.Context, text string) (domain.Embedding, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	}

	resp, err := c.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, &domain.EmbeddingProviderError{Err: err}
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, &domain.EmbeddingProviderError{Err: errors.New("provider returned no embedding")}
	}

	return domain.Embedding(resp.Data[0].Embedding), nil
}

// Provider returns the embedding provider name recorded on sync states.
func (c *OpenAIEmbeddingClient) Provider() string {
	return providerName
}

// Model returns the identifier of the configured embedding model.
func (c *OpenAIEmbeddingClient) Model() string {
	return string(c.model)
}
