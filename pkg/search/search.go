package search

import (
	"context"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/sampleloop/inventory-service/config"
)

// Client wraps the elasticsearch client. The service treats search as an
// optional collaborator; callers must tolerate a nil *Client.
type Client struct {
	ES *elasticsearch.Client
}

func NewClient(cfg *config.ElasticsearchConfig) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := es.Info(es.Info.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	return &Client{ES: es}, nil
}
