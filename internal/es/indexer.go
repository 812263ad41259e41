package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/andriev/inventory-api/internal/models"
)

// ProductIndexer mirrors product rows into the search index, keyed by the
// product's external uuid.
type ProductIndexer struct {
	Client *elasticsearch.Client
	Index  string
}

type productDoc struct {
	UUID  string  `json:"uuid"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func (i *ProductIndexer) IndexProduct(ctx context.Context, p models.Product) error {
	doc := productDoc{UUID: p.UUID, Name: p.Name, Price: p.Price}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("es: encoding document: %w", err)
	}

	res, err := i.Client.Index(
		i.Index,
		&buf,
		i.Client.Index.WithDocumentID(p.UUID),
		i.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("es: index: %s", res.Status())
	}
	return nil
}

func (i *ProductIndexer) DeleteProduct(ctx context.Context, uuid string) error {
	res, err := i.Client.Delete(
		i.Index,
		uuid,
		i.Client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete request: %w", err)
	}
	defer res.Body.Close()

	// A document that was never indexed is not an error worth surfacing.
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es: delete: %s", res.Status())
	}
	return nil
}
